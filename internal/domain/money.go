package domain

import "github.com/shopspring/decimal"

// TaxRate is the fixed IVA applied to purchase subtotals
var TaxRate = decimal.RequireFromString("0.12")

// Round2 rounds an amount to 2 decimal places, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmounts computes subtotal, tax and total for a quantity at a unit price
func LineAmounts(quantity int, unitPrice decimal.Decimal) PurchaseTotals {
	return TotalsFromSubtotal(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// TotalsFromSubtotal derives tax and total from a purchase subtotal.
// The subtotal itself is rounded to 2 decimals first.
func TotalsFromSubtotal(subtotal decimal.Decimal) PurchaseTotals {
	subtotal = Round2(subtotal)
	tax := Round2(subtotal.Mul(TaxRate))
	return PurchaseTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// FormatMoney renders an amount the way it is shown to users, e.g. "$22.40"
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
