// Package cart holds the uncommitted line items of a purchase.
//
// A Cart is a value: every operation takes a Cart and returns the updated
// Cart, leaving the argument untouched. Monetary fields of every line item
// always satisfy subtotal = round2(quantity*unitPrice), tax =
// round2(subtotal*12%), total = subtotal+tax, and a cart never holds two
// items for the same product.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/pkg/errors"
)

// State is the lifecycle state of a cart
type State string

const (
	StateEmpty      State = "EMPTY"
	StatePopulated  State = "POPULATED"
	StateSubmitting State = "SUBMITTING"
)

// Cart is the uncommitted set of line items for the selected purchase
type Cart struct {
	ID       uuid.UUID
	Purchase *domain.Purchase
	Items    []domain.LineItem
	State    State
}

// New creates an empty cart with no purchase selected
func New(id uuid.UUID) Cart {
	return Cart{ID: id, State: StateEmpty}
}

// IsEmpty reports whether the cart has no line items
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the line item for a product, if present
func (c Cart) Find(productID int64) (domain.LineItem, bool) {
	for _, item := range c.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return domain.LineItem{}, false
}

// SelectPurchase sets the purchase the cart's items will be saved against.
// Switching to a different purchase while items are pending is a conflict;
// the cart has to be cleared first.
func SelectPurchase(c Cart, purchase *domain.Purchase) (Cart, error) {
	if purchase == nil {
		return c, &errors.ErrValidation{Field: "purchase", Message: "a purchase must be selected"}
	}
	if c.State == StateSubmitting {
		return c, &errors.ErrSubmissionInProgress{CartID: c.ID.String()}
	}
	if c.Purchase != nil && c.Purchase.ID != purchase.ID && !c.IsEmpty() {
		return c, &errors.ErrConflict{
			Message: "cart has pending items for another purchase, clear it first",
		}
	}

	p := *purchase
	next := c.clone()
	next.Purchase = &p
	for i := range next.Items {
		next.Items[i].PurchaseID = p.ID
	}
	return next, nil
}

// AddLineItem adds quantity units of product to the cart. Adding a product
// that is already in the cart accumulates its quantity and recomputes the
// amounts from the unit price stored on the item.
func AddLineItem(c Cart, product *domain.Product, quantity int) (Cart, domain.LineItem, error) {
	if product == nil {
		return c, domain.LineItem{}, &errors.ErrValidation{Field: "product", Message: "a product must be selected"}
	}
	if quantity < 1 {
		return c, domain.LineItem{}, &errors.ErrValidation{Field: "quantity", Message: "must be at least 1"}
	}
	if c.Purchase == nil {
		return c, domain.LineItem{}, &errors.ErrValidation{Field: "purchase", Message: "a purchase must be selected"}
	}
	if c.State == StateSubmitting {
		return c, domain.LineItem{}, &errors.ErrSubmissionInProgress{CartID: c.ID.String()}
	}

	next := c.clone()
	for i, existing := range next.Items {
		if existing.Product.ID != product.ID {
			continue
		}
		updated := withQuantity(existing, existing.Quantity+quantity)
		next.Items[i] = updated
		next.State = StatePopulated
		return next, updated, nil
	}

	item := withQuantity(domain.LineItem{
		ClientID:   uuid.New(),
		UnitPrice:  domain.Round2(product.UnitPrice),
		Product:    *product,
		PurchaseID: c.Purchase.ID,
	}, quantity)
	next.Items = append(next.Items, item)
	next.State = StatePopulated
	return next, item, nil
}

// RemoveLineItem deletes an item by its client id. Removing an unknown id
// leaves the cart unchanged and reports false.
func RemoveLineItem(c Cart, clientID uuid.UUID) (Cart, bool, error) {
	if c.State == StateSubmitting {
		return c, false, &errors.ErrSubmissionInProgress{CartID: c.ID.String()}
	}
	idx := -1
	for i, item := range c.Items {
		if item.ClientID == clientID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, false, nil
	}

	next := c.clone()
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	if next.IsEmpty() {
		next.State = StateEmpty
	}
	return next, true, nil
}

// Clear drops every item and the purchase selection
func Clear(c Cart) (Cart, error) {
	if c.State == StateSubmitting {
		return c, &errors.ErrSubmissionInProgress{CartID: c.ID.String()}
	}
	return New(c.ID), nil
}

// Totals sums the stored amounts of every line item
func Totals(c Cart) domain.PurchaseTotals {
	totals := domain.PurchaseTotals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, item := range c.Items {
		totals.Subtotal = totals.Subtotal.Add(item.Subtotal)
		totals.Tax = totals.Tax.Add(item.Tax)
		totals.Total = totals.Total.Add(item.Total)
	}
	return totals
}

// BeginSubmit moves a populated cart into the submitting state
func BeginSubmit(c Cart) (Cart, error) {
	if c.State == StateSubmitting {
		return c, &errors.ErrSubmissionInProgress{CartID: c.ID.String()}
	}
	if c.IsEmpty() {
		return c, &errors.ErrValidation{Message: "there are no line items to save"}
	}
	if c.Purchase == nil {
		return c, &errors.ErrValidation{Field: "purchase", Message: "a purchase must be selected first"}
	}
	next := c.clone()
	next.State = StateSubmitting
	return next, nil
}

// FinishSubmit ends a submission. A successful one resets the cart, a
// failed one keeps the items so the user can retry.
func FinishSubmit(c Cart, success bool) Cart {
	if success {
		return New(c.ID)
	}
	next := c.clone()
	if next.IsEmpty() {
		next.State = StateEmpty
	} else {
		next.State = StatePopulated
	}
	return next
}

func withQuantity(item domain.LineItem, quantity int) domain.LineItem {
	amounts := domain.LineAmounts(quantity, item.UnitPrice)
	item.Quantity = quantity
	item.Subtotal = amounts.Subtotal
	item.Tax = amounts.Tax
	item.Total = amounts.Total
	return item
}

func (c Cart) clone() Cart {
	next := c
	next.Items = make([]domain.LineItem, len(c.Items))
	copy(next.Items, c.Items)
	return next
}
