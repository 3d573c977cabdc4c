package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineAmounts(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		subtotal  string
		tax       string
		total     string
	}{
		{"two at ten", 2, "10.00", "20.00", "2.40", "22.40"},
		{"five at ten", 5, "10.00", "50.00", "6.00", "56.00"},
		{"rounds tax half away from zero", 1, "0.125", "0.13", "0.02", "0.15"},
		{"odd cents", 3, "3.33", "9.99", "1.20", "11.19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineAmounts(tt.quantity, decimal.RequireFromString(tt.unitPrice))
			assert.Equal(t, tt.subtotal, got.Subtotal.StringFixed(2))
			assert.Equal(t, tt.tax, got.Tax.StringFixed(2))
			assert.Equal(t, tt.total, got.Total.StringFixed(2))
		})
	}
}

func TestLineAmountsMatchesGrossRounding(t *testing.T) {
	gross := decimal.RequireFromString("1.12")
	price := decimal.RequireFromString("7.35")
	for q := 1; q <= 50; q++ {
		got := LineAmounts(q, price)
		want := Round2(price.Mul(decimal.NewFromInt(int64(q))).Mul(gross))
		assert.True(t, want.Equal(got.Total), "quantity %d: want %s got %s", q, want, got.Total)
	}
}

func TestPurchaseStatusTransitions(t *testing.T) {
	assert.True(t, PurchaseStatusPending.CanTransitionTo(PurchaseStatusCompleted))
	assert.True(t, PurchaseStatusPending.CanTransitionTo(PurchaseStatusVoided))
	assert.True(t, PurchaseStatusCompleted.CanTransitionTo(PurchaseStatusVoided))
	assert.True(t, PurchaseStatusCompleted.CanTransitionTo(PurchaseStatusCompleted))
	assert.False(t, PurchaseStatusCompleted.CanTransitionTo(PurchaseStatusPending))
	assert.False(t, PurchaseStatusVoided.CanTransitionTo(PurchaseStatusPending))
	assert.False(t, PurchaseStatus("DRAFT").CanTransitionTo(PurchaseStatus("DRAFT")))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$78.40", FormatMoney(decimal.RequireFromString("78.4")))
}
