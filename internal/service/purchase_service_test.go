package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/pkg/errors"
)

func TestPurchaseService_CreateDerivesTotals(t *testing.T) {
	backend := newFakeBackend()
	svc := NewPurchaseService(backend.repositories(), zap.NewNop())

	purchase, err := svc.Create(context.Background(), PurchaseForm{
		InvoiceNumber: "001-001-0000123",
		Subtotal:      decimal.RequireFromString("100"),
		SupplierID:    3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseStatusPending, purchase.Status)
	assert.Equal(t, "100.00", purchase.Subtotal.StringFixed(2))
	assert.Equal(t, "12.00", purchase.Tax.StringFixed(2))
	assert.Equal(t, "112.00", purchase.Total.StringFixed(2))
	assert.Equal(t, int64(1), purchase.ID)
}

func TestPurchaseService_CreateValidation(t *testing.T) {
	svc := NewPurchaseService(newFakeBackend().repositories(), zap.NewNop())
	ctx := context.Background()
	var validation *errors.ErrValidation

	_, err := svc.Create(ctx, PurchaseForm{InvoiceNumber: "1", Status: "PAID"})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "status", validation.Field)

	_, err = svc.Create(ctx, PurchaseForm{InvoiceNumber: "1", Subtotal: decimal.NewFromInt(-5)})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "subtotal", validation.Field)
}

func TestPurchaseService_UpdateTransitions(t *testing.T) {
	tests := []struct {
		from    domain.PurchaseStatus
		to      string
		allowed bool
	}{
		{domain.PurchaseStatusPending, "COMPLETED", true},
		{domain.PurchaseStatusPending, "voided", true},
		{domain.PurchaseStatusPending, "", true},
		{domain.PurchaseStatusCompleted, "VOIDED", true},
		{domain.PurchaseStatusCompleted, "PENDING", false},
		{domain.PurchaseStatusVoided, "PENDING", false},
		{domain.PurchaseStatusVoided, "COMPLETED", false},
		{domain.PurchaseStatusVoided, "VOIDED", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+tt.to, func(t *testing.T) {
			backend := newFakeBackend()
			backend.purchases.items = []*domain.Purchase{{ID: 4, Code: "C-4", Status: tt.from}}
			svc := NewPurchaseService(backend.repositories(), zap.NewNop())

			updated, err := svc.Update(context.Background(), 4, PurchaseForm{
				InvoiceNumber: "001",
				Subtotal:      decimal.RequireFromString("10"),
				Status:        tt.to,
			})
			if !tt.allowed {
				var transition *errors.ErrInvalidStateTransition
				assert.ErrorAs(t, err, &transition)
				assert.Empty(t, backend.purchases.updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "C-4", updated.Code)
			assert.Equal(t, "11.20", updated.Total.StringFixed(2))
			assert.Len(t, backend.purchases.updated, 1)
		})
	}
}

func TestPurchaseService_UpdateUnknown(t *testing.T) {
	svc := NewPurchaseService(newFakeBackend().repositories(), zap.NewNop())
	_, err := svc.Update(context.Background(), 9, PurchaseForm{InvoiceNumber: "1"})
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestPurchaseService_ReplaceLineItemsKeepsOverrides(t *testing.T) {
	backend := newFakeBackend()
	backend.purchases.items = []*domain.Purchase{{ID: 4, Status: domain.PurchaseStatusPending}}
	backend.products.items = []*domain.Product{
		{ID: 1, Name: "Tornillo", UnitPrice: decimal.RequireFromString("10.00")},
		{ID: 2, Name: "Taladro", UnitPrice: decimal.RequireFromString("50.00")},
	}
	svc := NewPurchaseService(backend.repositories(), zap.NewNop())

	items, totals, err := svc.ReplaceLineItems(context.Background(), 4, []LineItemInput{
		{
			ProductID: 1, Quantity: 2,
			UnitPrice: decimal.RequireFromString("10.00"),
			Subtotal:  decimal.RequireFromString("20.00"),
			Tax:       decimal.RequireFromString("2.40"),
			Total:     decimal.RequireFromString("22.40"),
		},
		{
			// manually corrected total
			ProductID: 2, Quantity: 1,
			UnitPrice: decimal.RequireFromString("50.00"),
			Subtotal:  decimal.RequireFromString("50.00"),
			Tax:       decimal.RequireFromString("6.00"),
			Total:     decimal.RequireFromString("55.00"),
		},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Taladro", items[1].Product.Name)
	assert.Equal(t, "55.00", items[1].Total.StringFixed(2))
	assert.Equal(t, "77.40", totals.Total.StringFixed(2))

	assert.Len(t, backend.lineItems.replaced, 2)
	require.Len(t, backend.purchases.patches, 1)
	assert.Equal(t, "70.00", backend.purchases.patches[0].totals.Subtotal.StringFixed(2))
	assert.Equal(t, "77.40", backend.purchases.patches[0].totals.Total.StringFixed(2))
}

func TestPurchaseService_ReplaceLineItemsValidation(t *testing.T) {
	backend := newFakeBackend()
	backend.purchases.items = []*domain.Purchase{{ID: 4}}
	backend.products.items = []*domain.Product{{ID: 1}}
	svc := NewPurchaseService(backend.repositories(), zap.NewNop())
	ctx := context.Background()

	_, _, err := svc.ReplaceLineItems(ctx, 4, []LineItemInput{
		{ProductID: 1, Quantity: 1},
		{ProductID: 1, Quantity: 0},
	})
	var validation *errors.ErrValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "items[1].quantity", validation.Field)

	_, _, err = svc.ReplaceLineItems(ctx, 4, []LineItemInput{{ProductID: 9, Quantity: 1}})
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)

	_, _, err = svc.ReplaceLineItems(ctx, 5, nil)
	assert.ErrorAs(t, err, &notFound)

	assert.Nil(t, backend.lineItems.replaced)
	assert.Empty(t, backend.purchases.patches)
}
