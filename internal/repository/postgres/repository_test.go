package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/config"
	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/repository"
	"github.com/jafarshop/compras/pkg/errors"
)

// setupTestDB connects to TEST_DATABASE_URL, migrates and truncates it
func setupTestDB(t *testing.T) *repository.Repositories {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", url)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db, "../../../migrations"))
	_, err = db.Exec(`TRUNCATE sales, purchase_line_items, purchases, products, suppliers, categories RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return NewRepositories(db, zap.NewNop())
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "compras", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=compras sslmode=disable", dsn)
}

func TestPurchaseLifecycle(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	supplier := &domain.Supplier{
		IdentificationType: domain.IdentificationRUC,
		Identification:     "1790012345001",
		Name:               "Ferretería Central",
	}
	require.NoError(t, repos.Supplier.Create(ctx, supplier))

	product := &domain.Product{
		Code:       "P-1",
		Name:       "Tornillo",
		UnitPrice:  decimal.RequireFromString("10.00"),
		TaxRate:    decimal.RequireFromString("12.00"),
		Stock:      3,
		SupplierID: supplier.ID,
	}
	require.NoError(t, repos.Product.Create(ctx, product))

	purchase := &domain.Purchase{
		InvoiceNumber: "001-001-0000001",
		SupplierID:    supplier.ID,
		Status:        domain.PurchaseStatusPending,
	}
	require.NoError(t, repos.Purchase.Create(ctx, purchase))
	assert.NotEmpty(t, purchase.Code)

	amounts := domain.LineAmounts(2, product.UnitPrice)
	item := &domain.LineItem{
		Quantity:   2,
		UnitPrice:  product.UnitPrice,
		Subtotal:   amounts.Subtotal,
		Tax:        amounts.Tax,
		Total:      amounts.Total,
		Product:    *product,
		PurchaseID: purchase.ID,
	}
	require.NoError(t, repos.LineItem.Create(ctx, item))
	require.NoError(t, repos.Purchase.UpdateTotals(ctx, purchase.ID, amounts))

	items, err := repos.LineItem.ListByPurchaseID(ctx, purchase.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tornillo", items[0].Product.Name)
	assert.Equal(t, "22.40", items[0].Total.StringFixed(2))

	purchases, err := repos.Purchase.List(ctx)
	require.NoError(t, err)
	var got *domain.Purchase
	for _, p := range purchases {
		if p.ID == purchase.ID {
			got = p
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "22.40", got.Total.StringFixed(2))

	item.Quantity = 1
	item.Subtotal = decimal.RequireFromString("10.00")
	require.NoError(t, repos.LineItem.ReplaceForPurchase(ctx, purchase.ID, []*domain.LineItem{item}))
	items, err = repos.LineItem.ListByPurchaseID(ctx, purchase.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	err = repos.Purchase.Update(ctx, &domain.Purchase{ID: 9999, Status: domain.PurchaseStatusPending})
	var notFound *errors.ErrNotFound
	assert.ErrorAs(t, err, &notFound)

	err = repos.Product.Delete(ctx, 9999)
	assert.ErrorAs(t, err, &notFound)
}
