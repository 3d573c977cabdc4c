package repository

import (
	"context"

	"github.com/jafarshop/compras/internal/domain"
)

// ProductRepository is the product catalog
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository lists product categories
type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
}

// SupplierRepository stores suppliers
type SupplierRepository interface {
	List(ctx context.Context) ([]*domain.Supplier, error)
	Create(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	Delete(ctx context.Context, id int64) error
}

// PurchaseRepository stores purchases
type PurchaseRepository interface {
	List(ctx context.Context) ([]*domain.Purchase, error)
	Create(ctx context.Context, purchase *domain.Purchase) error
	Update(ctx context.Context, purchase *domain.Purchase) error
	UpdateTotals(ctx context.Context, id int64, totals domain.PurchaseTotals) error
}

// LineItemRepository stores purchase line items
type LineItemRepository interface {
	ListByPurchaseID(ctx context.Context, purchaseID int64) ([]*domain.LineItem, error)
	Create(ctx context.Context, item *domain.LineItem) error
	ReplaceForPurchase(ctx context.Context, purchaseID int64, items []*domain.LineItem) error
}

// SaleRepository lists recorded sales
type SaleRepository interface {
	List(ctx context.Context) ([]*domain.Sale, error)
}

// Repositories groups every repository the services depend on
type Repositories struct {
	Product  ProductRepository
	Category CategoryRepository
	Supplier SupplierRepository
	Purchase PurchaseRepository
	LineItem LineItemRepository
	Sale     SaleRepository
}
