package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/repository"
	"github.com/jafarshop/compras/pkg/errors"
)

var maxTaxRate = decimal.NewFromInt(100)

// CatalogService manages products, categories and suppliers
type CatalogService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repos *repository.Repositories, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repos:  repos,
		logger: logger,
	}
}

// Catalog is everything the purchase screens need to render selectors
type Catalog struct {
	Products   []*domain.Product
	Categories []*domain.Category
	Suppliers  []*domain.Supplier
}

// LoadCatalog fetches products, categories and suppliers concurrently
func (s *CatalogService) LoadCatalog(ctx context.Context) (*Catalog, error) {
	var catalog Catalog
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := s.repos.Product.List(ctx)
		catalog.Products = products
		return err
	})
	g.Go(func() error {
		categories, err := s.repos.Category.List(ctx)
		catalog.Categories = categories
		return err
	})
	g.Go(func() error {
		suppliers, err := s.repos.Supplier.List(ctx)
		catalog.Suppliers = suppliers
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		return nil, err
	}
	return &catalog, nil
}

// SearchProducts lists products whose code or name contains query,
// ignoring case. An empty query returns every product.
func (s *CatalogService) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	products, err := s.repos.Product.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products, nil
	}

	matches := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if contains(p.Code, query) || contains(p.Name, query) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// CreateProduct validates and stores a new product
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Product.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("code", product.Code))
	return product, nil
}

// UpdateProduct validates and replaces an existing product
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if err := s.repos.Product.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.repos.Product.Delete(ctx, id)
}

// ListCategories returns every product category
func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repos.Category.List(ctx)
}

// SearchSuppliers lists suppliers whose name, identification or email
// contains query, ignoring case
func (s *CatalogService) SearchSuppliers(ctx context.Context, query string) ([]*domain.Supplier, error) {
	suppliers, err := s.repos.Supplier.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return suppliers, nil
	}

	matches := make([]*domain.Supplier, 0, len(suppliers))
	for _, sp := range suppliers {
		if contains(sp.Name, query) || contains(sp.Identification, query) || contains(sp.Email, query) {
			matches = append(matches, sp)
		}
	}
	return matches, nil
}

// CreateSupplier validates and stores a new supplier
func (s *CatalogService) CreateSupplier(ctx context.Context, input SupplierInput) (*domain.Supplier, error) {
	supplier, err := supplierFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Supplier.Create(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.Info("Supplier created", zap.Int64("supplier_id", supplier.ID))
	return supplier, nil
}

// UpdateSupplier validates and replaces an existing supplier
func (s *CatalogService) UpdateSupplier(ctx context.Context, id int64, input SupplierInput) (*domain.Supplier, error) {
	supplier, err := supplierFromInput(input)
	if err != nil {
		return nil, err
	}
	supplier.ID = id
	if err := s.repos.Supplier.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier removes a supplier
func (s *CatalogService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.repos.Supplier.Delete(ctx, id)
}

func productFromInput(input ProductInput) (*domain.Product, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)

	switch {
	case code == "":
		return nil, &errors.ErrValidation{Field: "code", Message: "is required"}
	case name == "":
		return nil, &errors.ErrValidation{Field: "name", Message: "is required"}
	case input.UnitPrice.IsNegative():
		return nil, &errors.ErrValidation{Field: "unit_price", Message: "must not be negative"}
	case input.SalePrice.IsNegative():
		return nil, &errors.ErrValidation{Field: "sale_price", Message: "must not be negative"}
	case input.Stock < 0:
		return nil, &errors.ErrValidation{Field: "stock", Message: "must not be negative"}
	}

	// products without an explicit rate carry the standard 12%
	taxRate := domain.TaxRate.Mul(maxTaxRate)
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(maxTaxRate) {
		return nil, &errors.ErrValidation{Field: "tax_rate", Message: "must be between 0 and 100"}
	}

	return &domain.Product{
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		UnitPrice:   domain.Round2(input.UnitPrice),
		SalePrice:   domain.Round2(input.SalePrice),
		Stock:       input.Stock,
		TaxRate:     taxRate,
		CategoryID:  input.CategoryID,
		SupplierID:  input.SupplierID,
	}, nil
}

func supplierFromInput(input SupplierInput) (*domain.Supplier, error) {
	idType := domain.IdentificationType(strings.ToUpper(strings.TrimSpace(input.IdentificationType)))
	if !idType.IsValid() {
		return nil, &errors.ErrValidation{Field: "identification_type", Message: "must be RUC or CED"}
	}

	identification := strings.TrimSpace(input.Identification)
	if identification == "" {
		return nil, &errors.ErrValidation{Field: "identification", Message: "is required"}
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &errors.ErrValidation{Field: "name", Message: "is required"}
	}

	return &domain.Supplier{
		IdentificationType: idType,
		Identification:     identification,
		Name:               name,
		Address:            strings.TrimSpace(input.Address),
		Phone:              strings.TrimSpace(input.Phone),
		Email:              strings.TrimSpace(input.Email),
	}, nil
}

func contains(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
