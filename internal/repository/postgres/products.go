package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/pkg/errors"
)

const productColumns = `id, code, name, description, unit_price, sale_price, stock, tax_rate, category_id, supplier_id`

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	var categoryID, supplierID sql.NullInt64

	err := row.Scan(
		&product.ID,
		&product.Code,
		&product.Name,
		&product.Description,
		&product.UnitPrice,
		&product.SalePrice,
		&product.Stock,
		&product.TaxRate,
		&categoryID,
		&supplierID,
	)
	if err != nil {
		return nil, err
	}

	product.CategoryID = categoryID.Int64
	product.SupplierID = supplierID.Int64
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY code`)
	if err != nil {
		r.logger.Error("Failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (code, name, description, unit_price, sale_price, stock, tax_rate, category_id, supplier_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		product.Code,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.SalePrice,
		product.Stock,
		product.TaxRate,
		nullID(product.CategoryID),
		nullID(product.SupplierID),
	).Scan(&product.ID)

	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return writeError("create product", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET code = $2, name = $3, description = $4, unit_price = $5, sale_price = $6,
		    stock = $7, tax_rate = $8, category_id = $9, supplier_id = $10
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Code,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.SalePrice,
		product.Stock,
		product.TaxRate,
		nullID(product.CategoryID),
		nullID(product.SupplierID),
	)
	if err != nil {
		r.logger.Error("Failed to update product", zap.Error(err))
		return writeError("update product", err)
	}
	return checkAffected(res, "product", product.ID)
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete product", zap.Error(err))
		return writeError("delete product", err)
	}
	return checkAffected(res, "product", id)
}

type categoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB, logger *zap.Logger) *categoryRepository {
	return &categoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to query categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func notFound(resource string, id int64) error {
	return &errors.ErrNotFound{Resource: resource, ID: strconv.FormatInt(id, 10)}
}

func writeError(op string, err error) error {
	return &errors.ErrPersistence{Op: op, Index: -1, Err: err}
}
