package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/domain"
)

const purchaseColumns = `id, code, date, invoice_number, supplier_id, subtotal, tax, total, payment_method, status`

type purchaseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *sql.DB, logger *zap.Logger) *purchaseRepository {
	return &purchaseRepository{
		db:     db,
		logger: logger,
	}
}

func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	var p domain.Purchase
	var supplierID sql.NullInt64
	var status string

	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Date,
		&p.InvoiceNumber,
		&supplierID,
		&p.Subtotal,
		&p.Tax,
		&p.Total,
		&p.PaymentMethod,
		&status,
	)
	if err != nil {
		return nil, err
	}
	p.SupplierID = supplierID.Int64
	p.Status = domain.PurchaseStatus(status)
	return &p, nil
}

func (r *purchaseRepository) List(ctx context.Context) ([]*domain.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+purchaseColumns+` FROM purchases ORDER BY date DESC, id DESC`)
	if err != nil {
		r.logger.Error("Failed to query purchases", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		INSERT INTO purchases (code, date, invoice_number, supplier_id, subtotal, tax, total, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	if purchase.Code == "" {
		purchase.Code = newPurchaseCode()
	}
	if purchase.Date.IsZero() {
		purchase.Date = time.Now()
	}

	err := r.db.QueryRowContext(ctx, query,
		purchase.Code,
		purchase.Date,
		purchase.InvoiceNumber,
		nullID(purchase.SupplierID),
		purchase.Subtotal,
		purchase.Tax,
		purchase.Total,
		purchase.PaymentMethod,
		string(purchase.Status),
	).Scan(&purchase.ID)
	if err != nil {
		r.logger.Error("Failed to create purchase", zap.Error(err))
		return writeError("create purchase", err)
	}
	return nil
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		UPDATE purchases
		SET invoice_number = $2, supplier_id = $3, subtotal = $4, tax = $5, total = $6,
		    payment_method = $7, status = $8
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		purchase.ID,
		purchase.InvoiceNumber,
		nullID(purchase.SupplierID),
		purchase.Subtotal,
		purchase.Tax,
		purchase.Total,
		purchase.PaymentMethod,
		string(purchase.Status),
	)
	if err != nil {
		r.logger.Error("Failed to update purchase", zap.Error(err))
		return writeError("update purchase", err)
	}
	return checkAffected(res, "purchase", purchase.ID)
}

func (r *purchaseRepository) UpdateTotals(ctx context.Context, id int64, totals domain.PurchaseTotals) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE purchases SET subtotal = $2, tax = $3, total = $4 WHERE id = $1`,
		id, totals.Subtotal, totals.Tax, totals.Total,
	)
	if err != nil {
		r.logger.Error("Failed to update purchase totals", zap.Error(err))
		return writeError("update purchase totals", err)
	}
	return checkAffected(res, "purchase", id)
}

func newPurchaseCode() string {
	return fmt.Sprintf("C-%s", strings.ToUpper(uuid.New().String()[:8]))
}

type lineItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *sql.DB, logger *zap.Logger) *lineItemRepository {
	return &lineItemRepository{
		db:     db,
		logger: logger,
	}
}

func (r *lineItemRepository) ListByPurchaseID(ctx context.Context, purchaseID int64) ([]*domain.LineItem, error) {
	query := `
		SELECT li.id, li.purchase_id, li.quantity, li.unit_price, li.subtotal, li.tax, li.total,
		       p.id, p.code, p.name, p.description, p.unit_price, p.sale_price, p.stock, p.tax_rate,
		       p.category_id, p.supplier_id
		FROM purchase_line_items li
		JOIN products p ON p.id = li.product_id
		WHERE li.purchase_id = $1
		ORDER BY li.id
	`

	rows, err := r.db.QueryContext(ctx, query, purchaseID)
	if err != nil {
		r.logger.Error("Failed to query line items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		var categoryID, supplierID sql.NullInt64
		err := rows.Scan(
			&item.ID,
			&item.PurchaseID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.Tax,
			&item.Total,
			&item.Product.ID,
			&item.Product.Code,
			&item.Product.Name,
			&item.Product.Description,
			&item.Product.UnitPrice,
			&item.Product.SalePrice,
			&item.Product.Stock,
			&item.Product.TaxRate,
			&categoryID,
			&supplierID,
		)
		if err != nil {
			return nil, err
		}
		item.Product.CategoryID = categoryID.Int64
		item.Product.SupplierID = supplierID.Int64
		items = append(items, &item)
	}
	return items, rows.Err()
}

const insertLineItem = `
	INSERT INTO purchase_line_items (purchase_id, product_id, quantity, unit_price, subtotal, tax, total)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
`

func (r *lineItemRepository) Create(ctx context.Context, item *domain.LineItem) error {
	err := r.db.QueryRowContext(ctx, insertLineItem,
		item.PurchaseID,
		item.Product.ID,
		item.Quantity,
		item.UnitPrice,
		item.Subtotal,
		item.Tax,
		item.Total,
	).Scan(&item.ID)
	if err != nil {
		r.logger.Error("Failed to create line item", zap.Error(err))
		return writeError("create line item", err)
	}
	return nil
}

// ReplaceForPurchase swaps every line item of a purchase inside one transaction
func (r *lineItemRepository) ReplaceForPurchase(ctx context.Context, purchaseID int64, items []*domain.LineItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return writeError("replace line items", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_line_items WHERE purchase_id = $1`, purchaseID); err != nil {
		r.logger.Error("Failed to delete line items", zap.Error(err))
		return writeError("replace line items", err)
	}

	for _, item := range items {
		item.PurchaseID = purchaseID
		err := tx.QueryRowContext(ctx, insertLineItem,
			purchaseID,
			item.Product.ID,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
			item.Tax,
			item.Total,
		).Scan(&item.ID)
		if err != nil {
			r.logger.Error("Failed to insert line item", zap.Error(err))
			return writeError("replace line items", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return writeError("replace line items", err)
	}
	return nil
}
