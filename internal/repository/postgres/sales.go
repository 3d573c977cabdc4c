package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/domain"
)

type saleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *sql.DB, logger *zap.Logger) *saleRepository {
	return &saleRepository{
		db:     db,
		logger: logger,
	}
}

func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, product_name, total, status FROM sales ORDER BY date DESC`)
	if err != nil {
		r.logger.Error("Failed to query sales", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.Date, &s.ProductName, &s.Total, &s.Status); err != nil {
			return nil, err
		}
		sales = append(sales, &s)
	}
	return sales, rows.Err()
}
