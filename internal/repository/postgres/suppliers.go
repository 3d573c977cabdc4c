package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/domain"
)

const supplierColumns = `id, identification_type, identification, name, address, phone, email`

type supplierRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *sql.DB, logger *zap.Logger) *supplierRepository {
	return &supplierRepository{
		db:     db,
		logger: logger,
	}
}

func scanSupplier(row rowScanner) (*domain.Supplier, error) {
	var s domain.Supplier
	var idType string
	if err := row.Scan(&s.ID, &idType, &s.Identification, &s.Name, &s.Address, &s.Phone, &s.Email); err != nil {
		return nil, err
	}
	s.IdentificationType = domain.IdentificationType(idType)
	return &s, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to query suppliers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var suppliers []*domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (identification_type, identification, name, address, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		string(supplier.IdentificationType),
		supplier.Identification,
		supplier.Name,
		supplier.Address,
		supplier.Phone,
		supplier.Email,
	).Scan(&supplier.ID)
	if err != nil {
		r.logger.Error("Failed to create supplier", zap.Error(err))
		return writeError("create supplier", err)
	}
	return nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET identification_type = $2, identification = $3, name = $4, address = $5, phone = $6, email = $7
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		supplier.ID,
		string(supplier.IdentificationType),
		supplier.Identification,
		supplier.Name,
		supplier.Address,
		supplier.Phone,
		supplier.Email,
	)
	if err != nil {
		r.logger.Error("Failed to update supplier", zap.Error(err))
		return writeError("update supplier", err)
	}
	return checkAffected(res, "supplier", supplier.ID)
}

func (r *supplierRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete supplier", zap.Error(err))
		return writeError("delete supplier", err)
	}
	return checkAffected(res, "supplier", id)
}
