package restapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jafarshop/compras/internal/domain"
)

type supplierJSON struct {
	ID                 int64  `json:"id,omitempty"`
	IdentificationType string `json:"identificationType"`
	Identification     string `json:"identification"`
	Name               string `json:"name"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
}

func supplierToJSON(s *domain.Supplier) supplierJSON {
	return supplierJSON{
		ID:                 s.ID,
		IdentificationType: string(s.IdentificationType),
		Identification:     s.Identification,
		Name:               s.Name,
		Address:            s.Address,
		Phone:              s.Phone,
		Email:              s.Email,
	}
}

func (s supplierJSON) toDomain() *domain.Supplier {
	return &domain.Supplier{
		ID:                 s.ID,
		IdentificationType: domain.IdentificationType(s.IdentificationType),
		Identification:     s.Identification,
		Name:               s.Name,
		Address:            s.Address,
		Phone:              s.Phone,
		Email:              s.Email,
	}
}

type supplierRepository struct {
	client *Client
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	var out []supplierJSON
	if err := r.client.do(ctx, http.MethodGet, "/suppliers", resource{name: "suppliers"}, nil, &out); err != nil {
		return nil, err
	}
	suppliers := make([]*domain.Supplier, len(out))
	for i, s := range out {
		suppliers[i] = s.toDomain()
	}
	return suppliers, nil
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	var out supplierJSON
	body := supplierToJSON(supplier)
	body.ID = 0
	if err := r.client.do(ctx, http.MethodPost, "/suppliers", resource{name: "supplier"}, body, &out); err != nil {
		return err
	}
	if out.ID != 0 {
		supplier.ID = out.ID
	}
	return nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	res := resource{name: "supplier", id: strconv.FormatInt(supplier.ID, 10)}
	return r.client.do(ctx, http.MethodPut, fmt.Sprintf("/suppliers/%d", supplier.ID), res, supplierToJSON(supplier), nil)
}

func (r *supplierRepository) Delete(ctx context.Context, id int64) error {
	res := resource{name: "supplier", id: strconv.FormatInt(id, 10)}
	return r.client.do(ctx, http.MethodDelete, fmt.Sprintf("/suppliers/%d", id), res, nil, nil)
}
