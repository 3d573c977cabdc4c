package restapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jafarshop/compras/internal/domain"
)

type productJSON struct {
	ID          int64  `json:"id,omitempty"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   amount `json:"unitPrice"`
	SalePrice   amount `json:"salePrice"`
	Stock       int    `json:"stock"`
	TaxRate     amount `json:"taxRate"`
	CategoryID  int64  `json:"categoryId,omitempty"`
	SupplierID  int64  `json:"supplierId,omitempty"`
}

func productToJSON(p *domain.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   amount(p.UnitPrice),
		SalePrice:   amount(p.SalePrice),
		Stock:       p.Stock,
		TaxRate:     amount(p.TaxRate),
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
	}
}

func (p productJSON) toDomain() *domain.Product {
	return &domain.Product{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice.dec(),
		SalePrice:   p.SalePrice.dec(),
		Stock:       p.Stock,
		TaxRate:     p.TaxRate.dec(),
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
	}
}

type productRepository struct {
	client *Client
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var out []productJSON
	if err := r.client.do(ctx, http.MethodGet, "/products", resource{name: "products"}, nil, &out); err != nil {
		return nil, err
	}
	products := make([]*domain.Product, len(out))
	for i, p := range out {
		products[i] = p.toDomain()
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	var out productJSON
	body := productToJSON(product)
	body.ID = 0
	if err := r.client.do(ctx, http.MethodPost, "/products", resource{name: "product"}, body, &out); err != nil {
		return err
	}
	if out.ID != 0 {
		product.ID = out.ID
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	res := resource{name: "product", id: strconv.FormatInt(product.ID, 10)}
	return r.client.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), res, productToJSON(product), nil)
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	res := resource{name: "product", id: strconv.FormatInt(id, 10)}
	return r.client.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), res, nil, nil)
}

type categoryJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryRepository struct {
	client *Client
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var out []categoryJSON
	if err := r.client.do(ctx, http.MethodGet, "/categories", resource{name: "categories"}, nil, &out); err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, len(out))
	for i, c := range out {
		categories[i] = &domain.Category{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	return categories, nil
}
