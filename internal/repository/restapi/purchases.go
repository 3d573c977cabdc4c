package restapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jafarshop/compras/internal/domain"
)

type purchaseJSON struct {
	ID            int64  `json:"id,omitempty"`
	Code          string `json:"code,omitempty"`
	Date          date   `json:"date"`
	InvoiceNumber string `json:"invoiceNumber"`
	SupplierID    int64  `json:"supplierId,omitempty"`
	Subtotal      amount `json:"subtotal"`
	Tax           amount `json:"tax"`
	Total         amount `json:"total"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Status        string `json:"status"`
}

func purchaseToJSON(p *domain.Purchase) purchaseJSON {
	return purchaseJSON{
		ID:            p.ID,
		Code:          p.Code,
		Date:          date(p.Date),
		InvoiceNumber: p.InvoiceNumber,
		SupplierID:    p.SupplierID,
		Subtotal:      amount(p.Subtotal),
		Tax:           amount(p.Tax),
		Total:         amount(p.Total),
		PaymentMethod: p.PaymentMethod,
		Status:        string(p.Status),
	}
}

func (p purchaseJSON) toDomain() *domain.Purchase {
	return &domain.Purchase{
		ID:            p.ID,
		Code:          p.Code,
		Date:          time.Time(p.Date),
		InvoiceNumber: p.InvoiceNumber,
		SupplierID:    p.SupplierID,
		Subtotal:      p.Subtotal.dec(),
		Tax:           p.Tax.dec(),
		Total:         p.Total.dec(),
		PaymentMethod: p.PaymentMethod,
		Status:        domain.PurchaseStatus(p.Status),
	}
}

type totalsJSON struct {
	Subtotal amount `json:"subtotal"`
	Tax      amount `json:"tax"`
	Total    amount `json:"total"`
}

type purchaseRepository struct {
	client *Client
}

func (r *purchaseRepository) List(ctx context.Context) ([]*domain.Purchase, error) {
	var out []purchaseJSON
	if err := r.client.do(ctx, http.MethodGet, "/purchases", resource{name: "purchases"}, nil, &out); err != nil {
		return nil, err
	}
	purchases := make([]*domain.Purchase, len(out))
	for i, p := range out {
		purchases[i] = p.toDomain()
	}
	return purchases, nil
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	var out purchaseJSON
	body := purchaseToJSON(purchase)
	body.ID = 0
	if err := r.client.do(ctx, http.MethodPost, "/purchases", resource{name: "purchase"}, body, &out); err != nil {
		return err
	}
	if out.ID != 0 {
		purchase.ID = out.ID
		purchase.Code = out.Code
		if purchase.Date.IsZero() {
			purchase.Date = time.Time(out.Date)
		}
	}
	return nil
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *domain.Purchase) error {
	res := resource{name: "purchase", id: strconv.FormatInt(purchase.ID, 10)}
	return r.client.do(ctx, http.MethodPut, fmt.Sprintf("/purchases/%d", purchase.ID), res, purchaseToJSON(purchase), nil)
}

func (r *purchaseRepository) UpdateTotals(ctx context.Context, id int64, totals domain.PurchaseTotals) error {
	body := totalsJSON{
		Subtotal: amount(totals.Subtotal),
		Tax:      amount(totals.Tax),
		Total:    amount(totals.Total),
	}
	res := resource{name: "purchase", id: strconv.FormatInt(id, 10)}
	return r.client.do(ctx, http.MethodPatch, fmt.Sprintf("/purchases/%d", id), res, body, nil)
}

// lineItemJSON is the read shape; the backend nests the product
type lineItemJSON struct {
	ID         int64        `json:"id"`
	Quantity   int          `json:"quantity"`
	UnitPrice  amount       `json:"unitPrice"`
	Subtotal   amount       `json:"subtotal"`
	Tax        amount       `json:"tax"`
	Total      amount       `json:"total"`
	Product    *productJSON `json:"product"`
	ProductID  int64        `json:"productId"`
	PurchaseID int64        `json:"purchaseId"`
}

func (l lineItemJSON) toDomain() *domain.LineItem {
	item := &domain.LineItem{
		ID:         l.ID,
		Quantity:   l.Quantity,
		UnitPrice:  l.UnitPrice.dec(),
		Subtotal:   l.Subtotal.dec(),
		Tax:        l.Tax.dec(),
		Total:      l.Total.dec(),
		PurchaseID: l.PurchaseID,
	}
	if l.Product != nil {
		item.Product = *l.Product.toDomain()
	} else {
		item.Product.ID = l.ProductID
	}
	return item
}

// lineItemWriteJSON is the write shape; the product is referenced by id
type lineItemWriteJSON struct {
	ID         int64  `json:"id,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  amount `json:"unitPrice"`
	Subtotal   amount `json:"subtotal"`
	Tax        amount `json:"tax"`
	Total      amount `json:"total"`
	ProductID  int64  `json:"productId"`
	PurchaseID int64  `json:"purchaseId"`
}

func lineItemToJSON(item *domain.LineItem) lineItemWriteJSON {
	return lineItemWriteJSON{
		ID:         item.ID,
		Quantity:   item.Quantity,
		UnitPrice:  amount(item.UnitPrice),
		Subtotal:   amount(item.Subtotal),
		Tax:        amount(item.Tax),
		Total:      amount(item.Total),
		ProductID:  item.Product.ID,
		PurchaseID: item.PurchaseID,
	}
}

type lineItemRepository struct {
	client *Client
}

func (r *lineItemRepository) ListByPurchaseID(ctx context.Context, purchaseID int64) ([]*domain.LineItem, error) {
	var out []lineItemJSON
	res := resource{name: "purchase", id: strconv.FormatInt(purchaseID, 10)}
	if err := r.client.do(ctx, http.MethodGet, fmt.Sprintf("/purchases/%d/lineItems", purchaseID), res, nil, &out); err != nil {
		return nil, err
	}
	items := make([]*domain.LineItem, len(out))
	for i, l := range out {
		items[i] = l.toDomain()
		if items[i].PurchaseID == 0 {
			items[i].PurchaseID = purchaseID
		}
	}
	return items, nil
}

func (r *lineItemRepository) Create(ctx context.Context, item *domain.LineItem) error {
	var out lineItemJSON
	body := lineItemToJSON(item)
	body.ID = 0
	if err := r.client.do(ctx, http.MethodPost, "/lineItems", resource{name: "line item"}, body, &out); err != nil {
		return err
	}
	if out.ID != 0 {
		item.ID = out.ID
	}
	return nil
}

func (r *lineItemRepository) ReplaceForPurchase(ctx context.Context, purchaseID int64, items []*domain.LineItem) error {
	body := make([]lineItemWriteJSON, len(items))
	for i, item := range items {
		body[i] = lineItemToJSON(item)
		body[i].PurchaseID = purchaseID
	}
	res := resource{name: "purchase", id: strconv.FormatInt(purchaseID, 10)}
	return r.client.do(ctx, http.MethodPut, fmt.Sprintf("/purchases/%d/lineItems", purchaseID), res, body, nil)
}
