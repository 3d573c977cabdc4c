package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jafarshop/compras/internal/cart"
	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/notify"
	"github.com/jafarshop/compras/internal/service"
)

const dateLayout = "2006-01-02"

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// TotalsResponse are the aggregate amounts of a cart or purchase
type TotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

func totalsResponse(t domain.PurchaseTotals) TotalsResponse {
	return TotalsResponse{
		Subtotal: money(t.Subtotal),
		Tax:      money(t.Tax),
		Total:    money(t.Total),
	}
}

// PurchaseResponse represents a purchase header
type PurchaseResponse struct {
	ID            int64                 `json:"id"`
	Code          string                `json:"code"`
	Date          string                `json:"date"`
	InvoiceNumber string                `json:"invoice_number"`
	SupplierID    int64                 `json:"supplier_id,omitempty"`
	Subtotal      string                `json:"subtotal"`
	Tax           string                `json:"tax"`
	Total         string                `json:"total"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	Status        domain.PurchaseStatus `json:"status"`
}

func purchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            p.ID,
		Code:          p.Code,
		Date:          formatDate(p.Date),
		InvoiceNumber: p.InvoiceNumber,
		SupplierID:    p.SupplierID,
		Subtotal:      money(p.Subtotal),
		Tax:           money(p.Tax),
		Total:         money(p.Total),
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
	}
}

// LineItemResponse represents a line item, pending or stored
type LineItemResponse struct {
	ID          int64  `json:"id,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	ProductID   int64  `json:"product_id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
}

func lineItemResponse(item domain.LineItem) LineItemResponse {
	resp := LineItemResponse{
		ID:          item.ID,
		ProductID:   item.Product.ID,
		ProductCode: item.Product.Code,
		ProductName: item.Product.Name,
		Quantity:    item.Quantity,
		UnitPrice:   money(item.UnitPrice),
		Subtotal:    money(item.Subtotal),
		Tax:         money(item.Tax),
		Total:       money(item.Total),
	}
	if item.ClientID != uuid.Nil {
		resp.ClientID = item.ClientID.String()
	}
	return resp
}

// CartResponse is the view of an uncommitted cart
type CartResponse struct {
	ID       string             `json:"id"`
	State    cart.State         `json:"state"`
	Purchase *PurchaseResponse  `json:"purchase"`
	Items    []LineItemResponse `json:"items"`
	Totals   TotalsResponse     `json:"totals"`
}

func cartResponse(c cart.Cart) CartResponse {
	resp := CartResponse{
		ID:     c.ID.String(),
		State:  c.State,
		Items:  make([]LineItemResponse, len(c.Items)),
		Totals: totalsResponse(cart.Totals(c)),
	}
	if c.Purchase != nil {
		p := purchaseResponse(c.Purchase)
		resp.Purchase = &p
	}
	for i, item := range c.Items {
		resp.Items[i] = lineItemResponse(item)
	}
	return resp
}

// NotificationResponse is a user notification drained from a cart feed
type NotificationResponse struct {
	Level     notify.Level `json:"level"`
	Title     string       `json:"title"`
	Message   string       `json:"message"`
	CreatedAt string       `json:"created_at"`
}

// ProductResponse represents a catalog product
type ProductResponse struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitPrice   string `json:"unit_price"`
	SalePrice   string `json:"sale_price"`
	Stock       int    `json:"stock"`
	TaxRate     string `json:"tax_rate"`
	CategoryID  int64  `json:"category_id,omitempty"`
	SupplierID  int64  `json:"supplier_id,omitempty"`
}

func productResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   money(p.UnitPrice),
		SalePrice:   money(p.SalePrice),
		Stock:       p.Stock,
		TaxRate:     money(p.TaxRate),
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
	}
}

// SupplierResponse represents a supplier
type SupplierResponse struct {
	ID                 int64                     `json:"id"`
	IdentificationType domain.IdentificationType `json:"identification_type"`
	Identification     string                    `json:"identification"`
	Name               string                    `json:"name"`
	Address            string                    `json:"address,omitempty"`
	Phone              string                    `json:"phone,omitempty"`
	Email              string                    `json:"email,omitempty"`
}

func supplierResponse(s *domain.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                 s.ID,
		IdentificationType: s.IdentificationType,
		Identification:     s.Identification,
		Name:               s.Name,
		Address:            s.Address,
		Phone:              s.Phone,
		Email:              s.Email,
	}
}

// CategoryResponse represents a product category
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// TransactionResponse is an entry of the recent transactions feed
type TransactionResponse struct {
	Type        domain.TransactionType `json:"type"`
	ID          int64                  `json:"id"`
	Date        string                 `json:"date"`
	Description string                 `json:"description"`
	Total       string                 `json:"total"`
	Status      string                 `json:"status"`
}

// StatsResponse is the dashboard summary
type StatsResponse struct {
	TotalSales      string `json:"total_sales"`
	TotalStock      int    `json:"total_stock"`
	TotalPurchases  string `json:"total_purchases"`
	EstimatedProfit string `json:"estimated_profit"`
}

func statsResponse(s *service.DashboardStats) StatsResponse {
	return StatsResponse{
		TotalSales:      money(s.TotalSales),
		TotalStock:      s.TotalStock,
		TotalPurchases:  money(s.TotalPurchases),
		EstimatedProfit: money(s.EstimatedProfit),
	}
}
