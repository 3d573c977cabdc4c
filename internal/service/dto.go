package service

import "github.com/shopspring/decimal"

// AddItemRequest adds a product to a cart
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	Quantity  int   `json:"quantity"`
}

// SelectPurchaseRequest sets the purchase a cart is saved against
type SelectPurchaseRequest struct {
	PurchaseID int64 `json:"purchase_id" binding:"required,min=1"`
}

// PurchaseForm is the create/edit form of a purchase.
// Tax and total are always derived from the subtotal.
type PurchaseForm struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Status        string          `json:"status"`
	SupplierID    int64           `json:"supplier_id"`
	PaymentMethod string          `json:"payment_method"`
}

// LineItemInput is one row of the purchase details edit table.
// Amounts are stored as given so manual corrections survive.
type LineItemInput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id" binding:"required,min=1"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// ReplaceLineItemsRequest is the body of a bulk line item replace
type ReplaceLineItemsRequest struct {
	Items []LineItemInput `json:"items" binding:"dive"`
}

// ProductInput is the create/edit form of a product
type ProductInput struct {
	Code        string           `json:"code" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	SalePrice   decimal.Decimal  `json:"sale_price"`
	Stock       int              `json:"stock"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
	CategoryID  int64            `json:"category_id"`
	SupplierID  int64            `json:"supplier_id"`
}

// SupplierInput is the create/edit form of a supplier
type SupplierInput struct {
	IdentificationType string `json:"identification_type" binding:"required"`
	Identification     string `json:"identification" binding:"required"`
	Name               string `json:"name" binding:"required"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
}
