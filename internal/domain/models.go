package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog product
type Product struct {
	ID          int64
	Code        string
	Name        string
	Description string
	UnitPrice   decimal.Decimal // purchase price
	SalePrice   decimal.Decimal
	Stock       int
	TaxRate     decimal.Decimal // percentage, e.g. 12.00
	CategoryID  int64
	SupplierID  int64
}

// Category groups products in the catalog
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Supplier represents a vendor purchases are made from
type Supplier struct {
	ID                 int64
	IdentificationType IdentificationType
	Identification     string
	Name               string
	Address            string
	Phone              string
	Email              string
}

// Purchase represents a purchase invoice from a supplier
type Purchase struct {
	ID            int64
	Code          string
	Date          time.Time
	InvoiceNumber string
	SupplierID    int64
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Status        PurchaseStatus
}

// PurchaseTotals are the aggregate amounts of a purchase
type PurchaseTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineItem represents one product line within a purchase.
// ClientID identifies the item inside an uncommitted cart; ID is assigned
// by the backend once persisted.
type LineItem struct {
	ID         int64
	ClientID   uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Product    Product
	PurchaseID int64
}

// Sale represents a sale recorded by the backend
type Sale struct {
	ID          int64
	Date        time.Time
	ProductName string
	Total       decimal.Decimal
	Status      string
}

// Transaction is an entry in the combined sales/purchases feed
type Transaction struct {
	Type        TransactionType
	ID          int64
	Date        time.Time
	Description string
	Total       decimal.Decimal
	Status      string
}
