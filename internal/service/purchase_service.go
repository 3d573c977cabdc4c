package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/repository"
	"github.com/jafarshop/compras/pkg/errors"
)

// PurchaseService manages purchase headers and their stored line items
type PurchaseService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(repos *repository.Repositories, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{
		repos:  repos,
		logger: logger,
	}
}

// List returns every purchase
func (s *PurchaseService) List(ctx context.Context) ([]*domain.Purchase, error) {
	return s.repos.Purchase.List(ctx)
}

// Create stores a new purchase. Tax and total are derived from the subtotal
// and the status defaults to PENDING.
func (s *PurchaseService) Create(ctx context.Context, form PurchaseForm) (*domain.Purchase, error) {
	status, err := formStatus(form.Status, domain.PurchaseStatusPending)
	if err != nil {
		return nil, err
	}
	if form.Subtotal.IsNegative() {
		return nil, &errors.ErrValidation{Field: "subtotal", Message: "must not be negative"}
	}

	totals := domain.TotalsFromSubtotal(form.Subtotal)
	purchase := &domain.Purchase{
		InvoiceNumber: strings.TrimSpace(form.InvoiceNumber),
		SupplierID:    form.SupplierID,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: strings.TrimSpace(form.PaymentMethod),
		Status:        status,
	}
	if err := s.repos.Purchase.Create(ctx, purchase); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase created",
		zap.Int64("purchase_id", purchase.ID),
		zap.String("invoice_number", purchase.InvoiceNumber),
	)
	return purchase, nil
}

// Update edits a purchase header. A status change must be a valid
// transition from the stored status.
func (s *PurchaseService) Update(ctx context.Context, id int64, form PurchaseForm) (*domain.Purchase, error) {
	existing, err := findPurchase(ctx, s.repos, id)
	if err != nil {
		return nil, err
	}

	status, err := formStatus(form.Status, existing.Status)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanTransitionTo(status) {
		return nil, &errors.ErrInvalidStateTransition{From: existing.Status, To: status}
	}
	if form.Subtotal.IsNegative() {
		return nil, &errors.ErrValidation{Field: "subtotal", Message: "must not be negative"}
	}

	totals := domain.TotalsFromSubtotal(form.Subtotal)
	updated := *existing
	updated.InvoiceNumber = strings.TrimSpace(form.InvoiceNumber)
	updated.SupplierID = form.SupplierID
	updated.Subtotal = totals.Subtotal
	updated.Tax = totals.Tax
	updated.Total = totals.Total
	updated.PaymentMethod = strings.TrimSpace(form.PaymentMethod)
	updated.Status = status

	if err := s.repos.Purchase.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if existing.Status != status {
		s.logger.Info("Purchase status changed",
			zap.Int64("purchase_id", id),
			zap.String("from", existing.Status.String()),
			zap.String("to", status.String()),
		)
	}
	return &updated, nil
}

// LineItems returns the stored line items of a purchase
func (s *PurchaseService) LineItems(ctx context.Context, purchaseID int64) ([]*domain.LineItem, error) {
	return s.repos.LineItem.ListByPurchaseID(ctx, purchaseID)
}

// ReplaceLineItems swaps every stored line item of a purchase for items.
// Amounts are stored as given, and the purchase totals are set to their sums.
func (s *PurchaseService) ReplaceLineItems(ctx context.Context, purchaseID int64, inputs []LineItemInput) ([]*domain.LineItem, domain.PurchaseTotals, error) {
	if _, err := findPurchase(ctx, s.repos, purchaseID); err != nil {
		return nil, domain.PurchaseTotals{}, err
	}

	products, err := s.repos.Product.List(ctx)
	if err != nil {
		return nil, domain.PurchaseTotals{}, err
	}
	byID := make(map[int64]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]*domain.LineItem, 0, len(inputs))
	var totals domain.PurchaseTotals
	for i, input := range inputs {
		if err := validateLineItemInput(i, input); err != nil {
			return nil, domain.PurchaseTotals{}, err
		}
		product, ok := byID[input.ProductID]
		if !ok {
			return nil, domain.PurchaseTotals{}, &errors.ErrNotFound{
				Resource: "product",
				ID:       strconv.FormatInt(input.ProductID, 10),
			}
		}

		item := &domain.LineItem{
			ID:         input.ID,
			Quantity:   input.Quantity,
			UnitPrice:  domain.Round2(input.UnitPrice),
			Subtotal:   domain.Round2(input.Subtotal),
			Tax:        domain.Round2(input.Tax),
			Total:      domain.Round2(input.Total),
			Product:    *product,
			PurchaseID: purchaseID,
		}
		totals.Subtotal = totals.Subtotal.Add(item.Subtotal)
		totals.Tax = totals.Tax.Add(item.Tax)
		totals.Total = totals.Total.Add(item.Total)
		items = append(items, item)
	}

	if err := s.repos.LineItem.ReplaceForPurchase(ctx, purchaseID, items); err != nil {
		s.logger.Error("Failed to replace line items", zap.Int64("purchase_id", purchaseID), zap.Error(err))
		return nil, domain.PurchaseTotals{}, err
	}
	if err := s.repos.Purchase.UpdateTotals(ctx, purchaseID, totals); err != nil {
		s.logger.Error("Failed to update purchase totals", zap.Int64("purchase_id", purchaseID), zap.Error(err))
		return nil, domain.PurchaseTotals{}, err
	}
	return items, totals, nil
}

func validateLineItemInput(index int, input LineItemInput) error {
	field := func(name string) string {
		return "items[" + strconv.Itoa(index) + "]." + name
	}
	switch {
	case input.Quantity < 1:
		return &errors.ErrValidation{Field: field("quantity"), Message: "must be at least 1"}
	case input.UnitPrice.IsNegative():
		return &errors.ErrValidation{Field: field("unit_price"), Message: "must not be negative"}
	case input.Subtotal.IsNegative():
		return &errors.ErrValidation{Field: field("subtotal"), Message: "must not be negative"}
	case input.Tax.IsNegative():
		return &errors.ErrValidation{Field: field("tax"), Message: "must not be negative"}
	case input.Total.IsNegative():
		return &errors.ErrValidation{Field: field("total"), Message: "must not be negative"}
	}
	return nil
}

// formStatus parses a form status, falling back to def when blank
func formStatus(raw string, def domain.PurchaseStatus) (domain.PurchaseStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	status := domain.PurchaseStatus(strings.ToUpper(raw))
	if !status.IsValid() {
		return "", &errors.ErrValidation{Field: "status", Message: "must be PENDING, COMPLETED or VOIDED"}
	}
	return status, nil
}
