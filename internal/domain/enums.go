package domain

// PurchaseStatus represents the status of a purchase
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "PENDING"
	PurchaseStatusCompleted PurchaseStatus = "COMPLETED"
	PurchaseStatusVoided    PurchaseStatus = "VOIDED"
)

func (s PurchaseStatus) String() string {
	return string(s)
}

// IsValid checks if the purchase status is valid
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending,
		PurchaseStatusCompleted,
		PurchaseStatusVoided:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid.
// Keeping the current status is always allowed for valid statuses.
func (s PurchaseStatus) CanTransitionTo(newStatus PurchaseStatus) bool {
	if s == newStatus {
		return s.IsValid()
	}
	switch s {
	case PurchaseStatusPending:
		return newStatus == PurchaseStatusCompleted ||
			newStatus == PurchaseStatusVoided
	case PurchaseStatusCompleted:
		return newStatus == PurchaseStatusVoided
	case PurchaseStatusVoided:
		return false // Terminal state
	default:
		return false
	}
}

// IdentificationType is the kind of tax id a supplier is registered with
type IdentificationType string

const (
	IdentificationRUC IdentificationType = "RUC"
	IdentificationCED IdentificationType = "CED"
)

// IsValid checks if the identification type is valid
func (t IdentificationType) IsValid() bool {
	return t == IdentificationRUC || t == IdentificationCED
}

// Description returns the long name shown in supplier forms
func (t IdentificationType) Description() string {
	switch t {
	case IdentificationRUC:
		return "Registro Único de Contribuyentes"
	case IdentificationCED:
		return "Cédula de Identidad"
	default:
		return string(t)
	}
}

// TransactionType tags entries in the recent transactions feed
type TransactionType string

const (
	TransactionSale     TransactionType = "SALE"
	TransactionPurchase TransactionType = "PURCHASE"
)
