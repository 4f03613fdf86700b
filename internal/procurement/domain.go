package procurement

import (
	"errors"
	"time"
)

// PurchaseStatus enumerates the purchase order lifecycle.
type PurchaseStatus string

const (
	StatusPlanning        PurchaseStatus = "PLANNING"
	StatusPendingApproval PurchaseStatus = "PENDING_APPROVAL"
	StatusApproved        PurchaseStatus = "APPROVED"
	StatusOrdered         PurchaseStatus = "ORDERED"
	StatusAcknowledged    PurchaseStatus = "ACKNOWLEDGED"
	StatusProcessing      PurchaseStatus = "PROCESSING"
	StatusShipped         PurchaseStatus = "SHIPPED"
	StatusInTransit       PurchaseStatus = "IN_TRANSIT"
	StatusReceived        PurchaseStatus = "RECEIVED"
	StatusCancelled       PurchaseStatus = "CANCELLED"
)

// InFlightStatuses holds the statuses that count toward quantities already
// on order but not yet received.
var InFlightStatuses = []PurchaseStatus{
	StatusOrdered,
	StatusAcknowledged,
	StatusProcessing,
	StatusShipped,
	StatusInTransit,
}

// ParseStatus validates a raw status string at the boundary.
func ParseStatus(raw string) (PurchaseStatus, error) {
	status := PurchaseStatus(raw)
	switch status {
	case StatusPlanning, StatusPendingApproval, StatusApproved, StatusOrdered,
		StatusAcknowledged, StatusProcessing, StatusShipped, StatusInTransit,
		StatusReceived, StatusCancelled:
		return status, nil
	}
	return "", ErrValidation
}

// statusOrder gives each workflow stage a rank so forward transitions can be
// checked without enumerating every pair.
var statusOrder = map[PurchaseStatus]int{
	StatusPlanning:        0,
	StatusPendingApproval: 1,
	StatusApproved:        2,
	StatusOrdered:         3,
	StatusAcknowledged:    4,
	StatusProcessing:      5,
	StatusShipped:         6,
	StatusInTransit:       7,
	StatusReceived:        8,
}

// CanTransition reports whether a status change follows the workflow.
// Cancellation is allowed from any stage before receipt.
func CanTransition(from, to PurchaseStatus) bool {
	if from == StatusCancelled || from == StatusReceived {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusOrder[from]
	if !ok {
		return false
	}
	toRank, ok := statusOrder[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// PurchaseOrder domain model.
type PurchaseOrder struct {
	ID           int64          `json:"id"`
	Number       string         `json:"number"`
	SupplierID   int64          `json:"supplier_id"`
	Status       PurchaseStatus `json:"status"`
	OrderDate    time.Time      `json:"order_date"`
	DeliveryDate time.Time      `json:"delivery_date"`
	Total        float64        `json:"total"`
	Note         string         `json:"note"`
	CreatedAt    time.Time      `json:"created_at"`
}

// POLine represents a purchase order line.
type POLine struct {
	ID         int64   `json:"id"`
	POID       int64   `json:"po_id"`
	MaterialID int64   `json:"material_id"`
	Name       string  `json:"name"`
	Qty        float64 `json:"qty"`
	Price      float64 `json:"price"`
}

var (
	// ErrInvalidState occurs when action violates status workflow.
	ErrInvalidState = errors.New("procurement: invalid state transition")
	// ErrNotFound indicates record missing.
	ErrNotFound = errors.New("procurement: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("procurement: invalid input")
)
