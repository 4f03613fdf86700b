package inventory

import (
	"errors"
	"time"
)

// TransactionType enumerates supported inventory movements.
type TransactionType string

const (
	// TransactionTypeIn represents an inbound movement.
	TransactionTypeIn TransactionType = "IN"
	// TransactionTypeOut represents an outbound movement.
	TransactionTypeOut TransactionType = "OUT"
	// TransactionTypeAdjust indicates manual adjustments.
	TransactionTypeAdjust TransactionType = "ADJUST"
)

// Snapshot summarises current stock per material.
type Snapshot struct {
	MaterialID       int64     `json:"material_id"`
	Quantity         float64   `json:"quantity"`
	ReorderThreshold float64   `json:"reorder_threshold"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Transaction models a single stock movement.
type Transaction struct {
	ID         int64           `json:"id"`
	MaterialID int64           `json:"material_id"`
	Type       TransactionType `json:"type"`
	Quantity   float64         `json:"quantity"`
	Note       string          `json:"note"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AdjustmentInput describes a request to adjust stock.
type AdjustmentInput struct {
	MaterialID int64
	Type       TransactionType
	Quantity   float64
	Note       string
	OccurredAt time.Time
}

var (
	// ErrNotFound indicates a missing snapshot row.
	ErrNotFound = errors.New("inventory: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("inventory: invalid input")
)
