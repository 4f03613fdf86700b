// Package planning computes purchase timelines and reorder plans from live
// inventory, catalog and purchase order data. All results are request-scoped
// value objects; nothing here is persisted or cached.
package planning

import (
	"errors"
	"time"

	"github.com/hidesync/hidesync/internal/procurement"
)

// Granularity is the bucketing unit used to partition a timeline.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// ParseGranularity validates a raw granularity string at the boundary.
func ParseGranularity(raw string) (Granularity, error) {
	switch Granularity(raw) {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter:
		return Granularity(raw), nil
	}
	return "", ErrUnsupportedGranularity
}

// Priority classifies how urgently a recommended reorder should be placed.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var (
	// ErrUnsupportedGranularity indicates a granularity outside the closed set.
	ErrUnsupportedGranularity = errors.New("planning: unsupported granularity")
	// ErrMissingCollaborator indicates a required collaborator was not wired.
	ErrMissingCollaborator = errors.New("planning: required collaborators unavailable")
)

// PurchaseOrderSummary is a read-only snapshot of a persisted order.
type PurchaseOrderSummary struct {
	ID           int64                        `json:"id"`
	Supplier     string                       `json:"supplier"`
	OrderDate    time.Time                    `json:"order_date"`
	DeliveryDate time.Time                    `json:"delivery_date"`
	Status       procurement.PurchaseStatus   `json:"status"`
	Items        map[string]float64           `json:"items"`
	Total        float64                      `json:"total"`
}

// TimelinePeriod is one bucket of a timeline. Start and end are inclusive
// dates; every contained order's date lies within them.
type TimelinePeriod struct {
	Name   string                 `json:"name"`
	Start  time.Time              `json:"start"`
	End    time.Time              `json:"end"`
	Orders []PurchaseOrderSummary `json:"orders"`
	Total  float64                `json:"total"`
	Count  int                    `json:"count"`
}

// Timeline partitions a date range into contiguous periods with orders
// assigned to the period containing their order date.
type Timeline struct {
	Periods     []TimelinePeriod `json:"periods"`
	TotalAmount float64          `json:"total_amount"`
	TotalCount  int              `json:"total_count"`
	Suppliers   []string         `json:"suppliers"`
	Start       time.Time        `json:"start"`
	End         time.Time        `json:"end"`
	Granularity Granularity      `json:"granularity"`
	Skipped     int              `json:"skipped"`
}

// MaterialAttributes is the catalog view the planner consumes.
type MaterialAttributes struct {
	ID           int64
	Name         string
	MaterialType string
	Unit         string
	SupplierID   int64
	ReorderPoint float64
	UnitCost     float64
}

// StockSnapshot is the inventory view the planner consumes.
type StockSnapshot struct {
	MaterialID int64
	Quantity   float64
}

// PlanLineItem is a single reorder recommendation. RecommendedQty is always
// positive; zero-quantity materials are excluded from the plan entirely.
type PlanLineItem struct {
	MaterialID        int64    `json:"material_id"`
	Name              string   `json:"name"`
	MaterialType      string   `json:"material_type"`
	CurrentStock      float64  `json:"current_stock"`
	ReorderPoint      float64  `json:"reorder_point"`
	RecommendedQty    float64  `json:"recommended_qty"`
	Unit              string   `json:"unit"`
	SupplierID        int64    `json:"supplier_id"`
	SupplierName      string   `json:"supplier_name"`
	EstimatedCost     *float64 `json:"estimated_cost"`
	DaysUntilStockout *int     `json:"days_until_stockout"`
	UsageRate         float64  `json:"usage_rate"`
	Priority          Priority `json:"priority"`
}

// PurchasePlan aggregates recommendations grouped by supplier.
type PurchasePlan struct {
	ID                 string                    `json:"id"`
	GeneratedAt        time.Time                 `json:"generated_at"`
	Items              []PlanLineItem            `json:"items"`
	TotalEstimatedCost float64                   `json:"total_estimated_cost"`
	SupplierSubtotals  map[string]float64        `json:"supplier_subtotals"`
	SupplierItems      map[string][]PlanLineItem `json:"supplier_items"`
	Skipped            int                       `json:"skipped"`
}
