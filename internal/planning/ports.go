package planning

import (
	"context"
	"time"
)

// OrderStore queries persisted purchase orders.
type OrderStore interface {
	// ListByDateRange returns summaries of orders whose order date falls in
	// [start, end], sorted ascending, optionally restricted to one supplier.
	ListByDateRange(ctx context.Context, start, end time.Time, supplierID *int64) ([]PurchaseOrderSummary, error)
	// OpenQuantityForMaterial sums quantities on in-flight orders.
	OpenQuantityForMaterial(ctx context.Context, materialID int64) (float64, error)
}

// MaterialCatalog resolves material attributes.
type MaterialCatalog interface {
	MaterialAttributes(ctx context.Context, materialID int64) (MaterialAttributes, error)
}

// InventoryProvider lists current stock snapshots.
type InventoryProvider interface {
	ListSnapshots(ctx context.Context, materialType string) ([]StockSnapshot, error)
}

// SupplierDirectory resolves a supplier id to its display name.
type SupplierDirectory interface {
	SupplierName(ctx context.Context, supplierID int64) (string, error)
}

// UsageEstimator estimates units consumed per day for a material.
type UsageEstimator interface {
	DailyUsage(ctx context.Context, materialID int64) (float64, error)
}
