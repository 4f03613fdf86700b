package planning

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultMinStockDays is the stock coverage target used when the caller does
// not supply one.
const DefaultMinStockDays = 30

// PlanRequest describes one plan computation.
type PlanRequest struct {
	MinStockDays   int
	SupplierID     *int64
	MaterialType   string
	IncludePending bool
}

// PurchasePlanner recommends which materials to reorder, in what quantity,
// and from which supplier.
type PurchasePlanner struct {
	inventory InventoryProvider
	catalog   MaterialCatalog
	suppliers SupplierDirectory
	orders    OrderStore
	usage     UsageEstimator
	now       func() time.Time
}

// NewPurchasePlanner constructs the planner. inventory and catalog are
// required; suppliers, orders and usage degrade gracefully when nil
// (unknown supplier labels, zero pending quantities, zero usage).
func NewPurchasePlanner(inventory InventoryProvider, catalog MaterialCatalog, suppliers SupplierDirectory, orders OrderStore, usage UsageEstimator) *PurchasePlanner {
	return &PurchasePlanner{
		inventory: inventory,
		catalog:   catalog,
		suppliers: suppliers,
		orders:    orders,
		usage:     usage,
		now:       time.Now,
	}
}

// WithNow overrides the planner clock for testing.
func (p *PurchasePlanner) WithNow(fn func() time.Time) {
	if fn != nil {
		p.now = fn
	}
}

// CreatePlan walks every material with an inventory record and emits a
// recommendation for each one that needs restocking. Materials that fail to
// resolve are skipped and counted, not errored.
func (p *PurchasePlanner) CreatePlan(ctx context.Context, req PlanRequest) (PurchasePlan, error) {
	if p == nil || p.inventory == nil || p.catalog == nil {
		return PurchasePlan{}, ErrMissingCollaborator
	}
	if req.MinStockDays <= 0 {
		req.MinStockDays = DefaultMinStockDays
	}

	snapshots, err := p.inventory.ListSnapshots(ctx, req.MaterialType)
	if err != nil {
		return PurchasePlan{}, fmt.Errorf("planning: list snapshots: %w", err)
	}

	plan := PurchasePlan{
		ID:                uuid.NewString(),
		GeneratedAt:       p.now(),
		SupplierSubtotals: map[string]float64{},
		SupplierItems:     map[string][]PlanLineItem{},
	}

	for _, snapshot := range snapshots {
		attrs, err := p.catalog.MaterialAttributes(ctx, snapshot.MaterialID)
		if err != nil || attrs.ID == 0 {
			plan.Skipped++
			continue
		}
		if req.SupplierID != nil && attrs.SupplierID != *req.SupplierID {
			continue
		}

		usageRate := 0.0
		if p.usage != nil {
			if rate, err := p.usage.DailyUsage(ctx, snapshot.MaterialID); err == nil && rate > 0 {
				usageRate = rate
			}
		}

		pending := 0.0
		if req.IncludePending && p.orders != nil {
			if qty, err := p.orders.OpenQuantityForMaterial(ctx, snapshot.MaterialID); err == nil && qty > 0 {
				pending = qty
			}
		}

		var daysUntilStockout *int
		if usageRate > 0 {
			days := int(math.Floor(snapshot.Quantity / usageRate))
			daysUntilStockout = &days
		}

		recommended := 0.0
		switch {
		case daysUntilStockout != nil && *daysUntilStockout < req.MinStockDays:
			recommended = usageRate*float64(req.MinStockDays) - (snapshot.Quantity + pending)
		case attrs.ReorderPoint > 0 && snapshot.Quantity < attrs.ReorderPoint:
			recommended = attrs.ReorderPoint - (snapshot.Quantity + pending)
		}
		if recommended <= 0 {
			continue
		}

		var estimatedCost *float64
		if attrs.UnitCost > 0 {
			cost := attrs.UnitCost * recommended
			estimatedCost = &cost
		}

		item := PlanLineItem{
			MaterialID:        attrs.ID,
			Name:              attrs.Name,
			MaterialType:      attrs.MaterialType,
			CurrentStock:      snapshot.Quantity,
			ReorderPoint:      attrs.ReorderPoint,
			RecommendedQty:    recommended,
			Unit:              attrs.Unit,
			SupplierID:        attrs.SupplierID,
			SupplierName:      p.supplierName(ctx, attrs.SupplierID),
			EstimatedCost:     estimatedCost,
			DaysUntilStockout: daysUntilStockout,
			UsageRate:         usageRate,
			Priority:          classifyPriority(daysUntilStockout, snapshot.Quantity, attrs.ReorderPoint),
		}

		plan.Items = append(plan.Items, item)
		subtotal := 0.0
		if item.EstimatedCost != nil {
			subtotal = *item.EstimatedCost
		}
		plan.SupplierSubtotals[item.SupplierName] += subtotal
		plan.SupplierItems[item.SupplierName] = append(plan.SupplierItems[item.SupplierName], item)
		plan.TotalEstimatedCost += subtotal
	}

	return plan, nil
}

// UnknownSupplierLabel groups items whose supplier cannot be resolved.
const UnknownSupplierLabel = "Unknown Supplier"

func (p *PurchasePlanner) supplierName(ctx context.Context, supplierID int64) string {
	if p.suppliers == nil || supplierID == 0 {
		return UnknownSupplierLabel
	}
	name, err := p.suppliers.SupplierName(ctx, supplierID)
	if err != nil || name == "" {
		return UnknownSupplierLabel
	}
	return name
}

func classifyPriority(daysUntilStockout *int, currentStock, reorderPoint float64) Priority {
	if daysUntilStockout != nil {
		switch {
		case *daysUntilStockout <= 7:
			return PriorityHigh
		case *daysUntilStockout <= 14:
			return PriorityMedium
		default:
			return PriorityLow
		}
	}
	if reorderPoint > 0 {
		ratio := currentStock / reorderPoint
		switch {
		case ratio <= 0.5:
			return PriorityHigh
		case ratio <= 0.75:
			return PriorityMedium
		}
	}
	return PriorityLow
}
