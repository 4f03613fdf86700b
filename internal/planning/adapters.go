package planning

import (
	"context"
	"time"

	"github.com/hidesync/hidesync/internal/inventory"
	"github.com/hidesync/hidesync/internal/materials"
	"github.com/hidesync/hidesync/internal/procurement"
)

// OrderStoreAdapter adapts procurement.Service to the OrderStore port,
// composing read-only summaries with resolved supplier names.
type OrderStoreAdapter struct {
	service   *procurement.Service
	suppliers SupplierDirectory
}

// NewOrderStoreAdapter creates the adapter. suppliers may be nil; summaries
// then carry an empty supplier name.
func NewOrderStoreAdapter(service *procurement.Service, suppliers SupplierDirectory) *OrderStoreAdapter {
	return &OrderStoreAdapter{service: service, suppliers: suppliers}
}

// ListByDateRange implements OrderStore.
func (a *OrderStoreAdapter) ListByDateRange(ctx context.Context, start, end time.Time, supplierID *int64) ([]PurchaseOrderSummary, error) {
	orders, lines, err := a.service.ListByDateRange(ctx, start, end, supplierID)
	if err != nil {
		return nil, err
	}
	names := map[int64]string{}
	summaries := make([]PurchaseOrderSummary, 0, len(orders))
	for _, po := range orders {
		summary := PurchaseOrderSummary{
			ID:           po.ID,
			OrderDate:    po.OrderDate,
			DeliveryDate: po.DeliveryDate,
			Status:       po.Status,
			Items:        map[string]float64{},
			Total:        po.Total,
		}
		if a.suppliers != nil {
			name, ok := names[po.SupplierID]
			if !ok {
				name, _ = a.suppliers.SupplierName(ctx, po.SupplierID)
				names[po.SupplierID] = name
			}
			summary.Supplier = name
		}
		for _, line := range lines[po.ID] {
			summary.Items[line.Name] += line.Qty
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// OpenQuantityForMaterial implements OrderStore.
func (a *OrderStoreAdapter) OpenQuantityForMaterial(ctx context.Context, materialID int64) (float64, error) {
	return a.service.OpenQuantityForMaterial(ctx, materialID)
}

// CatalogAdapter adapts materials.Service to the MaterialCatalog port.
type CatalogAdapter struct {
	service *materials.Service
}

// NewCatalogAdapter creates the adapter.
func NewCatalogAdapter(service *materials.Service) *CatalogAdapter {
	return &CatalogAdapter{service: service}
}

// MaterialAttributes implements MaterialCatalog.
func (a *CatalogAdapter) MaterialAttributes(ctx context.Context, materialID int64) (MaterialAttributes, error) {
	material, err := a.service.Get(ctx, materialID)
	if err != nil {
		return MaterialAttributes{}, err
	}
	return MaterialAttributes{
		ID:           material.ID,
		Name:         material.Name,
		MaterialType: string(material.MaterialType),
		Unit:         material.Unit,
		SupplierID:   material.SupplierID,
		ReorderPoint: material.ReorderPoint,
		UnitCost:     material.UnitCost,
	}, nil
}

// InventoryAdapter adapts inventory.Service to the InventoryProvider port.
type InventoryAdapter struct {
	service *inventory.Service
}

// NewInventoryAdapter creates the adapter.
func NewInventoryAdapter(service *inventory.Service) *InventoryAdapter {
	return &InventoryAdapter{service: service}
}

// ListSnapshots implements InventoryProvider.
func (a *InventoryAdapter) ListSnapshots(ctx context.Context, materialType string) ([]StockSnapshot, error) {
	snapshots, err := a.service.ListSnapshots(ctx, materialType)
	if err != nil {
		return nil, err
	}
	out := make([]StockSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, StockSnapshot{MaterialID: s.MaterialID, Quantity: s.Quantity})
	}
	return out, nil
}
