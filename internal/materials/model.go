package materials

import (
	"errors"
	"time"
)

// MaterialType enumerates the catalog families stocked by the workshop.
type MaterialType string

const (
	MaterialTypeLeather  MaterialType = "LEATHER"
	MaterialTypeHardware MaterialType = "HARDWARE"
	MaterialTypeSupplies MaterialType = "SUPPLIES"
)

// Material represents a raw material entity
type Material struct {
	ID           int64        `json:"id"`
	SKU          string       `json:"sku"`
	Name         string       `json:"name"`
	MaterialType MaterialType `json:"material_type"`
	Unit         string       `json:"unit"`
	SupplierID   int64        `json:"supplier_id"`
	ReorderPoint float64      `json:"reorder_point"`
	UnitCost     float64      `json:"unit_cost"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ErrNotFound indicates the material does not exist.
var ErrNotFound = errors.New("materials: not found")
