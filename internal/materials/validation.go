package materials

import (
	"errors"
	"strings"
)

func (s *Service) validate(m Material) error {
	if strings.TrimSpace(m.SKU) == "" {
		return errors.New("material sku is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("material name is required")
	}
	switch m.MaterialType {
	case MaterialTypeLeather, MaterialTypeHardware, MaterialTypeSupplies:
	default:
		return errors.New("unknown material type")
	}
	if m.ReorderPoint < 0 {
		return errors.New("reorder point cannot be negative")
	}
	if m.UnitCost < 0 {
		return errors.New("unit cost cannot be negative")
	}
	return nil
}
