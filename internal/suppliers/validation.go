package suppliers

import (
	"errors"
	"strings"
)

var supplierCategories = map[string]bool{
	"LEATHER":  true,
	"HARDWARE": true,
	"SUPPLIES": true,
	"MIXED":    true,
}

func (s *Service) validate(supplier Supplier) error {
	if strings.TrimSpace(supplier.Name) == "" {
		return errors.New("supplier name is required")
	}
	if supplier.Category != "" && !supplierCategories[supplier.Category] {
		return errors.New("unknown supplier category")
	}
	if supplier.Rating < 0 || supplier.Rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}
