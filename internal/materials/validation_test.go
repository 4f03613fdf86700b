package materials

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateMaterial(t *testing.T) {
	svc := &Service{}

	valid := Material{SKU: "LTH-VT-001", Name: "Veg-tan side", MaterialType: MaterialTypeLeather, Unit: "sqft"}
	require.NoError(t, svc.validate(valid))

	missingSKU := valid
	missingSKU.SKU = "  "
	require.Error(t, svc.validate(missingSKU))

	badType := valid
	badType.MaterialType = "FABRIC"
	require.Error(t, svc.validate(badType))

	negativeReorder := valid
	negativeReorder.ReorderPoint = -1
	require.Error(t, svc.validate(negativeReorder))

	negativeCost := valid
	negativeCost.UnitCost = -0.5
	require.Error(t, svc.validate(negativeCost))
}
