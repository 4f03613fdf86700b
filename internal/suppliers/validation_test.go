package suppliers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateSupplier(t *testing.T) {
	svc := &Service{}

	valid := Supplier{Name: "Buckleguy", Category: "HARDWARE", Rating: 4}
	require.NoError(t, svc.validate(valid))

	// Category is optional.
	require.NoError(t, svc.validate(Supplier{Name: "Tannery Row"}))

	require.Error(t, svc.validate(Supplier{Name: "   "}))
	require.Error(t, svc.validate(Supplier{Name: "X", Category: "TEXTILE"}))
	require.Error(t, svc.validate(Supplier{Name: "X", Rating: 6}))
	require.Error(t, svc.validate(Supplier{Name: "X", Rating: -1}))
}
