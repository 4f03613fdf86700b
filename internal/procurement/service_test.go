package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryPORepo struct {
	pos    map[int64]PurchaseOrder
	lines  map[int64][]POLine
	nextID int64
}

type memoryPOTx struct {
	repo *memoryPORepo
}

func newMemoryPORepo() *memoryPORepo {
	return &memoryPORepo{
		pos:   make(map[int64]PurchaseOrder),
		lines: make(map[int64][]POLine),
	}
}

func (r *memoryPORepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryPOTx{repo: r})
}

func (r *memoryPORepo) GetPO(ctx context.Context, id int64) (PurchaseOrder, []POLine, error) {
	po, ok := r.pos[id]
	if !ok {
		return PurchaseOrder{}, nil, ErrNotFound
	}
	return po, append([]POLine(nil), r.lines[id]...), nil
}

func (r *memoryPORepo) List(ctx context.Context, limit, offset int, filters ListFilters) ([]PurchaseOrder, int, error) {
	var out []PurchaseOrder
	for _, po := range r.pos {
		if filters.Status != "" && po.Status != filters.Status {
			continue
		}
		if filters.SupplierID != 0 && po.SupplierID != filters.SupplierID {
			continue
		}
		out = append(out, po)
	}
	return out, len(out), nil
}

func (r *memoryPORepo) ListByDateRange(ctx context.Context, start, end time.Time, supplierID *int64) ([]PurchaseOrder, map[int64][]POLine, error) {
	var out []PurchaseOrder
	lines := make(map[int64][]POLine)
	for id, po := range r.pos {
		if po.OrderDate.Before(start) || po.OrderDate.After(end) {
			continue
		}
		if supplierID != nil && po.SupplierID != *supplierID {
			continue
		}
		out = append(out, po)
		lines[id] = append([]POLine(nil), r.lines[id]...)
	}
	return out, lines, nil
}

func (r *memoryPORepo) OpenQuantityForMaterial(ctx context.Context, materialID int64) (float64, error) {
	inFlight := make(map[PurchaseStatus]bool)
	for _, status := range InFlightStatuses {
		inFlight[status] = true
	}
	var total float64
	for id, po := range r.pos {
		if !inFlight[po.Status] {
			continue
		}
		for _, line := range r.lines[id] {
			if line.MaterialID == materialID {
				total += line.Qty
			}
		}
	}
	return total, nil
}

func (tx *memoryPOTx) CreatePO(ctx context.Context, po PurchaseOrder) (int64, error) {
	tx.repo.nextID++
	po.ID = tx.repo.nextID
	tx.repo.pos[po.ID] = po
	return po.ID, nil
}

func (tx *memoryPOTx) InsertPOLine(ctx context.Context, line POLine) error {
	tx.repo.lines[line.POID] = append(tx.repo.lines[line.POID], line)
	return nil
}

func (tx *memoryPOTx) UpdatePOStatus(ctx context.Context, id int64, status PurchaseStatus) error {
	po, ok := tx.repo.pos[id]
	if !ok {
		return ErrNotFound
	}
	po.Status = status
	tx.repo.pos[id] = po
	return nil
}

func (tx *memoryPOTx) SetPOTotal(ctx context.Context, id int64, total float64) error {
	po, ok := tx.repo.pos[id]
	if !ok {
		return ErrNotFound
	}
	po.Total = total
	tx.repo.pos[id] = po
	return nil
}

type countingBumper struct {
	calls int
}

func (b *countingBumper) Bump(ctx context.Context) error {
	b.calls++
	return nil
}

func TestCreatePurchaseOrderComputesTotal(t *testing.T) {
	repo := newMemoryPORepo()
	bumper := &countingBumper{}
	svc := NewService(repo, bumper, nil)

	po, err := svc.CreatePurchaseOrder(context.Background(), CreatePOInput{
		SupplierID: 3,
		OrderDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Lines: []POLineInput{
			{MaterialID: 1, Name: "Veg-tan side", Qty: 2, Price: 120},
			{MaterialID: 2, Name: "Brass buckle", Qty: 10, Price: 2.5},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, po.ID)
	require.Equal(t, StatusPlanning, po.Status)
	require.NotEmpty(t, po.Number)
	require.InDelta(t, 265.0, po.Total, 1e-9)
	require.Len(t, repo.lines[po.ID], 2)
	require.Equal(t, 1, bumper.calls)
}

func TestCreatePurchaseOrderValidatesInput(t *testing.T) {
	svc := NewService(newMemoryPORepo(), nil, nil)

	_, err := svc.CreatePurchaseOrder(context.Background(), CreatePOInput{SupplierID: 3})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePurchaseOrder(context.Background(), CreatePOInput{
		SupplierID: 3,
		Lines:      []POLineInput{{MaterialID: 1, Qty: 0, Price: 10}},
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePurchaseOrder(context.Background(), CreatePOInput{
		Lines: []POLineInput{{MaterialID: 1, Qty: 1, Price: 10}},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatusFollowsWorkflow(t *testing.T) {
	repo := newMemoryPORepo()
	bumper := &countingBumper{}
	svc := NewService(repo, bumper, nil)

	po, err := svc.CreatePurchaseOrder(context.Background(), CreatePOInput{
		SupplierID: 3,
		Lines:      []POLineInput{{MaterialID: 1, Name: "Thread", Qty: 5, Price: 4}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), po.ID, StatusPendingApproval))
	require.NoError(t, svc.UpdateStatus(context.Background(), po.ID, StatusOrdered))

	// Backwards moves violate the workflow.
	err = svc.UpdateStatus(context.Background(), po.ID, StatusPlanning)
	require.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, svc.UpdateStatus(context.Background(), po.ID, StatusReceived))
	err = svc.UpdateStatus(context.Background(), po.ID, StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestOpenQuantityCountsInFlightOnly(t *testing.T) {
	repo := newMemoryPORepo()
	svc := NewService(repo, nil, nil)

	ordered, err := svc.CreatePurchaseOrder(context.Background(), CreatePOInput{
		SupplierID: 3,
		Lines:      []POLineInput{{MaterialID: 9, Name: "Rivets", Qty: 100, Price: 0.1}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(context.Background(), ordered.ID, StatusOrdered))

	// A draft order does not count toward open quantity.
	_, err = svc.CreatePurchaseOrder(context.Background(), CreatePOInput{
		SupplierID: 3,
		Lines:      []POLineInput{{MaterialID: 9, Name: "Rivets", Qty: 40, Price: 0.1}},
	})
	require.NoError(t, err)

	open, err := svc.OpenQuantityForMaterial(context.Background(), 9)
	require.NoError(t, err)
	require.InDelta(t, 100.0, open, 1e-9)
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to PurchaseStatus
		ok       bool
	}{
		{StatusPlanning, StatusPendingApproval, true},
		{StatusPlanning, StatusReceived, true},
		{StatusOrdered, StatusApproved, false},
		{StatusShipped, StatusInTransit, true},
		{StatusInTransit, StatusCancelled, true},
		{StatusReceived, StatusCancelled, false},
		{StatusCancelled, StatusOrdered, false},
		{StatusPlanning, "UNKNOWN", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("IN_TRANSIT")
	require.NoError(t, err)
	require.Equal(t, StatusInTransit, status)

	_, err = ParseStatus("in_transit")
	require.ErrorIs(t, err, ErrValidation)
}
