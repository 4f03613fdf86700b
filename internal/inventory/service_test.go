package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryInvRepo struct {
	snapshots    map[int64]Snapshot
	transactions []Transaction
	nextID       int64
}

type memoryInvTx struct {
	repo *memoryInvRepo
}

func newMemoryInvRepo() *memoryInvRepo {
	return &memoryInvRepo{snapshots: make(map[int64]Snapshot)}
}

func (r *memoryInvRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryInvTx{repo: r})
}

func (r *memoryInvRepo) ListSnapshots(ctx context.Context, materialType string) ([]Snapshot, error) {
	var out []Snapshot
	for _, snapshot := range r.snapshots {
		out = append(out, snapshot)
	}
	return out, nil
}

func (r *memoryInvRepo) GetSnapshot(ctx context.Context, materialID int64) (Snapshot, error) {
	snapshot, ok := r.snapshots[materialID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snapshot, nil
}

func (r *memoryInvRepo) ListTransactions(ctx context.Context, materialID int64, limit int) ([]Transaction, error) {
	var out []Transaction
	for _, txn := range r.transactions {
		if txn.MaterialID == materialID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (tx *memoryInvTx) InsertTransaction(ctx context.Context, txn Transaction) (int64, error) {
	tx.repo.nextID++
	txn.ID = tx.repo.nextID
	tx.repo.transactions = append(tx.repo.transactions, txn)
	return txn.ID, nil
}

func (tx *memoryInvTx) GetSnapshotForUpdate(ctx context.Context, materialID int64) (Snapshot, error) {
	snapshot, ok := tx.repo.snapshots[materialID]
	if !ok {
		return Snapshot{MaterialID: materialID}, ErrNotFound
	}
	return snapshot, nil
}

func (tx *memoryInvTx) UpsertSnapshot(ctx context.Context, snapshot Snapshot) error {
	tx.repo.snapshots[snapshot.MaterialID] = snapshot
	return nil
}

func TestPostAdjustmentAppliesDelta(t *testing.T) {
	repo := newMemoryInvRepo()
	repo.snapshots[1] = Snapshot{MaterialID: 1, Quantity: 10}
	svc := NewService(repo)

	txn, err := svc.PostAdjustment(context.Background(), AdjustmentInput{
		MaterialID: 1,
		Type:       TransactionTypeIn,
		Quantity:   5,
		OccurredAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotZero(t, txn.ID)
	require.InDelta(t, 15.0, repo.snapshots[1].Quantity, 1e-9)

	_, err = svc.PostAdjustment(context.Background(), AdjustmentInput{
		MaterialID: 1,
		Type:       TransactionTypeOut,
		Quantity:   3,
	})
	require.NoError(t, err)
	require.InDelta(t, 12.0, repo.snapshots[1].Quantity, 1e-9)
}

func TestPostAdjustmentFloorsAtZero(t *testing.T) {
	repo := newMemoryInvRepo()
	repo.snapshots[1] = Snapshot{MaterialID: 1, Quantity: 2}
	svc := NewService(repo)

	_, err := svc.PostAdjustment(context.Background(), AdjustmentInput{
		MaterialID: 1,
		Type:       TransactionTypeOut,
		Quantity:   10,
	})
	require.NoError(t, err)
	require.Zero(t, repo.snapshots[1].Quantity)
}

func TestPostAdjustmentCreatesSnapshot(t *testing.T) {
	repo := newMemoryInvRepo()
	svc := NewService(repo)

	_, err := svc.PostAdjustment(context.Background(), AdjustmentInput{
		MaterialID: 9,
		Type:       TransactionTypeIn,
		Quantity:   4,
	})
	require.NoError(t, err)
	require.InDelta(t, 4.0, repo.snapshots[9].Quantity, 1e-9)
}

func TestPostAdjustmentValidatesInput(t *testing.T) {
	svc := NewService(newMemoryInvRepo())

	_, err := svc.PostAdjustment(context.Background(), AdjustmentInput{Type: TransactionTypeIn, Quantity: 1})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PostAdjustment(context.Background(), AdjustmentInput{MaterialID: 1, Type: TransactionTypeIn, Quantity: 0})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PostAdjustment(context.Background(), AdjustmentInput{MaterialID: 1, Type: "TRANSFER", Quantity: 1})
	require.ErrorIs(t, err, ErrValidation)
}
