package inventory

import (
	"context"
	"time"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListSnapshots(ctx context.Context, materialType string) ([]Snapshot, error)
	GetSnapshot(ctx context.Context, materialID int64) (Snapshot, error)
	ListTransactions(ctx context.Context, materialID int64, limit int) ([]Transaction, error)
}

// Service orchestrates stock movements and snapshot reads.
type Service struct {
	repo RepositoryPort
}

// NewService constructs inventory service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListSnapshots returns current stock per material, optionally filtered by
// material type.
func (s *Service) ListSnapshots(ctx context.Context, materialType string) ([]Snapshot, error) {
	return s.repo.ListSnapshots(ctx, materialType)
}

// GetSnapshot returns the snapshot for a single material.
func (s *Service) GetSnapshot(ctx context.Context, materialID int64) (Snapshot, error) {
	return s.repo.GetSnapshot(ctx, materialID)
}

// ListTransactions returns the most recent movements for a material.
func (s *Service) ListTransactions(ctx context.Context, materialID int64, limit int) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, materialID, limit)
}

// PostAdjustment records a stock movement and applies it to the snapshot.
func (s *Service) PostAdjustment(ctx context.Context, input AdjustmentInput) (Transaction, error) {
	if input.MaterialID == 0 || input.Quantity <= 0 {
		return Transaction{}, ErrValidation
	}
	switch input.Type {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeAdjust:
	default:
		return Transaction{}, ErrValidation
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = time.Now()
	}

	txn := Transaction{
		MaterialID: input.MaterialID,
		Type:       input.Type,
		Quantity:   input.Quantity,
		Note:       input.Note,
		OccurredAt: input.OccurredAt,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertTransaction(ctx, txn)
		if err != nil {
			return err
		}
		txn.ID = id

		snapshot, err := tx.GetSnapshotForUpdate(ctx, input.MaterialID)
		if err != nil && err != ErrNotFound {
			return err
		}
		switch input.Type {
		case TransactionTypeOut:
			snapshot.Quantity -= input.Quantity
		default:
			snapshot.Quantity += input.Quantity
		}
		if snapshot.Quantity < 0 {
			snapshot.Quantity = 0
		}
		return tx.UpsertSnapshot(ctx, snapshot)
	})
	if err != nil {
		return Transaction{}, err
	}
	return txn, nil
}
