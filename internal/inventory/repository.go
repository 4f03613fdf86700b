package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists inventory data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by service.
type TxRepository interface {
	InsertTransaction(ctx context.Context, tx Transaction) (int64, error)
	GetSnapshotForUpdate(ctx context.Context, materialID int64) (Snapshot, error)
	UpsertSnapshot(ctx context.Context, snapshot Snapshot) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepo{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// ListSnapshots returns stock snapshots, optionally filtered by material type.
func (r *Repository) ListSnapshots(ctx context.Context, materialType string) ([]Snapshot, error) {
	query := `SELECT s.material_id, s.quantity, m.reorder_point, s.updated_at
FROM inventory_snapshots s
JOIN materials m ON m.id = s.material_id`
	args := []interface{}{}
	if materialType != "" {
		query += ` WHERE m.material_type = $1`
		args = append(args, materialType)
	}
	query += ` ORDER BY s.material_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.MaterialID, &s.Quantity, &s.ReorderThreshold, &s.UpdatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// GetSnapshot fetches the snapshot for one material.
func (r *Repository) GetSnapshot(ctx context.Context, materialID int64) (Snapshot, error) {
	var s Snapshot
	err := r.pool.QueryRow(ctx, `SELECT s.material_id, s.quantity, m.reorder_point, s.updated_at
FROM inventory_snapshots s JOIN materials m ON m.id = s.material_id WHERE s.material_id = $1`, materialID).
		Scan(&s.MaterialID, &s.Quantity, &s.ReorderThreshold, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	return s, err
}

// OutboundTotalSince sums outbound quantities for a material after the cutoff.
func (r *Repository) OutboundTotalSince(ctx context.Context, materialID int64, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(quantity),0) FROM inventory_transactions
WHERE material_id = $1 AND type = 'OUT' AND occurred_at >= $2`, materialID, since).Scan(&total)
	return total, err
}

// ListTransactions returns recent movements for a material, newest first.
func (r *Repository) ListTransactions(ctx context.Context, materialID int64, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT id, material_id, type, quantity, note, occurred_at, created_at
FROM inventory_transactions WHERE material_id = $1 ORDER BY occurred_at DESC LIMIT $2`, materialID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.MaterialID, &t.Type, &t.Quantity, &t.Note, &t.OccurredAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (tx *txRepo) InsertTransaction(ctx context.Context, t Transaction) (int64, error) {
	var id int64
	err := tx.tx.QueryRow(ctx, `INSERT INTO inventory_transactions (material_id, type, quantity, note, occurred_at, created_at)
VALUES ($1,$2,$3,$4,$5,NOW()) RETURNING id`, t.MaterialID, t.Type, t.Quantity, t.Note, t.OccurredAt).Scan(&id)
	return id, err
}

func (tx *txRepo) GetSnapshotForUpdate(ctx context.Context, materialID int64) (Snapshot, error) {
	var s Snapshot
	err := tx.tx.QueryRow(ctx, `SELECT material_id, quantity, updated_at FROM inventory_snapshots WHERE material_id = $1 FOR UPDATE`, materialID).
		Scan(&s.MaterialID, &s.Quantity, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{MaterialID: materialID}, ErrNotFound
	}
	return s, err
}

func (tx *txRepo) UpsertSnapshot(ctx context.Context, snapshot Snapshot) error {
	_, err := tx.tx.Exec(ctx, `INSERT INTO inventory_snapshots (material_id, quantity, updated_at)
VALUES ($1,$2,NOW())
ON CONFLICT (material_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()`, snapshot.MaterialID, snapshot.Quantity)
	return err
}
