package procurement

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	CreatePO(ctx context.Context, po PurchaseOrder) (int64, error)
	InsertPOLine(ctx context.Context, line POLine) error
	UpdatePOStatus(ctx context.Context, id int64, status PurchaseStatus) error
	SetPOTotal(ctx context.Context, id int64, total float64) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps callback in repeatable-read transaction.
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

const poColumns = `id, number, supplier_id, status, order_date, COALESCE(delivery_date, order_date), total, note, created_at`

// GetPO returns purchase order and lines.
func (r *Repository) GetPO(ctx context.Context, id int64) (PurchaseOrder, []POLine, error) {
	var po PurchaseOrder
	err := r.pool.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id=$1`, id).
		Scan(&po.ID, &po.Number, &po.SupplierID, &po.Status, &po.OrderDate, &po.DeliveryDate, &po.Total, &po.Note, &po.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, nil, ErrNotFound
		}
		return PurchaseOrder{}, nil, err
	}
	lines, err := r.linesFor(ctx, id)
	if err != nil {
		return PurchaseOrder{}, nil, err
	}
	return po, lines, nil
}

func (r *Repository) linesFor(ctx context.Context, poID int64) ([]POLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, po_id, material_id, name, qty, price FROM purchase_order_lines WHERE po_id=$1 ORDER BY id`, poID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []POLine
	for rows.Next() {
		var line POLine
		if err := rows.Scan(&line.ID, &line.POID, &line.MaterialID, &line.Name, &line.Qty, &line.Price); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ListByDateRange returns orders whose order date falls inside [start, end],
// sorted ascending, optionally restricted to one supplier. Lines are attached
// to each order.
func (r *Repository) ListByDateRange(ctx context.Context, start, end time.Time, supplierID *int64) ([]PurchaseOrder, map[int64][]POLine, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE order_date >= $1 AND order_date <= $2`
	args := []interface{}{start, end}
	if supplierID != nil {
		query += ` AND supplier_id = $3`
		args = append(args, *supplierID)
	}
	query += ` ORDER BY order_date ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(&po.ID, &po.Number, &po.SupplierID, &po.Status, &po.OrderDate, &po.DeliveryDate, &po.Total, &po.Note, &po.CreatedAt); err != nil {
			return nil, nil, err
		}
		orders = append(orders, po)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	lines := make(map[int64][]POLine, len(orders))
	for _, po := range orders {
		poLines, err := r.linesFor(ctx, po.ID)
		if err != nil {
			return nil, nil, err
		}
		lines[po.ID] = poLines
	}
	return orders, lines, nil
}

// OpenQuantityForMaterial sums line quantities across in-flight orders.
func (r *Repository) OpenQuantityForMaterial(ctx context.Context, materialID int64) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(l.qty),0)
FROM purchase_order_lines l
JOIN purchase_orders p ON p.id = l.po_id
WHERE l.material_id = $1 AND p.status = ANY($2)`, materialID, statusStrings(InFlightStatuses)).Scan(&total)
	return total, err
}

// List returns orders matching filters with a total count.
func (r *Repository) List(ctx context.Context, limit, offset int, filters ListFilters) ([]PurchaseOrder, int, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM purchase_orders WHERE 1=1`
	args := []interface{}{}
	countArgs := []interface{}{}

	appendFilter := func(clause string, value interface{}) {
		args = append(args, value)
		query += ` AND ` + clause + ` $` + strconv.Itoa(len(args))
		countArgs = append(countArgs, value)
		countQuery += ` AND ` + clause + ` $` + strconv.Itoa(len(countArgs))
	}
	if filters.Status != "" {
		appendFilter("status =", string(filters.Status))
	}
	if filters.SupplierID > 0 {
		appendFilter("supplier_id =", filters.SupplierID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY order_date DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(&po.ID, &po.Number, &po.SupplierID, &po.Status, &po.OrderDate, &po.DeliveryDate, &po.Total, &po.Note, &po.CreatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, po)
	}
	return orders, total, rows.Err()
}

func (tx *txRepo) CreatePO(ctx context.Context, po PurchaseOrder) (int64, error) {
	var id int64
	err := tx.tx.QueryRow(ctx, `INSERT INTO purchase_orders (number, supplier_id, status, order_date, delivery_date, total, note, created_at)
VALUES ($1,$2,$3,$4,NULLIF($5,'0001-01-01'::date),$6,$7,NOW()) RETURNING id`,
		po.Number, po.SupplierID, po.Status, po.OrderDate, po.DeliveryDate, po.Total, po.Note).Scan(&id)
	return id, err
}

func (tx *txRepo) InsertPOLine(ctx context.Context, line POLine) error {
	_, err := tx.tx.Exec(ctx, `INSERT INTO purchase_order_lines (po_id, material_id, name, qty, price) VALUES ($1,$2,$3,$4,$5)`,
		line.POID, line.MaterialID, line.Name, line.Qty, line.Price)
	return err
}

func (tx *txRepo) UpdatePOStatus(ctx context.Context, id int64, status PurchaseStatus) error {
	_, err := tx.tx.Exec(ctx, `UPDATE purchase_orders SET status=$1 WHERE id=$2`, status, id)
	return err
}

func (tx *txRepo) SetPOTotal(ctx context.Context, id int64, total float64) error {
	_, err := tx.tx.Exec(ctx, `UPDATE purchase_orders SET total=$1 WHERE id=$2`, total, id)
	return err
}

func statusStrings(statuses []PurchaseStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
