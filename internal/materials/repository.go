package materials

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hidesync/hidesync/internal/shared"
)

// ErrDuplicateSKU indicates a SKU collision on insert.
var ErrDuplicateSKU = errors.New("materials: duplicate sku")

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Material, int, error)
	Get(ctx context.Context, id int64) (Material, error)
	Create(ctx context.Context, material Material) (Material, error)
	Update(ctx context.Context, id int64, material Material) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const materialColumns = `id, sku, name, material_type, unit, COALESCE(supplier_id,0), reorder_point, unit_cost, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Material, int, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM materials WHERE 1=1`
	args := []interface{}{}
	countArgs := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR sku ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += ` AND (name ILIKE $1 OR sku ILIKE $1)`
		args = append(args, "%"+filters.Search+"%")
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}
	if filters.MaterialType != "" {
		argCount++
		query += ` AND material_type = $` + strconv.Itoa(argCount)
		countQuery += ` AND material_type = $` + strconv.Itoa(len(countArgs)+1)
		args = append(args, filters.MaterialType)
		countArgs = append(countArgs, filters.MaterialType)
	}
	if filters.SupplierID != nil {
		argCount++
		query += ` AND supplier_id = $` + strconv.Itoa(argCount)
		countQuery += ` AND supplier_id = $` + strconv.Itoa(len(countArgs)+1)
		args = append(args, *filters.SupplierID)
		countArgs = append(countArgs, *filters.SupplierID)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Material
	for rows.Next() {
		var m Material
		err := rows.Scan(&m.ID, &m.SKU, &m.Name, &m.MaterialType, &m.Unit, &m.SupplierID, &m.ReorderPoint, &m.UnitCost, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Material, error) {
	var m Material
	err := r.db.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id).
		Scan(&m.ID, &m.SKU, &m.Name, &m.MaterialType, &m.Unit, &m.SupplierID, &m.ReorderPoint, &m.UnitCost, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Material{}, ErrNotFound
	}
	return m, err
}

func (r *repository) Create(ctx context.Context, material Material) (Material, error) {
	query := `INSERT INTO materials (sku, name, material_type, unit, supplier_id, reorder_point, unit_cost, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, NULLIF($5,0), $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, material.SKU, material.Name, material.MaterialType, material.Unit, material.SupplierID, material.ReorderPoint, material.UnitCost, material.IsActive, now, now).Scan(&material.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_materials_sku" {
			return Material{}, ErrDuplicateSKU
		}
		return Material{}, err
	}
	material.CreatedAt = now
	material.UpdatedAt = now
	return material, nil
}

func (r *repository) Update(ctx context.Context, id int64, material Material) error {
	query := `UPDATE materials SET sku = $1, name = $2, material_type = $3, unit = $4, supplier_id = NULLIF($5,0), reorder_point = $6, unit_cost = $7, is_active = $8, updated_at = $9 WHERE id = $10`
	_, err := r.db.Exec(ctx, query, material.SKU, material.Name, material.MaterialType, material.Unit, material.SupplierID, material.ReorderPoint, material.UnitCost, material.IsActive, time.Now(), id)
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	return err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "sku":
		return "sku " + dir
	case "material_type":
		return "material_type " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
