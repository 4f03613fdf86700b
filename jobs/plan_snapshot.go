package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hidesync/hidesync/internal/planning"
)

// PlanningService is the subset of the planning service the jobs need.
type PlanningService interface {
	BuildTimeline(ctx context.Context, req planning.TimelineRequest) (planning.Timeline, error)
	CreatePlan(ctx context.Context, req planning.PlanRequest) (planning.PurchasePlan, error)
}

// PlanSnapshotter persists nightly purchase plan snapshots so the shop can
// track how its reorder pressure develops over time.
type PlanSnapshotter struct {
	service PlanningService
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

// NewPlanSnapshotter constructs the snapshot job handler.
func NewPlanSnapshotter(service PlanningService, pool *pgxpool.Pool, logger *slog.Logger) *PlanSnapshotter {
	return &PlanSnapshotter{service: service, pool: pool, logger: logger}
}

// TaskHandler exposes the snapshotter as a worker registration.
func (s *PlanSnapshotter) TaskHandler() TaskHandler {
	return TaskHandler{Type: TaskPlanSnapshot, Handler: s.Handle}
}

// Handle processes TaskPlanSnapshot tasks.
func (s *PlanSnapshotter) Handle(ctx context.Context, t *asynq.Task) error {
	var payload PlanSnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	minStockDays := payload.MinStockDays
	if minStockDays <= 0 {
		minStockDays = planning.DefaultMinStockDays
	}

	plan, err := s.service.CreatePlan(ctx, planning.PlanRequest{
		MinStockDays:   minStockDays,
		IncludePending: true,
	})
	if err != nil {
		return err
	}

	body, err := json.Marshal(plan)
	if err != nil {
		return asynq.SkipRetry
	}
	const stmt = `
INSERT INTO plan_snapshots (id, generated_at, min_stock_days, item_count, total_estimated_cost, payload)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, stmt,
		plan.ID, plan.GeneratedAt, minStockDays, len(plan.Items), plan.TotalEstimatedCost, body,
	); err != nil {
		return err
	}

	s.logger.Info("plan snapshot stored",
		slog.String("plan_id", plan.ID),
		slog.Int("items", len(plan.Items)),
		slog.Float64("total_estimated_cost", plan.TotalEstimatedCost),
	)
	return nil
}

// CacheWarmer rebuilds the cached planning timeline after the nightly jobs
// or a purchase order mutation invalidated it.
type CacheWarmer struct {
	service PlanningService
	logger  *slog.Logger
}

// NewCacheWarmer constructs the warmup job handler.
func NewCacheWarmer(service PlanningService, logger *slog.Logger) *CacheWarmer {
	return &CacheWarmer{service: service, logger: logger}
}

// TaskHandler exposes the warmer as a worker registration.
func (w *CacheWarmer) TaskHandler() TaskHandler {
	return TaskHandler{Type: TaskCacheWarmup, Handler: w.Handle}
}

// Handle processes TaskCacheWarmup tasks.
func (w *CacheWarmer) Handle(ctx context.Context, t *asynq.Task) error {
	var payload CacheWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	granularities := payload.Granularities
	if len(granularities) == 0 {
		granularities = []string{string(planning.GranularityWeek), string(planning.GranularityMonth)}
	}

	started := time.Now()
	for _, raw := range granularities {
		granularity, err := planning.ParseGranularity(raw)
		if err != nil {
			w.logger.Warn("cache warmup skipped granularity", slog.String("granularity", raw))
			continue
		}
		if _, err := w.service.BuildTimeline(ctx, planning.TimelineRequest{Granularity: granularity}); err != nil {
			return err
		}
	}
	w.logger.Info("planning cache warmed", slog.Duration("took", time.Since(started)))
	return nil
}
