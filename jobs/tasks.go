package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPlanSnapshot captures a purchase plan for trend history.
	TaskPlanSnapshot = "planning:snapshot"
	// TaskCacheWarmup precomputes the planning timeline after invalidation.
	TaskCacheWarmup = "planning:warmup"
)

// PlanSnapshotPayload carries scheduling metadata for the nightly snapshot.
type PlanSnapshotPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	MinStockDays int       `json:"min_stock_days"`
}

// NewPlanSnapshotTask constructs an Asynq task for the plan snapshot job.
func NewPlanSnapshotTask(payload PlanSnapshotPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPlanSnapshot, body, asynq.Queue(QueueDefault)), nil
}

// CacheWarmupPayload selects which timeline windows to precompute.
type CacheWarmupPayload struct {
	Granularities []string `json:"granularities"`
}

// NewCacheWarmupTask constructs an Asynq task for cache warmup.
func NewCacheWarmupTask(payload CacheWarmupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCacheWarmup, body, asynq.Queue(QueueDefault)), nil
}
