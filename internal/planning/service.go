package planning

import (
	"context"
)

// Service coordinates timeline and plan computation with the cache layer.
// The cache sits at this orchestration layer only; the bucketer and planner
// themselves always recompute from live data.
type Service struct {
	bucketer *TimelineBucketer
	planner  *PurchasePlanner
	cache    *Cache
}

// NewService wires the bucketer and planner with a Cache helper. cache may
// be nil to disable caching.
func NewService(bucketer *TimelineBucketer, planner *PurchasePlanner, cache *Cache) *Service {
	return &Service{bucketer: bucketer, planner: planner, cache: cache}
}

// BuildTimeline returns the purchase timeline for the request, cached under
// a versioned key.
func (s *Service) BuildTimeline(ctx context.Context, req TimelineRequest) (Timeline, error) {
	if s.bucketer == nil {
		return Timeline{}, ErrMissingCollaborator
	}
	if req.Granularity == "" {
		req.Granularity = GranularityMonth
	}
	if _, err := ParseGranularity(string(req.Granularity)); err != nil {
		return Timeline{}, err
	}

	key, err := s.cache.BuildKey(ctx, keyTimeline(req.Start, req.End, req.Granularity, req.SupplierID))
	if err != nil {
		return s.bucketer.BuildTimeline(ctx, req)
	}
	var timeline Timeline
	err = s.cache.FetchJSON(ctx, key, &timeline, func(ctx context.Context) (interface{}, error) {
		return s.bucketer.BuildTimeline(ctx, req)
	})
	return timeline, err
}

// CreatePlan returns the purchase plan for the request, cached under a
// versioned key.
func (s *Service) CreatePlan(ctx context.Context, req PlanRequest) (PurchasePlan, error) {
	if s.planner == nil {
		return PurchasePlan{}, ErrMissingCollaborator
	}
	if req.MinStockDays <= 0 {
		req.MinStockDays = DefaultMinStockDays
	}

	key, err := s.cache.BuildKey(ctx, keyPlan(req.MinStockDays, req.SupplierID, req.MaterialType, req.IncludePending))
	if err != nil {
		return s.planner.CreatePlan(ctx, req)
	}
	var plan PurchasePlan
	err = s.cache.FetchJSON(ctx, key, &plan, func(ctx context.Context) (interface{}, error) {
		return s.planner.CreatePlan(ctx, req)
	})
	return plan, err
}

// InvalidateCache bumps the cache version after upstream data changes.
func (s *Service) InvalidateCache(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
