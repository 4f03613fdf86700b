package planning

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestService(t *testing.T, store *memoryOrderStore, inv *memoryInventory, cat *memoryCatalog) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	bucketer := NewTimelineBucketer(store)
	bucketer.WithNow(func() time.Time { return day(2025, 6, 15) })
	planner := NewPurchasePlanner(inv, cat, nil, store, nil)
	planner.WithNow(func() time.Time { return day(2025, 6, 15) })

	svc := NewService(bucketer, planner, cache)
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestBuildTimelineCaches(t *testing.T) {
	store := &memoryOrderStore{orders: []PurchaseOrderSummary{
		{ID: 1, Supplier: "Buckleguy", OrderDate: day(2025, 6, 10), Total: 42},
	}}
	svc, cleanup := newTestService(t, store, &memoryInventory{}, &memoryCatalog{})
	defer cleanup()

	ctx := context.Background()
	req := TimelineRequest{Start: day(2025, 6, 1), End: day(2025, 6, 30), Granularity: GranularityWeek}

	timeline, err := svc.BuildTimeline(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timeline.TotalCount != 1 {
		t.Fatalf("expected 1 order, got %d", timeline.TotalCount)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected 1 store call, got %d", store.listCalls)
	}

	// Second call should hit the cache.
	if _, err := svc.BuildTimeline(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected cached result, store called %d times", store.listCalls)
	}

	// Bumping the version should trigger a recompute.
	if err := svc.InvalidateCache(ctx); err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if _, err := svc.BuildTimeline(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.listCalls != 2 {
		t.Fatalf("expected store refresh, calls %d", store.listCalls)
	}
}

func TestBuildTimelineRejectsUnknownGranularity(t *testing.T) {
	svc, cleanup := newTestService(t, &memoryOrderStore{}, &memoryInventory{}, &memoryCatalog{})
	defer cleanup()

	_, err := svc.BuildTimeline(context.Background(), TimelineRequest{Granularity: "fortnight"})
	if err != ErrUnsupportedGranularity {
		t.Fatalf("expected ErrUnsupportedGranularity, got %v", err)
	}
}

func TestCreatePlanCachesAndDefaults(t *testing.T) {
	inv := &memoryInventory{snapshots: []StockSnapshot{{MaterialID: 1, Quantity: 5}}}
	cat := &memoryCatalog{attrs: map[int64]MaterialAttributes{
		1: {ID: 1, Name: "Rivets", ReorderPoint: 20, UnitCost: 0.1},
	}}
	svc, cleanup := newTestService(t, &memoryOrderStore{}, inv, cat)
	defer cleanup()

	ctx := context.Background()
	plan, err := svc.CreatePlan(ctx, PlanRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(plan.Items))
	}

	// A cache round trip must preserve the computed plan.
	cached, err := svc.CreatePlan(ctx, PlanRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached.ID != plan.ID {
		t.Fatalf("expected cached plan %s, got %s", plan.ID, cached.ID)
	}
	if cached.Items[0].RecommendedQty != plan.Items[0].RecommendedQty {
		t.Fatalf("cached plan diverged")
	}
}

func TestServiceWorksWithoutCache(t *testing.T) {
	store := &memoryOrderStore{}
	bucketer := NewTimelineBucketer(store)
	planner := NewPurchasePlanner(&memoryInventory{}, &memoryCatalog{}, nil, nil, nil)
	svc := NewService(bucketer, planner, nil)

	if _, err := svc.BuildTimeline(context.Background(), TimelineRequest{Start: day(2025, 1, 1), End: day(2025, 1, 31)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreatePlan(context.Background(), PlanRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.InvalidateCache(context.Background()); err != nil {
		t.Fatalf("nil cache bump should be a no-op: %v", err)
	}
}
