package planninghttp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hidesync/hidesync/internal/planning"
)

type stubService struct {
	timeline    planning.Timeline
	timelineErr error
	plan        planning.PurchasePlan
	planErr     error

	lastTimelineReq planning.TimelineRequest
	lastPlanReq     planning.PlanRequest
}

func (s *stubService) BuildTimeline(ctx context.Context, req planning.TimelineRequest) (planning.Timeline, error) {
	s.lastTimelineReq = req
	return s.timeline, s.timelineErr
}

func (s *stubService) CreatePlan(ctx context.Context, req planning.PlanRequest) (planning.PurchasePlan, error) {
	s.lastPlanReq = req
	return s.plan, s.planErr
}

func newTestRouter(service *stubService) http.Handler {
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), service)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestHandleTimeline(t *testing.T) {
	service := &stubService{timeline: planning.Timeline{
		Granularity: planning.GranularityWeek,
		TotalCount:  2,
	}}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/planning/timeline?granularity=week&start=2025-01-01&end=2025-03-31&supplier_id=4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, planning.GranularityWeek, service.lastTimelineReq.Granularity)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), service.lastTimelineReq.Start)
	require.NotNil(t, service.lastTimelineReq.SupplierID)
	require.Equal(t, int64(4), *service.lastTimelineReq.SupplierID)

	var body planning.Timeline
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.TotalCount)
}

func TestHandleTimelineRejectsBadGranularity(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/planning/timeline?granularity=decade", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTimelineRejectsBadDate(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/planning/timeline?start=01-02-2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePlanDefaults(t *testing.T) {
	service := &stubService{plan: planning.PurchasePlan{ID: "abc"}}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/planning/plan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, planning.DefaultMinStockDays, service.lastPlanReq.MinStockDays)
	require.True(t, service.lastPlanReq.IncludePending)
}

func TestHandlePlanParsesFilters(t *testing.T) {
	service := &stubService{}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/planning/plan?min_stock_days=45&supplier_id=2&material_type=LEATHER&include_pending=false", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 45, service.lastPlanReq.MinStockDays)
	require.Equal(t, "LEATHER", service.lastPlanReq.MaterialType)
	require.False(t, service.lastPlanReq.IncludePending)
	require.NotNil(t, service.lastPlanReq.SupplierID)
	require.Equal(t, int64(2), *service.lastPlanReq.SupplierID)
}

func TestHandlePlanRejectsBadMinStockDays(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/planning/plan?min_stock_days=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePlanMissingCollaborator(t *testing.T) {
	router := newTestRouter(&stubService{planErr: planning.ErrMissingCollaborator})

	req := httptest.NewRequest(http.MethodGet, "/planning/plan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Configuration Error")
}

func TestHandleOverview(t *testing.T) {
	service := &stubService{
		timeline: planning.Timeline{TotalCount: 3},
		plan:     planning.PurchasePlan{ID: "abc"},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/planning/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Timeline planning.Timeline     `json:"timeline"`
		Plan     planning.PurchasePlan `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 3, body.Timeline.TotalCount)
	require.Equal(t, "abc", body.Plan.ID)
}

func TestHandleOverviewPropagatesGranularityError(t *testing.T) {
	router := newTestRouter(&stubService{timelineErr: planning.ErrUnsupportedGranularity})

	req := httptest.NewRequest(http.MethodGet, "/planning/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
