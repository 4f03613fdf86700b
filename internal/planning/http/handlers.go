// Package planninghttp exposes the purchase planning endpoints.
package planninghttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hidesync/hidesync/internal/planning"
	"github.com/hidesync/hidesync/internal/platform/httpx"
)

const requestTimeout = 5 * time.Second

// PlanningService defines the planning data contract used by the handler.
type PlanningService interface {
	BuildTimeline(ctx context.Context, req planning.TimelineRequest) (planning.Timeline, error)
	CreatePlan(ctx context.Context, req planning.PlanRequest) (planning.PurchasePlan, error)
}

// Handler coordinates HTTP requests for purchase planning.
type Handler struct {
	logger  *slog.Logger
	service PlanningService
}

// NewHandler constructs the planning HTTP handler.
func NewHandler(logger *slog.Logger, service PlanningService) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	req, err := parseTimelineRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	timeline, err := h.service.BuildTimeline(ctx, req)
	if err != nil {
		h.respondPlanningError(w, "build timeline", err)
		return
	}
	httpx.JSON(w, http.StatusOK, timeline)
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	req, err := parsePlanRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	plan, err := h.service.CreatePlan(ctx, req)
	if err != nil {
		h.respondPlanningError(w, "create plan", err)
		return
	}
	httpx.JSON(w, http.StatusOK, plan)
}

// handleOverview loads the timeline and the plan concurrently for the
// procurement dashboard.
func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	timelineReq, err := parseTimelineRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	planReq, err := parsePlanRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var (
		timeline planning.Timeline
		plan     planning.PurchasePlan
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		timeline, err = h.service.BuildTimeline(groupCtx, timelineReq)
		return err
	})
	group.Go(func() error {
		var err error
		plan, err = h.service.CreatePlan(groupCtx, planReq)
		return err
	})
	if err := group.Wait(); err != nil {
		h.respondPlanningError(w, "load overview", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"timeline": timeline,
		"plan":     plan,
	})
}

func (h *Handler) respondPlanningError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, planning.ErrUnsupportedGranularity):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, planning.ErrMissingCollaborator):
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Configuration Error", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func parseTimelineRequest(r *http.Request) (planning.TimelineRequest, error) {
	req := planning.TimelineRequest{Granularity: planning.GranularityMonth}
	query := r.URL.Query()

	if raw := query.Get("granularity"); raw != "" {
		granularity, err := planning.ParseGranularity(raw)
		if err != nil {
			return planning.TimelineRequest{}, err
		}
		req.Granularity = granularity
	}
	if raw := query.Get("start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return planning.TimelineRequest{}, errors.New("start must be YYYY-MM-DD")
		}
		req.Start = start
	}
	if raw := query.Get("end"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return planning.TimelineRequest{}, errors.New("end must be YYYY-MM-DD")
		}
		req.End = end
	}
	if raw := query.Get("supplier_id"); raw != "" {
		supplierID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || supplierID <= 0 {
			return planning.TimelineRequest{}, errors.New("supplier_id must be a positive integer")
		}
		req.SupplierID = &supplierID
	}
	return req, nil
}

func parsePlanRequest(r *http.Request) (planning.PlanRequest, error) {
	req := planning.PlanRequest{
		MinStockDays:   planning.DefaultMinStockDays,
		IncludePending: true,
	}
	query := r.URL.Query()

	if raw := query.Get("min_stock_days"); raw != "" {
		minStockDays, err := strconv.Atoi(raw)
		if err != nil || minStockDays <= 0 {
			return planning.PlanRequest{}, errors.New("min_stock_days must be a positive integer")
		}
		req.MinStockDays = minStockDays
	}
	if raw := query.Get("supplier_id"); raw != "" {
		supplierID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || supplierID <= 0 {
			return planning.PlanRequest{}, errors.New("supplier_id must be a positive integer")
		}
		req.SupplierID = &supplierID
	}
	req.MaterialType = query.Get("material_type")
	if raw := query.Get("include_pending"); raw != "" {
		includePending, err := strconv.ParseBool(raw)
		if err != nil {
			return planning.PlanRequest{}, errors.New("include_pending must be a boolean")
		}
		req.IncludePending = includePending
	}
	return req, nil
}
