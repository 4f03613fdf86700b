package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hidesync/hidesync/internal/inventory"
	"github.com/hidesync/hidesync/internal/materials"
	"github.com/hidesync/hidesync/internal/observability"
	planninghttp "github.com/hidesync/hidesync/internal/planning/http"
	"github.com/hidesync/hidesync/internal/procurement"
	"github.com/hidesync/hidesync/internal/suppliers"
	"github.com/hidesync/hidesync/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SuppliersHandler   *suppliers.Handler
	MaterialsHandler   *materials.Handler
	InventoryHandler   *inventory.Handler
	ProcurementHandler *procurement.Handler
	PlanningHandler    *planninghttp.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with HideSync defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		if params.SuppliersHandler != nil {
			params.SuppliersHandler.MountRoutes(api)
		}
		if params.MaterialsHandler != nil {
			params.MaterialsHandler.MountRoutes(api)
		}
		if params.InventoryHandler != nil {
			params.InventoryHandler.MountRoutes(api)
		}
		if params.ProcurementHandler != nil {
			params.ProcurementHandler.MountRoutes(api)
		}
		if params.PlanningHandler != nil {
			params.PlanningHandler.MountRoutes(api)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
