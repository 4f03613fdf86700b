package materials

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hidesync/hidesync/internal/platform/httpx"
	"github.com/hidesync/hidesync/internal/shared"
)

// Handler serves the material catalog endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers material routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/materials", h.handleList)
	r.Get("/materials/{id}", h.handleGet)
	r.Post("/materials", h.handleCreate)
	r.Put("/materials/{id}", h.handleUpdate)
	r.Delete("/materials/{id}", h.handleDelete)
}

type materialForm struct {
	SKU          string  `json:"sku" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	MaterialType string  `json:"material_type" validate:"required,oneof=LEATHER HARDWARE SUPPLIES"`
	Unit         string  `json:"unit" validate:"required"`
	SupplierID   int64   `json:"supplier_id"`
	ReorderPoint float64 `json:"reorder_point" validate:"gte=0"`
	UnitCost     float64 `json:"unit_cost" validate:"gte=0"`
	IsActive     bool    `json:"is_active"`
}

func (form materialForm) toMaterial() Material {
	return Material{
		SKU:          form.SKU,
		Name:         form.Name,
		MaterialType: MaterialType(form.MaterialType),
		Unit:         form.Unit,
		SupplierID:   form.SupplierID,
		ReorderPoint: form.ReorderPoint,
		UnitCost:     form.UnitCost,
		IsActive:     form.IsActive,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = shared.DefaultPage
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = shared.DefaultLimit
	}

	filters := shared.ListFilters{
		Page:         page,
		Limit:        limit,
		Search:       r.URL.Query().Get("search"),
		SortBy:       r.URL.Query().Get("sort"),
		SortDir:      r.URL.Query().Get("dir"),
		MaterialType: r.URL.Query().Get("material_type"),
	}
	if raw := r.URL.Query().Get("supplier_id"); raw != "" {
		if supplierID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.SupplierID = &supplierID
		}
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list materials failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"materials": items,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid material ID")
		return
	}
	material, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "material not found")
			return
		}
		h.logger.Error("get material failed", "error", err, "id", id)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, material)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var form materialForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), form.toMaterial())
	if err != nil {
		if errors.Is(err, ErrDuplicateSKU) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "sku already exists")
			return
		}
		h.logger.Error("create material failed", "error", err)
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid material ID")
		return
	}
	var form materialForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Update(r.Context(), id, form.toMaterial()); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "material not found")
			return
		}
		h.logger.Error("update material failed", "error", err, "id", id)
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid material ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete material failed", "error", err, "id", id)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": true})
}
