package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hidesync/hidesync/internal/platform/httpx"
)

// Handler serves inventory endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/inventory", h.handleListSnapshots)
	r.Get("/inventory/{materialID}", h.handleGetSnapshot)
	r.Get("/inventory/{materialID}/transactions", h.handleListTransactions)
	r.Post("/inventory/adjustments", h.handlePostAdjustment)
}

type adjustmentForm struct {
	MaterialID int64   `json:"material_id" validate:"required,gt=0"`
	Type       string  `json:"type" validate:"required,oneof=IN OUT ADJUST"`
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
	Note       string  `json:"note"`
	OccurredAt string  `json:"occurred_at"`
}

func (h *Handler) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.service.ListSnapshots(r.Context(), r.URL.Query().Get("material_type"))
	if err != nil {
		h.logger.Error("list snapshots failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"snapshots": snapshots})
}

func (h *Handler) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	materialID, err := strconv.ParseInt(chi.URLParam(r, "materialID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid material ID")
		return
	}
	snapshot, err := h.service.GetSnapshot(r.Context(), materialID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no snapshot for material")
			return
		}
		h.logger.Error("get snapshot failed", "error", err, "material_id", materialID)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	materialID, err := strconv.ParseInt(chi.URLParam(r, "materialID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid material ID")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	txns, err := h.service.ListTransactions(r.Context(), materialID, limit)
	if err != nil {
		h.logger.Error("list transactions failed", "error", err, "material_id", materialID)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

func (h *Handler) handlePostAdjustment(w http.ResponseWriter, r *http.Request) {
	var form adjustmentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := AdjustmentInput{
		MaterialID: form.MaterialID,
		Type:       TransactionType(form.Type),
		Quantity:   form.Quantity,
		Note:       form.Note,
	}
	if form.OccurredAt != "" {
		occurredAt, err := time.Parse(time.RFC3339, form.OccurredAt)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "occurred_at must be RFC3339")
			return
		}
		input.OccurredAt = occurredAt
	}
	txn, err := h.service.PostAdjustment(r.Context(), input)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("post adjustment failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, txn)
}
