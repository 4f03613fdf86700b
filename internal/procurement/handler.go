package procurement

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

// Handler manages procurement endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers procurement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/purchase-orders", h.handleList)
	r.Get("/purchase-orders/{id}", h.handleGet)
	r.Post("/purchase-orders", h.handleCreate)
	r.Post("/purchase-orders/{id}/status", h.handleUpdateStatus)
}

type poLineForm struct {
	MaterialID int64   `json:"material_id" validate:"required,gt=0"`
	Name       string  `json:"name"`
	Qty        float64 `json:"qty" validate:"required,gt=0"`
	Price      float64 `json:"price" validate:"gte=0"`
}

type poForm struct {
	Number       string       `json:"number"`
	SupplierID   int64        `json:"supplier_id" validate:"required,gt=0"`
	OrderDate    string       `json:"order_date"`
	DeliveryDate string       `json:"delivery_date"`
	Note         string       `json:"note"`
	Lines        []poLineForm `json:"lines" validate:"required,min=1,dive"`
}

type statusForm struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	supplierID, _ := strconv.ParseInt(r.URL.Query().Get("supplier_id"), 10, 64)

	filters := ListFilters{SupplierID: supplierID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status")
			return
		}
		filters.Status = status
	}

	items, total, err := h.service.ListPurchaseOrders(r.Context(), limit, offset, filters)
	if err != nil {
		h.logger.Error("list purchase orders", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"purchase_orders": items,
		"total":           total,
		"limit":           limit,
		"offset":          offset,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid purchase order ID")
		return
	}
	po, lines, err := h.service.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "purchase order not found")
			return
		}
		h.logger.Error("get purchase order", slog.Any("error", err), slog.Int64("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"purchase_order": po, "lines": lines})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var form poForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := CreatePOInput{
		Number:     form.Number,
		SupplierID: form.SupplierID,
		Note:       form.Note,
	}
	if form.OrderDate != "" {
		orderDate, err := time.Parse("2006-01-02", form.OrderDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "order_date must be YYYY-MM-DD")
			return
		}
		input.OrderDate = orderDate
	}
	if form.DeliveryDate != "" {
		deliveryDate, err := time.Parse("2006-01-02", form.DeliveryDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "delivery_date must be YYYY-MM-DD")
			return
		}
		input.DeliveryDate = deliveryDate
	}
	for _, line := range form.Lines {
		input.Lines = append(input.Lines, POLineInput(line))
	}

	po, err := h.service.CreatePurchaseOrder(r.Context(), input)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("create purchase order", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, po)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid purchase order ID")
		return
	}
	var form statusForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	status, err := ParseStatus(form.Status)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status")
		return
	}
	if err := h.service.UpdateStatus(r.Context(), id, status); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "purchase order not found")
		case errors.Is(err, ErrInvalidState):
			httpx.Problem(w, http.StatusConflict, "Invalid State", err.Error())
		default:
			h.logger.Error("update purchase order status", slog.Any("error", err), slog.Int64("id", id))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": status})
}
