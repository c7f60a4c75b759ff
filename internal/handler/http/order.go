package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/internal/service"
	"github.com/chamarodfai/POS/pkg/httputil"
	"github.com/chamarodfai/POS/pkg/logger"
	"github.com/chamarodfai/POS/pkg/middleware"
	"github.com/chamarodfai/POS/pkg/pagination"
	"github.com/chamarodfai/POS/pkg/validator"
)

// OrderHandler serves checkout and the order endpoints.
type OrderHandler struct {
	orders *service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(orders *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// Checkout handles POST /checkout, finalizing the session's cart.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var input service.CheckoutInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var staffID string
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		staffID = claims.StaffID
	}

	order, err := h.orders.Checkout(logger.WithSessionID(r.Context(), id), id, input, staffID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, order)
}

// Create handles POST /orders, building an order directly from requested
// lines without a session cart. Totals are recomputed server-side.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrderInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var staffID string
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		staffID = claims.StaffID
	}

	order, err := h.orders.Create(r.Context(), input, staffID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, order)
}

// NextNumber handles GET /orders/next-number, previewing the number the next
// checkout would get.
func (h *OrderHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.orders.NextOrderNumber(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, map[string]string{"order_number": number})
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, order)
}

// List handles GET /orders with page/per_page and an optional status filter.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	status := domain.OrderStatus(r.URL.Query().Get("status"))

	orders, total, err := h.orders.List(r.Context(), params, status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK,
		httputil.NewPaginatedResponse(orders, total, params.Page, params.PerPage))
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, order)
}
