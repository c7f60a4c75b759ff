package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chamarodfai/POS/internal/service"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
	"github.com/chamarodfai/POS/pkg/httputil"
	"github.com/chamarodfai/POS/pkg/logger"
	"github.com/chamarodfai/POS/pkg/validator"
)

// sessionIDHeader identifies the POS terminal session owning the cart.
const sessionIDHeader = "X-Session-ID"

// CartHandler serves the session cart endpoints. Every route requires the
// session header.
type CartHandler struct {
	cart   *service.CartService
	logger *slog.Logger
}

// NewCartHandler creates a cart handler.
func NewCartHandler(cart *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

// sessionID extracts the session header, writing an error when missing.
func sessionID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	id := r.Header.Get(sessionIDHeader)
	if id == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing "+sessionIDHeader+" header"), log)
		return "", false
	}
	return id, true
}

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cart.Get(logger.WithSessionID(r.Context(), id), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, cart)
}

type addItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// AddItem handles POST /cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req addItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.cart.AddItem(logger.WithSessionID(r.Context(), id), id, req.MenuItemID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, cart)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity handles PUT /cart/items/{menuItemID}. A quantity of zero or
// less removes the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.cart.SetQuantity(logger.WithSessionID(r.Context(), id), id, chi.URLParam(r, "menuItemID"), req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/{menuItemID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cart.RemoveItem(logger.WithSessionID(r.Context(), id), id, chi.URLParam(r, "menuItemID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, cart)
}

type applyPromotionRequest struct {
	PromotionID string `json:"promotion_id" validate:"required,uuid"`
}

// ApplyPromotion handles POST /cart/promotion.
func (h *CartHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	var req applyPromotionRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.cart.ApplyPromotion(logger.WithSessionID(r.Context(), id), id, req.PromotionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, cart)
}

// RemovePromotion handles DELETE /cart/promotion.
func (h *CartHandler) RemovePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cart.RemovePromotion(logger.WithSessionID(r.Context(), id), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, cart)
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cart.Clear(logger.WithSessionID(r.Context(), id), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, cart)
}
