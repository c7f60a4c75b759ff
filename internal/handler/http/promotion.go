package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chamarodfai/POS/internal/service"
	"github.com/chamarodfai/POS/pkg/httputil"
	"github.com/chamarodfai/POS/pkg/validator"
)

// PromotionHandler serves the promotion catalog endpoints.
type PromotionHandler struct {
	promos *service.PromotionService
	logger *slog.Logger
}

// NewPromotionHandler creates a promotion handler.
func NewPromotionHandler(promos *service.PromotionService, logger *slog.Logger) *PromotionHandler {
	return &PromotionHandler{promos: promos, logger: logger}
}

// List handles GET /promotions.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	promos, err := h.promos.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, promos)
}

// ListActive handles GET /promotions/active, the cashier's picker.
func (h *PromotionHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	promos, err := h.promos.ListActive(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, promos)
}

// Get handles GET /promotions/{id}.
func (h *PromotionHandler) Get(w http.ResponseWriter, r *http.Request) {
	promo, err := h.promos.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, promo)
}

// Create handles POST /promotions.
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.PromotionInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	promo, err := h.promos.Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, promo)
}

// Update handles PUT /promotions/{id}.
func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.PromotionInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	promo, err := h.promos.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, promo)
}

// Delete handles DELETE /promotions/{id}.
func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.promos.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
