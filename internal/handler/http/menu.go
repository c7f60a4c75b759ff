package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chamarodfai/POS/internal/service"
	"github.com/chamarodfai/POS/pkg/httputil"
	"github.com/chamarodfai/POS/pkg/validator"
)

// MenuHandler serves the menu catalog endpoints.
type MenuHandler struct {
	menu   *service.MenuService
	logger *slog.Logger
}

// NewMenuHandler creates a menu handler.
func NewMenuHandler(menu *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{menu: menu, logger: logger}
}

// List handles GET /menu. ?all=true includes unavailable items.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	includeUnavailable := r.URL.Query().Get("all") == "true"

	items, err := h.menu.List(r.Context(), includeUnavailable)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, items)
}

// Get handles GET /menu/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.menu.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, item)
}

// Create handles POST /menu.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.MenuItemInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.menu.Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, item)
}

// Update handles PUT /menu/{id}.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.MenuItemInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.menu.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, item)
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

// SetAvailability handles PATCH /menu/{id}/availability.
func (h *MenuHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.menu.SetAvailability(r.Context(), chi.URLParam(r, "id"), req.Available)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, item)
}

// Delete handles DELETE /menu/{id}.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
