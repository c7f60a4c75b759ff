package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/chamarodfai/POS/internal/auth"
	"github.com/chamarodfai/POS/internal/config"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
	"github.com/chamarodfai/POS/pkg/httputil"
	"github.com/chamarodfai/POS/pkg/validator"
)

// AuthHandler serves staff login. The shop runs with a single built-in
// admin account configured through the environment.
type AuthHandler struct {
	manager *auth.Manager
	cfg     config.AuthConfig
	logger  *slog.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(manager *auth.Manager, cfg config.AuthConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{manager: manager, cfg: cfg, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if req.Username != h.cfg.AdminUser || auth.VerifyPassword(h.cfg.AdminPasswordHash, req.Password) != nil {
		h.logger.WarnContext(r.Context(), "failed login attempt",
			slog.String("username", req.Username),
			slog.String("remote_addr", r.RemoteAddr),
		)
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid credentials"), h.logger)
		return
	}

	token, expiresAt, err := h.manager.Generate(req.Username, req.Username, auth.RoleAdmin)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Name:      req.Username,
		Role:      auth.RoleAdmin,
	})
}
