// Package http wires the POS API surface: menu and promotion catalogs,
// session carts, checkout, orders and sales reports.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chamarodfai/POS/internal/auth"
	"github.com/chamarodfai/POS/pkg/health"
	"github.com/chamarodfai/POS/pkg/middleware"
)

// RouterConfig bundles everything the router needs.
type RouterConfig struct {
	Logger         *slog.Logger
	TokenValidator middleware.TokenValidator
	Health         *health.Handler
	CORS           middleware.CORSConfig
	RateLimitRPS   float64
	RateLimitBurst int

	Auth      *AuthHandler
	Menu      *MenuHandler
	Promotion *PromotionHandler
	Cart      *CartHandler
	Order     *OrderHandler
	Report    *ReportHandler
}

// NewRouter assembles the full route tree. Catalog reads are public so the
// ordering screen works before login; everything that moves money requires
// a staff token, and catalog writes plus reports require the admin role.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", cfg.Auth.Login)

		r.Get("/menu-items", cfg.Menu.List)
		r.Get("/menu-items/{id}", cfg.Menu.Get)
		r.Get("/promotions/active", cfg.Promotion.ListActive)

		// Staff routes: carts, checkout, order handling.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.TokenValidator))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.Get)
				r.Delete("/", cfg.Cart.Clear)
				r.Post("/items", cfg.Cart.AddItem)
				r.Put("/items/{menuItemID}", cfg.Cart.SetQuantity)
				r.Delete("/items/{menuItemID}", cfg.Cart.RemoveItem)
				r.Post("/promotion", cfg.Cart.ApplyPromotion)
				r.Delete("/promotion", cfg.Cart.RemovePromotion)
			})

			r.Post("/checkout", cfg.Order.Checkout)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", cfg.Order.List)
				r.Post("/", cfg.Order.Create)
				r.Get("/next-number", cfg.Order.NextNumber)
				r.Get("/{id}", cfg.Order.Get)
				r.Patch("/{id}/status", cfg.Order.UpdateStatus)
			})
		})

		// Admin routes: catalog management and reporting.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.TokenValidator))
			r.Use(middleware.RequireRole(auth.RoleAdmin))

			r.Post("/menu-items", cfg.Menu.Create)
			r.Put("/menu-items/{id}", cfg.Menu.Update)
			r.Patch("/menu-items/{id}/availability", cfg.Menu.SetAvailability)
			r.Delete("/menu-items/{id}", cfg.Menu.Delete)

			r.Get("/promotions", cfg.Promotion.List)
			r.Get("/promotions/{id}", cfg.Promotion.Get)
			r.Post("/promotions", cfg.Promotion.Create)
			r.Put("/promotions/{id}", cfg.Promotion.Update)
			r.Delete("/promotions/{id}", cfg.Promotion.Delete)

			r.Get("/reports/sales", cfg.Report.Sales)
		})
	})

	return r
}
