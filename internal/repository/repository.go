// Package repository defines the storage contracts the services depend on.
// Two backends implement them: postgres (with redis for carts) and sheets
// (a Google Apps Script web app). The backend is chosen once at startup.
package repository

import (
	"context"
	"time"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/pkg/pagination"
)

// MenuRepository persists the menu catalog.
type MenuRepository interface {
	// List returns menu items ordered by category then name. When
	// includeUnavailable is false only available items are returned.
	List(ctx context.Context, includeUnavailable bool) ([]domain.MenuItem, error)
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id string) error
}

// PromotionRepository persists the promotion catalog.
type PromotionRepository interface {
	List(ctx context.Context) ([]domain.Promotion, error)
	// ListActive returns promotions applicable at the given time.
	ListActive(ctx context.Context, at time.Time) ([]domain.Promotion, error)
	GetByID(ctx context.Context, id string) (*domain.Promotion, error)
	Create(ctx context.Context, promo *domain.Promotion) error
	Update(ctx context.Context, promo *domain.Promotion) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository persists finalized orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns orders newest first along with the total count. An empty
	// status returns all orders; otherwise only orders in that status.
	List(ctx context.Context, params pagination.Params, status domain.OrderStatus) ([]domain.Order, int, error)
	// ListBetween returns orders created in [start, end) for reporting.
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	// NextOrderNumber returns a unique human-readable order number for the
	// given business day, e.g. ORD-20260315-0042.
	NextOrderNumber(ctx context.Context, day time.Time) (string, error)
	// PeekOrderNumber reports the number the next checkout would get without
	// consuming it. Display-only: a concurrent checkout may still claim it.
	PeekOrderNumber(ctx context.Context, day time.Time) (string, error)
}

// CartRepository persists in-progress carts keyed by session ID.
type CartRepository interface {
	// Get returns the cart for the session, or ErrNotFound sentinel when
	// none exists.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	// Save stores the cart unconditionally, bumping its version.
	Save(ctx context.Context, cart *domain.Cart) error
	// SaveIfVersion stores the cart only if the stored version still equals
	// expectedVersion, returning ErrConflict otherwise.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int64) error
	Delete(ctx context.Context, sessionID string) error
}
