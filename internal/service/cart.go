package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/internal/repository"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
)

// casRetries bounds how often a cart mutation retries after losing an
// optimistic-lock race to another terminal on the same session.
const casRetries = 3

// CartService mutates session carts. Every mutation runs a read-modify-write
// cycle guarded by the cart version, so concurrent updates from two
// terminals never silently drop each other's changes.
type CartService struct {
	carts  repository.CartRepository
	menu   repository.MenuRepository
	promos repository.PromotionRepository
	logger *slog.Logger
}

// NewCartService creates a cart service.
func NewCartService(
	carts repository.CartRepository,
	menu repository.MenuRepository,
	promos repository.PromotionRepository,
	logger *slog.Logger,
) *CartService {
	return &CartService{carts: carts, menu: menu, promos: promos, logger: logger}
}

// Get returns the cart for the session. A session with no stored cart gets
// a fresh empty one; it is not persisted until the first mutation.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(sessionID), nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity units of a menu item to the cart.
func (s *CartService) AddItem(ctx context.Context, sessionID, menuItemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}

	item, err := s.menu.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, apperrors.InvalidInput(fmt.Sprintf("menu item %q is not available", item.Name))
	}

	return s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		cart.AddItem(item, quantity)
		return nil
	})
}

// RemoveItem removes a line from the cart. Removing an absent item is a
// no-op that still returns the current cart.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, menuItemID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		cart.RemoveItem(menuItemID)
		return nil
	})
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, menuItemID string, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		cart.SetQuantity(menuItemID, quantity)
		return nil
	})
}

// ApplyPromotion attaches a promotion to the cart. The promotion must exist
// and be active right now; the minimum-order threshold is not checked here
// because the cart may still grow to meet it.
func (s *CartService) ApplyPromotion(ctx context.Context, sessionID, promotionID string) (*domain.Cart, error) {
	promo, err := s.promos.GetByID(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if !promo.IsActiveAt(time.Now()) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("promotion %q is not active", promo.Name))
	}

	return s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		cart.ApplyPromotion(promo)
		return nil
	})
}

// RemovePromotion detaches any promotion from the cart.
func (s *CartService) RemovePromotion(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		cart.RemovePromotion()
		return nil
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
}

// mutate runs a read-modify-write cycle with optimistic locking, retrying a
// bounded number of times when another writer wins the race.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	var lastErr error

	for attempt := 0; attempt < casRetries; attempt++ {
		cart, err := s.carts.Get(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			cart = domain.NewCart(sessionID)
		}

		expected := cart.Version
		if err := fn(cart); err != nil {
			return nil, err
		}

		err = s.carts.SaveIfVersion(ctx, cart, expected)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}

		lastErr = err
		s.logger.DebugContext(ctx, "cart version conflict, retrying",
			slog.String("session_id", sessionID),
			slog.Int("attempt", attempt+1),
		)
	}

	return nil, lastErr
}
