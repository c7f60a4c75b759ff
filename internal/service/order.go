package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/internal/event"
	"github.com/chamarodfai/POS/internal/repository"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
	"github.com/chamarodfai/POS/pkg/pagination"
)

// OrderService finalizes carts into orders and manages the order lifecycle.
type OrderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	menu      repository.MenuRepository
	promos    repository.PromotionRepository
	publisher *event.Publisher
	location  *time.Location
	logger    *slog.Logger
}

// NewOrderService creates an order service. location sets the business-day
// boundary used for order numbering.
func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	menu repository.MenuRepository,
	promos repository.PromotionRepository,
	publisher *event.Publisher,
	location *time.Location,
	logger *slog.Logger,
) *OrderService {
	if location == nil {
		location = time.UTC
	}
	return &OrderService{
		orders:    orders,
		carts:     carts,
		menu:      menu,
		promos:    promos,
		publisher: publisher,
		location:  location,
		logger:    logger,
	}
}

// CheckoutInput carries the checkout request fields. Status defaults to
// completed, the normal outcome of a register sale; pending covers orders
// paid later.
type CheckoutInput struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash qr transfer"`
	Status        string `json:"status" validate:"omitempty,oneof=completed pending"`
	Note          string `json:"note" validate:"max=500"`
}

// Checkout freezes the session's cart into an immutable order, assigns an
// order number for the current business day, and clears the cart. An empty
// or missing cart is a validation error.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, input CheckoutInput, staffID string) (*domain.Order, error) {
	payment := domain.PaymentMethod(input.PaymentMethod)
	if !payment.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cannot check out an empty cart")
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cannot check out an empty cart")
	}

	order, err := s.finalize(ctx, cart, payment, domain.OrderStatus(input.Status), staffID, input.Note)
	if err != nil {
		return nil, err
	}

	// The sale is durable; failing to clear the cart must not fail the
	// checkout. A stale cart just gets cleared by the cashier.
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.publisher.CartCheckedOut(ctx, sessionID, order.ID)

	return order, nil
}

// OrderLineInput is one requested line of a directly created order.
type OrderLineInput struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput carries a direct order creation request. Prices and totals
// are never taken from the client; they are recomputed from the catalog.
type CreateOrderInput struct {
	Items         []OrderLineInput `json:"items" validate:"required,min=1,dive"`
	PromotionID   string           `json:"promotion_id" validate:"omitempty"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=cash qr transfer"`
	Status        string           `json:"status" validate:"omitempty,oneof=completed pending"`
	Note          string           `json:"note" validate:"max=500"`
}

// Create builds an order directly from requested lines, bypassing the session
// cart. Each line is validated against the catalog and totals are recomputed
// server-side through the same pricing rules carts use.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput, staffID string) (*domain.Order, error) {
	payment := domain.PaymentMethod(input.PaymentMethod)
	if !payment.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("order must have at least one item")
	}

	cart := domain.NewCart("")
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, apperrors.InvalidInput("quantity must be positive")
		}
		item, err := s.menu.GetByID(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if !item.Available {
			return nil, apperrors.InvalidInput(fmt.Sprintf("menu item %q is not available", item.Name))
		}
		cart.AddItem(item, line.Quantity)
	}

	if input.PromotionID != "" {
		promo, err := s.promos.GetByID(ctx, input.PromotionID)
		if err != nil {
			return nil, err
		}
		if !promo.IsActiveAt(time.Now()) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("promotion %q is not active", promo.Name))
		}
		cart.ApplyPromotion(promo)
	}

	return s.finalize(ctx, cart, payment, domain.OrderStatus(input.Status), staffID, input.Note)
}

// finalize assigns an order number, persists the frozen order and publishes
// the created event.
func (s *OrderService) finalize(ctx context.Context, cart *domain.Cart, payment domain.PaymentMethod, status domain.OrderStatus, staffID, note string) (*domain.Order, error) {
	day := time.Now().In(s.location)
	orderNumber, err := s.orders.NextOrderNumber(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("assign order number: %w", err)
	}

	order := domain.NewOrderFromCart(uuid.NewString(), orderNumber, cart, payment, status, staffID, note)

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.publisher.OrderCreated(ctx, order)

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.Int64("total", order.Total),
		slog.Int("items", len(order.Items)),
	)

	return order, nil
}

// Get returns one order.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns orders newest first with the total count, optionally filtered
// by status.
func (s *OrderService) List(ctx context.Context, params pagination.Params, status domain.OrderStatus) ([]domain.Order, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", status))
	}
	return s.orders.List(ctx, params, status)
}

// NextOrderNumber previews the number the next checkout today would receive.
func (s *OrderService) NextOrderNumber(ctx context.Context) (string, error) {
	return s.orders.PeekOrderNumber(ctx, time.Now().In(s.location))
}

// UpdateStatus transitions an order through its lifecycle, rejecting moves
// the lifecycle rules do not allow.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, target domain.OrderStatus) (*domain.Order, error) {
	if !target.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", target))
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.Transition(target); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}

	if err := s.orders.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}

	s.publisher.OrderStatusChanged(ctx, order, from)

	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(target)),
	)

	return order, nil
}
