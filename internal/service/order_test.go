package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chamarodfai/POS/internal/domain"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
	"github.com/chamarodfai/POS/pkg/pagination"
)

func newOrderService(orders *mockOrderRepo, carts *mockCartRepo) *OrderService {
	return NewOrderService(orders, carts, new(mockMenuRepo), new(mockPromotionRepo), nil, time.UTC, testLogger())
}

func newDirectOrderService(orders *mockOrderRepo, menu *mockMenuRepo, promos *mockPromotionRepo) *OrderService {
	return NewOrderService(orders, new(mockCartRepo), menu, promos, nil, time.UTC, testLogger())
}

func checkoutCart() *domain.Cart {
	cart := domain.NewCart("sess-1")
	cart.AddItem(&domain.MenuItem{ID: "item-1", Name: "Green Tea Latte", Price: 4500, Available: true}, 2)
	cart.AddItem(&domain.MenuItem{ID: "item-2", Name: "Brown Sugar Boba", Price: 6000, Available: true}, 1)
	cart.ApplyPromotion(&domain.Promotion{
		ID: "promo-1", Name: "20 off", Type: domain.PromotionFixed, Value: 2000, MinOrderAmount: 10000, Active: true,
	})
	return cart
}

func TestOrderServiceCheckout(t *testing.T) {
	t.Run("freezes cart into an order and clears it", func(t *testing.T) {
		orders := new(mockOrderRepo)
		carts := new(mockCartRepo)

		carts.On("Get", mock.Anything, "sess-1").Return(checkoutCart(), nil)
		orders.On("NextOrderNumber", mock.Anything, mock.Anything).Return("ORD-20260315-0001", nil)
		orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
			return o.OrderNumber == "ORD-20260315-0001" &&
				o.Subtotal == 15000 && o.Discount == 2000 && o.Total == 13000 &&
				o.Status == domain.OrderStatusCompleted
		})).Return(nil)
		carts.On("Delete", mock.Anything, "sess-1").Return(nil)

		svc := newOrderService(orders, carts)
		order, err := svc.Checkout(context.Background(), "sess-1",
			CheckoutInput{PaymentMethod: "cash"}, "staff-1")

		require.NoError(t, err)
		assert.Equal(t, "ORD-20260315-0001", order.OrderNumber)
		assert.Equal(t, int64(13000), order.Total)
		assert.Equal(t, "staff-1", order.StaffID)
		require.NotNil(t, order.Promotion)
		assert.Equal(t, "promo-1", order.Promotion.PromotionID)
		orders.AssertExpectations(t)
		carts.AssertExpectations(t)
	})

	t.Run("caller may request pending status", func(t *testing.T) {
		orders := new(mockOrderRepo)
		carts := new(mockCartRepo)

		carts.On("Get", mock.Anything, "sess-1").Return(checkoutCart(), nil)
		orders.On("NextOrderNumber", mock.Anything, mock.Anything).Return("ORD-20260315-0005", nil)
		orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderStatusPending
		})).Return(nil)
		carts.On("Delete", mock.Anything, "sess-1").Return(nil)

		svc := newOrderService(orders, carts)
		order, err := svc.Checkout(context.Background(), "sess-1",
			CheckoutInput{PaymentMethod: "cash", Status: "pending"}, "")

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
	})

	t.Run("empty cart is a validation error", func(t *testing.T) {
		carts := new(mockCartRepo)
		carts.On("Get", mock.Anything, "sess-1").Return(domain.NewCart("sess-1"), nil)

		svc := newOrderService(new(mockOrderRepo), carts)
		_, err := svc.Checkout(context.Background(), "sess-1", CheckoutInput{PaymentMethod: "cash"}, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("missing cart is a validation error", func(t *testing.T) {
		carts := new(mockCartRepo)
		carts.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))

		svc := newOrderService(new(mockOrderRepo), carts)
		_, err := svc.Checkout(context.Background(), "sess-1", CheckoutInput{PaymentMethod: "cash"}, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("unknown payment method is rejected", func(t *testing.T) {
		svc := newOrderService(new(mockOrderRepo), new(mockCartRepo))
		_, err := svc.Checkout(context.Background(), "sess-1", CheckoutInput{PaymentMethod: "crypto"}, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("cart delete failure does not fail the sale", func(t *testing.T) {
		orders := new(mockOrderRepo)
		carts := new(mockCartRepo)

		carts.On("Get", mock.Anything, "sess-1").Return(checkoutCart(), nil)
		orders.On("NextOrderNumber", mock.Anything, mock.Anything).Return("ORD-20260315-0002", nil)
		orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		carts.On("Delete", mock.Anything, "sess-1").Return(assert.AnError)

		svc := newOrderService(orders, carts)
		order, err := svc.Checkout(context.Background(), "sess-1", CheckoutInput{PaymentMethod: "qr"}, "")

		require.NoError(t, err)
		assert.Equal(t, "ORD-20260315-0002", order.OrderNumber)
	})

	t.Run("order persistence failure propagates", func(t *testing.T) {
		orders := new(mockOrderRepo)
		carts := new(mockCartRepo)

		carts.On("Get", mock.Anything, "sess-1").Return(checkoutCart(), nil)
		orders.On("NextOrderNumber", mock.Anything, mock.Anything).Return("ORD-20260315-0003", nil)
		orders.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		svc := newOrderService(orders, carts)
		_, err := svc.Checkout(context.Background(), "sess-1", CheckoutInput{PaymentMethod: "cash"}, "")

		require.Error(t, err)
		carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestOrderServiceCreate(t *testing.T) {
	latte := &domain.MenuItem{ID: "item-1", Name: "Green Tea Latte", Price: 4500, Available: true}
	boba := &domain.MenuItem{ID: "item-2", Name: "Brown Sugar Boba", Price: 6000, Available: true}

	t.Run("recomputes totals from the catalog", func(t *testing.T) {
		orders := new(mockOrderRepo)
		menu := new(mockMenuRepo)
		promos := new(mockPromotionRepo)

		menu.On("GetByID", mock.Anything, "item-1").Return(latte, nil)
		menu.On("GetByID", mock.Anything, "item-2").Return(boba, nil)
		promos.On("GetByID", mock.Anything, "promo-1").Return(&domain.Promotion{
			ID: "promo-1", Name: "20 off", Type: domain.PromotionFixed, Value: 2000, MinOrderAmount: 10000, Active: true,
		}, nil)
		orders.On("NextOrderNumber", mock.Anything, mock.Anything).Return("ORD-20260315-0006", nil)
		orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Subtotal == 15000 && o.Discount == 2000 && o.Total == 13000
		})).Return(nil)

		svc := newDirectOrderService(orders, menu, promos)
		order, err := svc.Create(context.Background(), CreateOrderInput{
			Items: []OrderLineInput{
				{MenuItemID: "item-1", Quantity: 2},
				{MenuItemID: "item-2", Quantity: 1},
			},
			PromotionID:   "promo-1",
			PaymentMethod: "cash",
		}, "staff-1")

		require.NoError(t, err)
		assert.Equal(t, int64(13000), order.Total)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
		orders.AssertExpectations(t)
	})

	t.Run("unknown menu item propagates not found", func(t *testing.T) {
		menu := new(mockMenuRepo)
		menu.On("GetByID", mock.Anything, "item-x").Return(nil, apperrors.NotFound("menu item", "item-x"))

		svc := newDirectOrderService(new(mockOrderRepo), menu, new(mockPromotionRepo))
		_, err := svc.Create(context.Background(), CreateOrderInput{
			Items:         []OrderLineInput{{MenuItemID: "item-x", Quantity: 1}},
			PaymentMethod: "cash",
		}, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("unavailable item is rejected", func(t *testing.T) {
		menu := new(mockMenuRepo)
		menu.On("GetByID", mock.Anything, "item-1").Return(&domain.MenuItem{
			ID: "item-1", Name: "Green Tea Latte", Price: 4500, Available: false,
		}, nil)

		svc := newDirectOrderService(new(mockOrderRepo), menu, new(mockPromotionRepo))
		_, err := svc.Create(context.Background(), CreateOrderInput{
			Items:         []OrderLineInput{{MenuItemID: "item-1", Quantity: 1}},
			PaymentMethod: "cash",
		}, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("empty item list is rejected", func(t *testing.T) {
		svc := newDirectOrderService(new(mockOrderRepo), new(mockMenuRepo), new(mockPromotionRepo))
		_, err := svc.Create(context.Background(), CreateOrderInput{PaymentMethod: "cash"}, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestOrderServiceNextOrderNumber(t *testing.T) {
	orders := new(mockOrderRepo)
	orders.On("PeekOrderNumber", mock.Anything, mock.Anything).Return("ORD-20260315-0042", nil)

	svc := newOrderService(orders, new(mockCartRepo))
	number, err := svc.NextOrderNumber(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ORD-20260315-0042", number)
}

func TestOrderServiceListRejectsUnknownStatusFilter(t *testing.T) {
	svc := newOrderService(new(mockOrderRepo), new(mockCartRepo))
	_, _, err := svc.List(context.Background(), pagination.Params{Page: 1, PerPage: 20}, domain.OrderStatus("shipped"))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	t.Run("valid transition is persisted", func(t *testing.T) {
		orders := new(mockOrderRepo)
		orders.On("GetByID", mock.Anything, "ord-1").
			Return(&domain.Order{ID: "ord-1", Status: domain.OrderStatusPending}, nil)
		orders.On("UpdateStatus", mock.Anything, "ord-1", domain.OrderStatusConfirmed).Return(nil)

		svc := newOrderService(orders, new(mockCartRepo))
		order, err := svc.UpdateStatus(context.Background(), "ord-1", domain.OrderStatusConfirmed)

		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
		orders.AssertExpectations(t)
	})

	t.Run("invalid transition is a conflict", func(t *testing.T) {
		orders := new(mockOrderRepo)
		orders.On("GetByID", mock.Anything, "ord-1").
			Return(&domain.Order{ID: "ord-1", Status: domain.OrderStatusCompleted}, nil)

		svc := newOrderService(orders, new(mockCartRepo))
		_, err := svc.UpdateStatus(context.Background(), "ord-1", domain.OrderStatusCancelled)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		svc := newOrderService(new(mockOrderRepo), new(mockCartRepo))
		_, err := svc.UpdateStatus(context.Background(), "ord-1", domain.OrderStatus("shipped"))

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("missing order propagates not found", func(t *testing.T) {
		orders := new(mockOrderRepo)
		orders.On("GetByID", mock.Anything, "ord-x").Return(nil, apperrors.NotFound("order", "ord-x"))

		svc := newOrderService(orders, new(mockCartRepo))
		_, err := svc.UpdateStatus(context.Background(), "ord-x", domain.OrderStatusConfirmed)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
