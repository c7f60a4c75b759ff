// Package event publishes POS domain events to Kafka so downstream
// consumers (kitchen displays, analytics) see sales as they happen.
// Publishing is best-effort: a broker outage never fails a sale.
package event

import (
	"context"
	"log/slog"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/pkg/kafka"
)

// Event types carried on the orders topic.
const (
	TypeOrderCreated       = "pos.order.created"
	TypeOrderStatusChanged = "pos.order.status_changed"
	TypeCartCheckedOut     = "pos.cart.checked_out"
)

const source = "pos"

// Publisher emits order lifecycle events. A nil *Publisher is a no-op so
// deployments without Kafka just skip publishing.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher wraps a Kafka producer for POS events.
func NewPublisher(producer *kafka.Producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

type orderCreatedPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Total       int64  `json:"total"`
	Discount    int64  `json:"discount"`
	ItemCount   int    `json:"item_count"`
	StaffID     string `json:"staff_id,omitempty"`
}

type statusChangedPayload struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	From        domain.OrderStatus `json:"from"`
	To          domain.OrderStatus `json:"to"`
}

type cartCheckedOutPayload struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
}

// OrderCreated publishes a created-order event keyed by order ID.
func (p *Publisher) OrderCreated(ctx context.Context, order *domain.Order) {
	if p == nil {
		return
	}
	p.publish(ctx, order.ID, kafka.NewEvent(TypeOrderCreated, source, orderCreatedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		Discount:    order.Discount,
		ItemCount:   len(order.Items),
		StaffID:     order.StaffID,
	}))
}

// OrderStatusChanged publishes a status transition event.
func (p *Publisher) OrderStatusChanged(ctx context.Context, order *domain.Order, from domain.OrderStatus) {
	if p == nil {
		return
	}
	p.publish(ctx, order.ID, kafka.NewEvent(TypeOrderStatusChanged, source, statusChangedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        from,
		To:          order.Status,
	}))
}

// CartCheckedOut publishes the cart-to-order handoff keyed by session so
// per-session consumers stay ordered.
func (p *Publisher) CartCheckedOut(ctx context.Context, sessionID, orderID string) {
	if p == nil {
		return
	}
	p.publish(ctx, sessionID, kafka.NewEvent(TypeCartCheckedOut, source, cartCheckedOutPayload{
		SessionID: sessionID,
		OrderID:   orderID,
	}))
}

func (p *Publisher) publish(ctx context.Context, key string, evt kafka.Event) {
	if err := p.producer.Publish(ctx, key, evt); err != nil {
		p.logger.WarnContext(ctx, "event publish failed",
			slog.String("event_type", evt.Type),
			slog.String("error", err.Error()),
		)
	}
}
