package domain

import (
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of a finalized order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// AllowedTransitions maps each status to the statuses it may move to.
// Completed and cancelled are terminal.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := AllowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the status may move to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range AllowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PaymentMethod records how an order was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentQR       PaymentMethod = "qr"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentQR, PaymentTransfer:
		return true
	}
	return false
}

// OrderItem is an immutable line-item snapshot taken at checkout. Name and
// UnitPrice are copied from the cart so later menu edits never change what
// an order says it sold.
type OrderItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	LineTotal  int64  `json:"line_total"`
}

// PromotionSnapshot records the promotion applied at checkout, frozen so the
// order stays self-describing even if the promotion is later edited or
// deleted.
type PromotionSnapshot struct {
	PromotionID string        `json:"promotion_id"`
	Name        string        `json:"name"`
	Type        PromotionType `json:"type"`
	Value       int64         `json:"value"`
}

// Order is a finalized sale. All monetary fields are in minor units and are
// frozen at checkout time.
type Order struct {
	ID            string             `json:"id"`
	OrderNumber   string             `json:"order_number"`
	Items         []OrderItem        `json:"items"`
	Subtotal      int64              `json:"subtotal"`
	Discount      int64              `json:"discount"`
	Total         int64              `json:"total"`
	Promotion     *PromotionSnapshot `json:"promotion,omitempty"`
	Status        OrderStatus        `json:"status"`
	PaymentMethod PaymentMethod      `json:"payment_method"`
	StaffID       string             `json:"staff_id,omitempty"`
	Note          string             `json:"note,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewOrderFromCart freezes the given cart into an order. The cart must be
// non-empty; callers validate that before reaching here. An empty status
// defaults to completed, the normal outcome of a register sale.
func NewOrderFromCart(id, orderNumber string, cart *Cart, payment PaymentMethod, status OrderStatus, staffID, note string) *Order {
	if status == "" {
		status = OrderStatusCompleted
	}
	now := time.Now().UTC()

	items := make([]OrderItem, len(cart.Items))
	for i, ci := range cart.Items {
		items[i] = OrderItem{
			MenuItemID: ci.MenuItemID,
			Name:       ci.Name,
			UnitPrice:  ci.UnitPrice,
			Quantity:   ci.Quantity,
			LineTotal:  ci.LineTotal(),
		}
	}

	var promo *PromotionSnapshot
	if cart.Promotion != nil && cart.Discount > 0 {
		promo = &PromotionSnapshot{
			PromotionID: cart.Promotion.ID,
			Name:        cart.Promotion.Name,
			Type:        cart.Promotion.Type,
			Value:       cart.Promotion.Value,
		}
	}

	return &Order{
		ID:            id,
		OrderNumber:   orderNumber,
		Items:         items,
		Subtotal:      cart.Subtotal,
		Discount:      cart.Discount,
		Total:         cart.Total,
		Promotion:     promo,
		Status:        status,
		PaymentMethod: payment,
		StaffID:       staffID,
		Note:          note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Transition moves the order to the target status, enforcing the lifecycle
// rules.
func (o *Order) Transition(target OrderStatus) error {
	if !target.Valid() {
		return fmt.Errorf("unknown order status %q", target)
	}
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("cannot transition order from %s to %s", o.Status, target)
	}
	o.Status = target
	o.UpdatedAt = time.Now().UTC()
	return nil
}
