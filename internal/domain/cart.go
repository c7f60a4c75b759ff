package domain

import (
	"time"
)

// CartItem is one line in a cart. UnitPrice is snapshotted from the menu
// item at the moment it is added, so later menu edits do not reprice open
// carts.
type CartItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
}

// LineTotal returns UnitPrice * Quantity in minor units.
func (i *CartItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Cart is the in-progress order for one terminal session. Every mutation
// recomputes Subtotal, Discount and Total so the stored totals are always
// consistent with the items and promotion.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Promotion *Promotion `json:"promotion,omitempty"`
	Subtotal  int64      `json:"subtotal"`
	Discount  int64      `json:"discount"`
	Total     int64      `json:"total"`
	// Version increments on every save and backs optimistic locking in the
	// cart store.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart creates an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []CartItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// AddItem adds quantity units of the menu item to the cart. If the item is
// already present the quantities merge into a single line.
func (c *Cart) AddItem(item *MenuItem, quantity int) {
	for i := range c.Items {
		if c.Items[i].MenuItemID == item.ID {
			c.Items[i].Quantity += quantity
			c.recalculate()
			return
		}
	}

	c.Items = append(c.Items, CartItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
	})
	c.recalculate()
}

// RemoveItem removes the line for the given menu item. Removing an item that
// is not in the cart is a no-op.
func (c *Cart) RemoveItem(menuItemID string) {
	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recalculate()
			return
		}
	}
}

// SetQuantity replaces the quantity of the given line. A quantity of zero or
// less removes the line. Setting a quantity on an item that is not in the
// cart is a no-op.
func (c *Cart) SetQuantity(menuItemID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(menuItemID)
		return
	}
	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID {
			c.Items[i].Quantity = quantity
			c.recalculate()
			return
		}
	}
}

// ApplyPromotion attaches a promotion to the cart and recomputes totals.
// The promotion stays attached even while its minimum-order threshold is
// unmet; in that state the discount is simply zero.
func (c *Cart) ApplyPromotion(p *Promotion) {
	c.Promotion = p
	c.recalculate()
}

// RemovePromotion detaches the promotion and recomputes totals.
func (c *Cart) RemovePromotion() {
	c.Promotion = nil
	c.recalculate()
}

// Clear empties the cart and detaches any promotion.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Promotion = nil
	c.recalculate()
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// recalculate recomputes Subtotal, Discount and Total from scratch. The
// total is floored at zero even though the discount rules already prevent a
// negative result.
func (c *Cart) recalculate() {
	var subtotal int64
	for i := range c.Items {
		subtotal += c.Items[i].LineTotal()
	}
	c.Subtotal = subtotal

	c.Discount = 0
	if c.Promotion != nil {
		c.Discount = c.Promotion.DiscountFor(subtotal)
	}

	c.Total = subtotal - c.Discount
	if c.Total < 0 {
		c.Total = 0
	}

	c.UpdatedAt = time.Now().UTC()
}
