package domain

import (
	"time"
)

// PromotionType discriminates how a promotion's Value is interpreted.
type PromotionType string

const (
	// PromotionPercentage applies Value as a percent of the subtotal.
	PromotionPercentage PromotionType = "percentage"
	// PromotionFixed subtracts Value (minor units) from the subtotal.
	PromotionFixed PromotionType = "fixed"
)

// Valid reports whether t is a known promotion type.
func (t PromotionType) Valid() bool {
	return t == PromotionPercentage || t == PromotionFixed
}

// Promotion is a discount rule staff can apply to a cart. For percentage
// promotions Value is the whole percent (10 means 10%); for fixed promotions
// Value is an amount in minor units.
type Promotion struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Type        PromotionType `json:"type"`
	Value       int64         `json:"value"`
	// MinOrderAmount gates the promotion: a positive value means the cart
	// subtotal must reach it before any discount applies.
	MinOrderAmount int64      `json:"min_order_amount"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsActiveAt reports whether the promotion can be applied at time t:
// the active flag is set and t falls inside the optional date window.
func (p *Promotion) IsActiveAt(t time.Time) bool {
	if !p.Active {
		return false
	}
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.After(*p.EndDate) {
		return false
	}
	return true
}

// DiscountFor computes the discount for the given subtotal in minor units.
// An unmet minimum-order threshold yields zero (the promotion silently does
// not apply). Fixed discounts are clamped to the subtotal so the total never
// goes negative; percentage discounts truncate toward zero.
func (p *Promotion) DiscountFor(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	if p.MinOrderAmount > 0 && subtotal < p.MinOrderAmount {
		return 0
	}

	switch p.Type {
	case PromotionFixed:
		if p.Value > subtotal {
			return subtotal
		}
		if p.Value < 0 {
			return 0
		}
		return p.Value
	case PromotionPercentage:
		if p.Value <= 0 {
			return 0
		}
		return subtotal * p.Value / 100
	default:
		return 0
	}
}
