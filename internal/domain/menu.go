package domain

import (
	"time"
)

// MenuItem is a sellable product on the shop menu. Price and Cost are in
// minor currency units (satang) to keep arithmetic exact.
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Cost        int64     `json:"cost"`
	ImageURL    string    `json:"image_url,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Margin returns the per-unit profit in minor units.
func (m *MenuItem) Margin() int64 {
	return m.Price - m.Cost
}
