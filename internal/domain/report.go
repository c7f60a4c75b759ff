package domain

import (
	"time"
)

// ReportPeriod names the reporting window granularity.
type ReportPeriod string

const (
	ReportDaily   ReportPeriod = "daily"
	ReportWeekly  ReportPeriod = "weekly"
	ReportMonthly ReportPeriod = "monthly"
)

// Valid reports whether p is a known report period.
func (p ReportPeriod) Valid() bool {
	switch p {
	case ReportDaily, ReportWeekly, ReportMonthly:
		return true
	}
	return false
}

// ItemSales aggregates sales of one menu item over a reporting window.
type ItemSales struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Revenue    int64  `json:"revenue"`
}

// SalesReport summarizes every order in a window. Revenue and Discount come
// from order snapshots; Profit subtracts current catalog costs, so items
// deleted from the menu contribute revenue but no profit.
type SalesReport struct {
	Period     ReportPeriod `json:"period"`
	Start      time.Time    `json:"start"`
	End        time.Time    `json:"end"`
	OrderCount int          `json:"order_count"`
	Revenue    int64        `json:"revenue"`
	Discount   int64        `json:"discount"`
	Profit     int64        `json:"profit"`
	TopItems   []ItemSales  `json:"top_items"`
}
