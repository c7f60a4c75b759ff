package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/internal/repository"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
)

// topItemCount is how many best-sellers a report carries.
const topItemCount = 5

// ReportService aggregates orders into sales reports.
type ReportService struct {
	orders   repository.OrderRepository
	menu     repository.MenuRepository
	location *time.Location
	logger   *slog.Logger
}

// NewReportService creates a report service. location controls where the
// day/week/month boundaries fall.
func NewReportService(
	orders repository.OrderRepository,
	menu repository.MenuRepository,
	location *time.Location,
	logger *slog.Logger,
) *ReportService {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{orders: orders, menu: menu, location: location, logger: logger}
}

// ParseDate interprets a YYYY-MM-DD string as midnight in the report
// timezone, so the requested calendar day and the window boundaries agree.
func (s *ReportService) ParseDate(raw string) (time.Time, error) {
	ref, err := time.ParseInLocation("2006-01-02", raw, s.location)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}
	return ref, nil
}

// Sales builds the report for the window containing ref: the calendar day,
// the ISO week (Monday start), or the calendar month.
func (s *ReportService) Sales(ctx context.Context, period domain.ReportPeriod, ref time.Time) (*domain.SalesReport, error) {
	if !period.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown report period %q", period))
	}

	start, end := s.window(period, ref)

	orders, err := s.orders.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load orders for report: %w", err)
	}

	costs, err := s.currentCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog costs for report: %w", err)
	}

	report := &domain.SalesReport{
		Period:   period,
		Start:    start,
		End:      end,
		TopItems: []domain.ItemSales{},
	}

	sales := map[string]*domain.ItemSales{}

	for i := range orders {
		order := &orders[i]

		report.OrderCount++
		report.Revenue += order.Total
		report.Discount += order.Discount

		for _, item := range order.Items {
			agg, ok := sales[item.MenuItemID]
			if !ok {
				agg = &domain.ItemSales{MenuItemID: item.MenuItemID, Name: item.Name}
				sales[item.MenuItemID] = agg
			}
			agg.Quantity += item.Quantity
			agg.Revenue += item.LineTotal

			// Profit uses the catalog's current cost. Items since deleted
			// from the menu still contribute revenue but no cost basis, so
			// they are left out of the profit figure.
			if cost, ok := costs[item.MenuItemID]; ok {
				report.Profit += item.LineTotal - cost*int64(item.Quantity)
			}
		}
	}

	report.TopItems = topItems(sales)

	s.logger.DebugContext(ctx, "sales report built",
		slog.String("period", string(period)),
		slog.Time("start", start),
		slog.Time("end", end),
		slog.Int("order_count", report.OrderCount),
	)

	return report, nil
}

// window computes [start, end) for the period containing ref in the
// configured timezone.
func (s *ReportService) window(period domain.ReportPeriod, ref time.Time) (time.Time, time.Time) {
	ref = ref.In(s.location)
	year, month, day := ref.Date()

	switch period {
	case domain.ReportWeekly:
		// Weeks start on Monday.
		weekday := int(ref.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := time.Date(year, month, day-(weekday-1), 0, 0, 0, 0, s.location)
		return start, start.AddDate(0, 0, 7)
	case domain.ReportMonthly:
		start := time.Date(year, month, 1, 0, 0, 0, 0, s.location)
		return start, start.AddDate(0, 1, 0)
	default:
		start := time.Date(year, month, day, 0, 0, 0, 0, s.location)
		return start, start.AddDate(0, 0, 1)
	}
}

// currentCosts returns menu item costs keyed by ID, including unavailable
// items so a sold-out product still counts toward profit.
func (s *ReportService) currentCosts(ctx context.Context) (map[string]int64, error) {
	items, err := s.menu.List(ctx, true)
	if err != nil {
		return nil, err
	}

	costs := make(map[string]int64, len(items))
	for _, item := range items {
		costs[item.ID] = item.Cost
	}
	return costs, nil
}

// topItems ranks by quantity sold, breaking ties by revenue then by ID so
// the ordering is deterministic.
func topItems(sales map[string]*domain.ItemSales) []domain.ItemSales {
	ranked := make([]domain.ItemSales, 0, len(sales))
	for _, agg := range sales {
		ranked = append(ranked, *agg)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].MenuItemID < ranked[j].MenuItemID
	})

	if len(ranked) > topItemCount {
		ranked = ranked[:topItemCount]
	}
	return ranked
}
