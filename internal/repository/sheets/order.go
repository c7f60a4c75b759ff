package sheets

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/pkg/pagination"
)

// OrderRepository implements repository.OrderRepository against the sheets
// web app.
type OrderRepository struct {
	client *Client
}

// NewOrderRepository creates a sheets-backed order repository.
func NewOrderRepository(client *Client) *OrderRepository {
	return &OrderRepository{client: client}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.client.Call(ctx, "order.create", order, nil)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := r.client.Call(ctx, "order.get", map[string]string{"id": id}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type listResult struct {
	Orders []domain.Order `json:"orders"`
	Total  int            `json:"total"`
}

func (r *OrderRepository) List(ctx context.Context, params pagination.Params, status domain.OrderStatus) ([]domain.Order, int, error) {
	var result listResult
	payload := map[string]any{"page": params.Page, "per_page": params.PerPage}
	if status != "" {
		payload["status"] = string(status)
	}
	if err := r.client.Call(ctx, "order.list", payload, &result); err != nil {
		return nil, 0, err
	}
	if result.Orders == nil {
		result.Orders = []domain.Order{}
	}
	return result.Orders, result.Total, nil
}

func (r *OrderRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	var orders []domain.Order
	payload := map[string]string{
		"start": start.UTC().Format(time.RFC3339),
		"end":   end.UTC().Format(time.RFC3339),
	}
	if err := r.client.Call(ctx, "order.list_between", payload, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	payload := map[string]string{"id": id, "status": string(status)}
	return r.client.Call(ctx, "order.update_status", payload, nil)
}

// NextOrderNumber generates ORD-YYYYMMDD-XXXX with a random hex suffix. The
// spreadsheet has no atomic counter, so uniqueness comes from randomness
// plus the unique-column check the script applies on insert.
func (r *OrderRepository) NextOrderNumber(_ context.Context, day time.Time) (string, error) {
	suffix := make([]byte, 2)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate order number suffix: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%s", day.Format("20060102"), hex.EncodeToString(suffix)), nil
}

// PeekOrderNumber returns a candidate for display. Numbers here are random,
// so the preview is a sample of the format rather than a reservation.
func (r *OrderRepository) PeekOrderNumber(ctx context.Context, day time.Time) (string, error) {
	return r.NextOrderNumber(ctx, day)
}
