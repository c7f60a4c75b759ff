package sheets

import (
	"context"

	"github.com/chamarodfai/POS/internal/domain"
)

// MenuRepository implements repository.MenuRepository against the sheets
// web app.
type MenuRepository struct {
	client *Client
}

// NewMenuRepository creates a sheets-backed menu repository.
func NewMenuRepository(client *Client) *MenuRepository {
	return &MenuRepository{client: client}
}

func (r *MenuRepository) List(ctx context.Context, includeUnavailable bool) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	payload := map[string]bool{"include_unavailable": includeUnavailable}
	if err := r.client.Call(ctx, "menu.list", payload, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := r.client.Call(ctx, "menu.get", map[string]string{"id": id}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	return r.client.Call(ctx, "menu.create", item, nil)
}

func (r *MenuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	return r.client.Call(ctx, "menu.update", item, nil)
}

func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	return r.client.Call(ctx, "menu.delete", map[string]string{"id": id}, nil)
}
