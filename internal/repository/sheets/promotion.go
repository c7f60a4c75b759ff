package sheets

import (
	"context"
	"time"

	"github.com/chamarodfai/POS/internal/domain"
)

// PromotionRepository implements repository.PromotionRepository against the
// sheets web app. Active filtering happens client-side because the script
// has no reliable clock configuration.
type PromotionRepository struct {
	client *Client
}

// NewPromotionRepository creates a sheets-backed promotion repository.
func NewPromotionRepository(client *Client) *PromotionRepository {
	return &PromotionRepository{client: client}
}

func (r *PromotionRepository) List(ctx context.Context) ([]domain.Promotion, error) {
	var promos []domain.Promotion
	if err := r.client.Call(ctx, "promotion.list", nil, &promos); err != nil {
		return nil, err
	}
	if promos == nil {
		promos = []domain.Promotion{}
	}
	return promos, nil
}

func (r *PromotionRepository) ListActive(ctx context.Context, at time.Time) ([]domain.Promotion, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	active := []domain.Promotion{}
	for _, p := range all {
		if p.IsActiveAt(at) {
			active = append(active, p)
		}
	}
	return active, nil
}

func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*domain.Promotion, error) {
	var promo domain.Promotion
	if err := r.client.Call(ctx, "promotion.get", map[string]string{"id": id}, &promo); err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *PromotionRepository) Create(ctx context.Context, promo *domain.Promotion) error {
	return r.client.Call(ctx, "promotion.create", promo, nil)
}

func (r *PromotionRepository) Update(ctx context.Context, promo *domain.Promotion) error {
	return r.client.Call(ctx, "promotion.update", promo, nil)
}

func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Call(ctx, "promotion.delete", map[string]string{"id": id}, nil)
}
