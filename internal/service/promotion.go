package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/internal/repository"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
)

// PromotionService manages the promotion catalog.
type PromotionService struct {
	repo   repository.PromotionRepository
	logger *slog.Logger
}

// NewPromotionService creates a promotion service.
func NewPromotionService(repo repository.PromotionRepository, logger *slog.Logger) *PromotionService {
	return &PromotionService{repo: repo, logger: logger}
}

// PromotionInput carries the writable fields of a promotion.
type PromotionInput struct {
	Name           string     `json:"name" validate:"required,min=1,max=120"`
	Description    string     `json:"description" validate:"max=500"`
	Type           string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value          int64      `json:"value" validate:"gt=0"`
	MinOrderAmount int64      `json:"min_order_amount" validate:"gte=0"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Active         bool       `json:"active"`
}

func (in *PromotionInput) validateSemantics() error {
	if domain.PromotionType(in.Type) == domain.PromotionPercentage && in.Value > 100 {
		return apperrors.InvalidInput("percentage value must not exceed 100")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return apperrors.InvalidInput("end_date must not be before start_date")
	}
	return nil
}

// List returns all promotions.
func (s *PromotionService) List(ctx context.Context) ([]domain.Promotion, error) {
	return s.repo.List(ctx)
}

// ListActive returns promotions applicable right now, for the cashier's
// promotion picker.
func (s *PromotionService) ListActive(ctx context.Context) ([]domain.Promotion, error) {
	return s.repo.ListActive(ctx, time.Now())
}

// Get returns one promotion.
func (s *PromotionService) Get(ctx context.Context, id string) (*domain.Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a new promotion.
func (s *PromotionService) Create(ctx context.Context, input PromotionInput) (*domain.Promotion, error) {
	if err := input.validateSemantics(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	promo := &domain.Promotion{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Description:    input.Description,
		Type:           domain.PromotionType(input.Type),
		Value:          input.Value,
		MinOrderAmount: input.MinOrderAmount,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Active:         input.Active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	s.logger.InfoContext(ctx, "promotion created",
		slog.String("promotion_id", promo.ID),
		slog.String("type", string(promo.Type)),
		slog.Int64("value", promo.Value),
	)

	return promo, nil
}

// Update replaces the writable fields of an existing promotion. Orders keep
// the snapshots they took at checkout.
func (s *PromotionService) Update(ctx context.Context, id string, input PromotionInput) (*domain.Promotion, error) {
	if err := input.validateSemantics(); err != nil {
		return nil, err
	}

	promo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	promo.Name = input.Name
	promo.Description = input.Description
	promo.Type = domain.PromotionType(input.Type)
	promo.Value = input.Value
	promo.MinOrderAmount = input.MinOrderAmount
	promo.StartDate = input.StartDate
	promo.EndDate = input.EndDate
	promo.Active = input.Active
	promo.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, fmt.Errorf("update promotion: %w", err)
	}

	s.logger.InfoContext(ctx, "promotion updated", slog.String("promotion_id", id))

	return promo, nil
}

// Delete removes a promotion. Carts holding it keep their attached copy
// until the next repricing.
func (s *PromotionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "promotion deleted", slog.String("promotion_id", id))
	return nil
}
