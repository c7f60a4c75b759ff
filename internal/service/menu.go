package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/internal/repository"
)

// MenuService manages the menu catalog.
type MenuService struct {
	repo   repository.MenuRepository
	logger *slog.Logger
}

// NewMenuService creates a menu service.
func NewMenuService(repo repository.MenuRepository, logger *slog.Logger) *MenuService {
	return &MenuService{repo: repo, logger: logger}
}

// MenuItemInput carries the writable fields of a menu item.
type MenuItemInput struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=500"`
	Category    string `json:"category" validate:"required,min=1,max=60"`
	Price       int64  `json:"price" validate:"gte=0"`
	Cost        int64  `json:"cost" validate:"gte=0"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Available   bool   `json:"available"`
}

// List returns menu items. Staff views pass includeUnavailable to see the
// whole catalog; the ordering screen only needs available items.
func (s *MenuService) List(ctx context.Context, includeUnavailable bool) ([]domain.MenuItem, error) {
	return s.repo.List(ctx, includeUnavailable)
}

// Get returns one menu item.
func (s *MenuService) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a new menu item to the catalog.
func (s *MenuService) Create(ctx context.Context, input MenuItemInput) (*domain.MenuItem, error) {
	if input.Cost > input.Price {
		s.logger.WarnContext(ctx, "menu item created with cost above price",
			slog.String("name", input.Name),
			slog.Int64("price", input.Price),
			slog.Int64("cost", input.Cost),
		)
	}

	now := time.Now().UTC()
	item := &domain.MenuItem{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Cost:        input.Cost,
		ImageURL:    input.ImageURL,
		Available:   input.Available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	s.logger.InfoContext(ctx, "menu item created",
		slog.String("menu_item_id", item.ID),
		slog.String("name", item.Name),
	)

	return item, nil
}

// Update replaces the writable fields of an existing menu item. Open carts
// and past orders keep the prices they snapshotted.
func (s *MenuService) Update(ctx context.Context, id string, input MenuItemInput) (*domain.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Category = input.Category
	item.Price = input.Price
	item.Cost = input.Cost
	item.ImageURL = input.ImageURL
	item.Available = input.Available
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}

	s.logger.InfoContext(ctx, "menu item updated", slog.String("menu_item_id", id))

	return item, nil
}

// Delete removes a menu item from the catalog.
func (s *MenuService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "menu item deleted", slog.String("menu_item_id", id))
	return nil
}

// SetAvailability toggles only the available flag, the common fast path for
// selling out during a shift.
func (s *MenuService) SetAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.Available == available {
		return item, nil
	}

	item.Available = available
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("set menu item availability: %w", err)
	}

	return item, nil
}
