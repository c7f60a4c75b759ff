package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chamarodfai/POS/internal/domain"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
)

func TestMenuServiceCreate(t *testing.T) {
	repo := new(mockMenuRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(item *domain.MenuItem) bool {
		return item.ID != "" && item.Name == "Green Tea Latte" && item.Price == 4500
	})).Return(nil)

	svc := NewMenuService(repo, testLogger())
	item, err := svc.Create(context.Background(), MenuItemInput{
		Name:      "Green Tea Latte",
		Category:  "tea",
		Price:     4500,
		Cost:      1800,
		Available: true,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestMenuServiceUpdate(t *testing.T) {
	t.Run("updates existing item", func(t *testing.T) {
		repo := new(mockMenuRepo)
		existing := &domain.MenuItem{ID: "item-1", Name: "Old Name", Price: 4000, Category: "tea"}
		repo.On("GetByID", mock.Anything, "item-1").Return(existing, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(item *domain.MenuItem) bool {
			return item.Name == "New Name" && item.Price == 4500
		})).Return(nil)

		svc := NewMenuService(repo, testLogger())
		item, err := svc.Update(context.Background(), "item-1", MenuItemInput{
			Name: "New Name", Category: "tea", Price: 4500, Cost: 1800, Available: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "New Name", item.Name)
		repo.AssertExpectations(t)
	})

	t.Run("missing item propagates not found", func(t *testing.T) {
		repo := new(mockMenuRepo)
		repo.On("GetByID", mock.Anything, "item-x").Return(nil, apperrors.NotFound("menu item", "item-x"))

		svc := NewMenuService(repo, testLogger())
		_, err := svc.Update(context.Background(), "item-x", MenuItemInput{Name: "X", Category: "tea"})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMenuServiceSetAvailability(t *testing.T) {
	t.Run("toggles the flag", func(t *testing.T) {
		repo := new(mockMenuRepo)
		repo.On("GetByID", mock.Anything, "item-1").
			Return(&domain.MenuItem{ID: "item-1", Available: true}, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(item *domain.MenuItem) bool {
			return !item.Available
		})).Return(nil)

		svc := NewMenuService(repo, testLogger())
		item, err := svc.SetAvailability(context.Background(), "item-1", false)

		require.NoError(t, err)
		assert.False(t, item.Available)
		repo.AssertExpectations(t)
	})

	t.Run("no write when flag already matches", func(t *testing.T) {
		repo := new(mockMenuRepo)
		repo.On("GetByID", mock.Anything, "item-1").
			Return(&domain.MenuItem{ID: "item-1", Available: true}, nil)

		svc := NewMenuService(repo, testLogger())
		_, err := svc.SetAvailability(context.Background(), "item-1", true)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestMenuServiceDelete(t *testing.T) {
	repo := new(mockMenuRepo)
	repo.On("Delete", mock.Anything, "item-1").Return(nil)

	svc := NewMenuService(repo, testLogger())
	require.NoError(t, svc.Delete(context.Background(), "item-1"))
	repo.AssertExpectations(t)
}
