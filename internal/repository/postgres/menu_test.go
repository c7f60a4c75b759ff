package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamarodfai/POS/internal/domain"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
)

var menuCols = []string{
	"id", "name", "description", "category", "price", "cost",
	"image_url", "available", "created_at", "updated_at",
}

func menuRow(mock pgxmock.PgxPoolIface, item domain.MenuItem) *pgxmock.Rows {
	return mock.NewRows(menuCols).AddRow(
		item.ID, item.Name, item.Description, item.Category, item.Price,
		item.Cost, item.ImageURL, item.Available, item.CreatedAt, item.UpdatedAt,
	)
}

func testMenuItem() domain.MenuItem {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	return domain.MenuItem{
		ID:        "6b2d1f54-0d27-4a3e-9a3e-6f1dd1a0c001",
		Name:      "Green Tea Latte",
		Category:  "tea",
		Price:     4500,
		Cost:      1800,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMenuRepositoryGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		item := testMenuItem()
		mock.ExpectQuery(`SELECT .+ FROM menu_items WHERE id = \$1`).
			WithArgs(item.ID).
			WillReturnRows(menuRow(mock, item))

		repo := NewMenuRepository(mock)
		got, err := repo.GetByID(context.Background(), item.ID)

		require.NoError(t, err)
		assert.Equal(t, item.Name, got.Name)
		assert.Equal(t, int64(4500), got.Price)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM menu_items WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(mock.NewRows(menuCols))

		repo := NewMenuRepository(mock)
		_, err = repo.GetByID(context.Background(), "missing")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMenuRepositoryList(t *testing.T) {
	t.Run("available only by default", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		item := testMenuItem()
		mock.ExpectQuery(`SELECT .+ FROM menu_items WHERE available = TRUE ORDER BY category, name`).
			WillReturnRows(menuRow(mock, item))

		repo := NewMenuRepository(mock)
		items, err := repo.List(context.Background(), false)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty catalog yields empty slice", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM menu_items ORDER BY category, name`).
			WillReturnRows(mock.NewRows(menuCols))

		repo := NewMenuRepository(mock)
		items, err := repo.List(context.Background(), true)

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestMenuRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	item := testMenuItem()
	mock.ExpectExec(`INSERT INTO menu_items`).
		WithArgs(item.ID, item.Name, item.Description, item.Category,
			item.Price, item.Cost, item.ImageURL, item.Available,
			item.CreatedAt, item.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewMenuRepository(mock)
	require.NoError(t, repo.Create(context.Background(), &item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuRepositoryUpdateMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	item := testMenuItem()
	mock.ExpectExec(`UPDATE menu_items`).
		WithArgs(item.ID, item.Name, item.Description, item.Category,
			item.Price, item.Cost, item.ImageURL, item.Available, item.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewMenuRepository(mock)
	err = repo.Update(context.Background(), &item)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMenuRepositoryDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM menu_items WHERE id = \$1`).
		WithArgs("item-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewMenuRepository(mock)
	require.NoError(t, repo.Delete(context.Background(), "item-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
