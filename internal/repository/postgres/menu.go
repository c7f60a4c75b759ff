package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chamarodfai/POS/internal/domain"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
	"github.com/chamarodfai/POS/pkg/database"
)

// MenuRepository is the PostgreSQL implementation of repository.MenuRepository.
type MenuRepository struct {
	db database.DBTX
}

// NewMenuRepository creates a PostgreSQL-backed menu repository.
func NewMenuRepository(db database.DBTX) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuColumns = `id, name, description, category, price, cost, image_url, available, created_at, updated_at`

func scanMenuItem(row pgx.Row, item *domain.MenuItem) error {
	return row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.Price,
		&item.Cost,
		&item.ImageURL,
		&item.Available,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

// List returns menu items ordered by category then name.
func (r *MenuRepository) List(ctx context.Context, includeUnavailable bool) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items`
	if !includeUnavailable {
		query += ` WHERE available = TRUE`
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := scanMenuItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}

	return items, nil
}

// GetByID fetches one menu item.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id)

	var item domain.MenuItem
	if err := scanMenuItem(row, &item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("menu item", id)
		}
		return nil, fmt.Errorf("get menu item %s: %w", id, err)
	}

	return &item, nil
}

// Create inserts a new menu item.
func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_items (id, name, description, category, price, cost, image_url, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		item.ID, item.Name, item.Description, item.Category,
		item.Price, item.Cost, item.ImageURL, item.Available,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of a menu item.
func (r *MenuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, category = $4, price = $5, cost = $6,
		    image_url = $7, available = $8, updated_at = $9
		WHERE id = $1`,
		item.ID, item.Name, item.Description, item.Category,
		item.Price, item.Cost, item.ImageURL, item.Available, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update menu item %s: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("menu item", item.ID)
	}
	return nil
}

// Delete removes a menu item. Past orders keep their own snapshots, so
// deletion never rewrites history.
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("menu item", id)
	}
	return nil
}
