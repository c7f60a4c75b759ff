package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chamarodfai/POS/internal/domain"
	"github.com/chamarodfai/POS/pkg/database"
	apperrors "github.com/chamarodfai/POS/pkg/errors"
)

// PromotionRepository is the PostgreSQL implementation of
// repository.PromotionRepository.
type PromotionRepository struct {
	db database.DBTX
}

// NewPromotionRepository creates a PostgreSQL-backed promotion repository.
func NewPromotionRepository(db database.DBTX) *PromotionRepository {
	return &PromotionRepository{db: db}
}

const promotionColumns = `id, name, description, type, value, min_order_amount, start_date, end_date, active, created_at, updated_at`

func scanPromotion(row pgx.Row, p *domain.Promotion) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Type,
		&p.Value,
		&p.MinOrderAmount,
		&p.StartDate,
		&p.EndDate,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *PromotionRepository) queryPromotions(ctx context.Context, query string, args ...any) ([]domain.Promotion, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	promos := []domain.Promotion{}
	for rows.Next() {
		var p domain.Promotion
		if err := scanPromotion(rows, &p); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotions: %w", err)
	}

	return promos, nil
}

// List returns all promotions, newest first.
func (r *PromotionRepository) List(ctx context.Context) ([]domain.Promotion, error) {
	return r.queryPromotions(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC`)
}

// ListActive returns promotions whose active flag is set and whose optional
// date window contains the given time.
func (r *PromotionRepository) ListActive(ctx context.Context, at time.Time) ([]domain.Promotion, error) {
	return r.queryPromotions(ctx, `
		SELECT `+promotionColumns+` FROM promotions
		WHERE active = TRUE
		  AND (start_date IS NULL OR start_date <= $1)
		  AND (end_date IS NULL OR end_date >= $1)
		ORDER BY created_at DESC`,
		at,
	)
}

// GetByID fetches one promotion.
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*domain.Promotion, error) {
	row := r.db.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id)

	var p domain.Promotion
	if err := scanPromotion(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("promotion", id)
		}
		return nil, fmt.Errorf("get promotion %s: %w", id, err)
	}

	return &p, nil
}

// Create inserts a new promotion.
func (r *PromotionRepository) Create(ctx context.Context, p *domain.Promotion) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO promotions (id, name, description, type, value, min_order_amount, start_date, end_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Name, p.Description, p.Type, p.Value, p.MinOrderAmount,
		p.StartDate, p.EndDate, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create promotion: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of a promotion. Orders keep their own
// promotion snapshots, so edits never affect past sales.
func (r *PromotionRepository) Update(ctx context.Context, p *domain.Promotion) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE promotions
		SET name = $2, description = $3, type = $4, value = $5, min_order_amount = $6,
		    start_date = $7, end_date = $8, active = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Type, p.Value, p.MinOrderAmount,
		p.StartDate, p.EndDate, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update promotion %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("promotion", p.ID)
	}
	return nil
}

// Delete removes a promotion.
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("promotion", id)
	}
	return nil
}
