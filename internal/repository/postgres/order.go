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
	"github.com/chamarodfai/POS/pkg/pagination"
)

// OrderRepository is the PostgreSQL implementation of
// repository.OrderRepository.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a PostgreSQL-backed order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, subtotal, discount, total,
	promotion_id, promotion_name, promotion_type, promotion_value,
	status, payment_method, staff_id, note, created_at, updated_at`

func scanOrder(row pgx.Row, o *domain.Order) error {
	var (
		promoID    *string
		promoName  *string
		promoType  *string
		promoValue *int64
	)

	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.Subtotal,
		&o.Discount,
		&o.Total,
		&promoID,
		&promoName,
		&promoType,
		&promoValue,
		&o.Status,
		&o.PaymentMethod,
		&o.StaffID,
		&o.Note,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if promoID != nil {
		o.Promotion = &domain.PromotionSnapshot{
			PromotionID: *promoID,
			Name:        *promoName,
			Type:        domain.PromotionType(*promoType),
			Value:       *promoValue,
		}
	}

	return nil
}

// Create inserts the order and its line items in a single transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		promoID    *string
		promoName  *string
		promoType  *string
		promoValue *int64
	)
	if o.Promotion != nil {
		promoID = &o.Promotion.PromotionID
		promoName = &o.Promotion.Name
		pt := string(o.Promotion.Type)
		promoType = &pt
		promoValue = &o.Promotion.Value
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, subtotal, discount, total,
			promotion_id, promotion_name, promotion_type, promotion_value,
			status, payment_method, staff_id, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		o.ID, o.OrderNumber, o.Subtotal, o.Discount, o.Total,
		promoID, promoName, promoType, promoValue,
		o.Status, o.PaymentMethod, o.StaffID, o.Note, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, position, menu_item_id, name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, i, item.MenuItemID, item.Name, item.UnitPrice, item.Quantity, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create order tx: %w", err)
	}

	return nil
}

// GetByID fetches one order with its line items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	var o domain.Order
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	itemsByOrder, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = itemsByOrder[o.ID]

	return &o, nil
}

// List returns orders newest first along with the total count, optionally
// filtered by status.
func (r *OrderRepository) List(ctx context.Context, params pagination.Params, status domain.OrderStatus) ([]domain.Order, int, error) {
	countQuery := `SELECT COUNT(*) FROM orders`
	listQuery := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != "" {
		countQuery += ` WHERE status = $1`
		listQuery += ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	listQuery += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.PerPage, params.Offset())

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListBetween returns orders created in [start, end), oldest first.
func (r *OrderRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders between: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus persists a status change. Lifecycle validation happens in the
// service layer before this is called.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update order %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}
	return nil
}

// NextOrderNumber atomically increments the per-day counter and formats it
// as ORD-YYYYMMDD-NNNN. The upsert makes concurrent checkouts safe without
// an explicit lock.
func (r *OrderRepository) NextOrderNumber(ctx context.Context, day time.Time) (string, error) {
	var counter int
	err := r.db.QueryRow(ctx, `
		INSERT INTO order_counters (day, counter)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = order_counters.counter + 1
		RETURNING counter`,
		day.Format("2006-01-02"),
	).Scan(&counter)
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}

	return fmt.Sprintf("ORD-%s-%04d", day.Format("20060102"), counter), nil
}

// PeekOrderNumber reads the counter without incrementing it. The returned
// number is a preview; a concurrent checkout may still claim it.
func (r *OrderRepository) PeekOrderNumber(ctx context.Context, day time.Time) (string, error) {
	var counter int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE((SELECT counter FROM order_counters WHERE day = $1), 0) + 1`,
		day.Format("2006-01-02"),
	).Scan(&counter)
	if err != nil {
		return "", fmt.Errorf("peek order number: %w", err)
	}

	return fmt.Sprintf("ORD-%s-%04d", day.Format("20060102"), counter), nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	orders := []domain.Order{}
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// loadItems fetches line items for the given order IDs grouped by order.
func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, menu_item_id, name, unit_price, quantity, line_total
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err := rows.Scan(&orderID, &item.MenuItemID, &item.Name, &item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		result[orderID] = append(result[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return result, nil
}

func (r *OrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return err
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return nil
}
