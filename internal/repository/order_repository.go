package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nextshop/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

// RecentOrder is an order row joined with its customer for dashboard display
type RecentOrder struct {
	Order    domain.Order
	Customer string
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Count(ctx context.Context) (int, error)
	SumTotals(ctx context.Context) (decimal.Decimal, error)
	ListRecent(ctx context.Context, limit int) ([]RecentOrder, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts an order and its items in a single transaction
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO orders (id, user_id, total, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		order.ID,
		order.UserID,
		order.Total,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
			item.ID,
			order.ID,
			item.ProductID,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// Count returns the total number of orders
func (r *orderRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// SumTotals returns the gross revenue across all orders
func (r *orderRepository) SumTotals(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total), 0) FROM orders`).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum order totals: %w", err)
	}
	return sum, nil
}

// ListRecent retrieves the most recent orders joined with customer names
func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]RecentOrder, error) {
	query := `
		SELECT o.id, o.user_id, o.total, o.status, o.created_at, COALESCE(u.name, u.email, 'Guest')
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	defer rows.Close()

	orders := []RecentOrder{}
	for rows.Next() {
		var ro RecentOrder
		var createdAt time.Time
		err := rows.Scan(
			&ro.Order.ID,
			&ro.Order.UserID,
			&ro.Order.Total,
			&ro.Order.Status,
			&createdAt,
			&ro.Customer,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		ro.Order.CreatedAt = createdAt
		orders = append(orders, ro)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
