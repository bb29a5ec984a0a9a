package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nextshop/internal/domain"

	"github.com/google/uuid"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository defines the interface for cart data access
type CartRepository interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	GetCartWithItems(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, item *domain.CartItem) error
	UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ClearCart(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreateCart returns the user's cart, creating one on first use
func (r *cartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart := &domain.Cart{}
	err := r.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`,
		userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)

	if err == nil {
		return cart, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart.ID = uuid.New()
	cart.UserID = userID
	now := time.Now()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		cart.ID,
		cart.UserID,
		cart.CreatedAt,
		cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return cart, nil
}

// GetCartWithItems retrieves a cart together with its items
func (r *cartRepository) GetCartWithItems(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	cart := &domain.Cart{}
	err := r.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE id = $1`,
		cartID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, cart_id, product_id, quantity, created_at, updated_at FROM cart_items WHERE cart_id = $1 ORDER BY created_at`,
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cart, nil
}

// AddItem inserts a cart item. Adding a product already present in the cart
// increments its quantity instead of creating a second row.
func (r *cartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	item.ID = uuid.New()
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + $4, updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, item.ID, item.CartID, item.ProductID, item.Quantity).
		Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// UpdateItem sets the quantity of an existing cart item
func (r *cartRepository) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1`,
		itemID,
		quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// DeleteItem removes a cart item
func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// ClearCart removes every item from a cart
func (r *cartRepository) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
