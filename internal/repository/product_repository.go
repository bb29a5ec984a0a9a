package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nextshop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyUpdate     = errors.New("product update has no fields")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListLatest(ctx context.Context, limit int) ([]*domain.Product, error)
	Search(ctx context.Context, query string, featuredOnly bool) ([]*domain.Product, error)
	Count(ctx context.Context) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, image, tags, inventory, featured, rating, created_at, updated_at`

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, image, tags, inventory, featured, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	tags, err := encodeTags(product.Tags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		tags,
		product.Inventory,
		product.Featured,
		product.Rating,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update applies a sparse update to the identified product. Only fields
// present in the update are written.
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) error {
	setClauses := []string{}
	args := []interface{}{id}
	argIndex := 2

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if update.Name != nil {
		addClause("name", *update.Name)
	}
	if update.Description != nil {
		addClause("description", *update.Description)
	}
	if update.Image != nil {
		addClause("image", *update.Image)
	}
	if update.Price != nil {
		addClause("price", *update.Price)
	}
	if update.Tags != nil {
		tags, err := encodeTags(*update.Tags)
		if err != nil {
			return err
		}
		addClause("tags", tags)
	}
	if update.Inventory != nil {
		addClause("inventory", *update.Inventory)
	}
	if update.Featured != nil {
		addClause("featured", *update.Featured)
	}
	if update.Rating != nil {
		addClause("rating", *update.Rating)
	}

	if len(setClauses) == 0 {
		return ErrEmptyUpdate
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $1", strings.Join(setClauses, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves all products ordered by creation time descending
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListLatest retrieves the most recently created products
func (r *productRepository) ListLatest(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC LIMIT $1`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Search retrieves products whose name or tags contain the query string,
// case-insensitively. An empty query matches everything.
func (r *productRepository) Search(ctx context.Context, query string, featuredOnly bool) ([]*domain.Product, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if strings.TrimSpace(query) != "" {
		searchPattern := "%" + query + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR tags::text ILIKE $%d)", argIndex, argIndex))
		args = append(args, searchPattern)
		argIndex++
	}

	if featuredOnly {
		conditions = append(conditions, "featured = TRUE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	sqlQuery := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC`, productColumns, whereClause)

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Count returns the total number of products
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var tags []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Image,
		&tags,
		&product.Inventory,
		&product.Featured,
		&product.Rating,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &product.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode product tags: %w", err)
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	return product, nil
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// encodeTags serializes the tag list for the JSONB column. A nil slice is
// stored as an empty list.
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product tags: %w", err)
	}
	return encoded, nil
}
