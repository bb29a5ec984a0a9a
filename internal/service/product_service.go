package service

import (
	"context"
	"errors"
	"time"

	"nextshop/internal/domain"
	"nextshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Defaults applied when a create payload omits optional fields
const DefaultInventory = 25

var DefaultRating = decimal.NewFromFloat(4.5)

var ErrNoUpdateFields = errors.New("at least one field is required")

// CreateProductInput carries a validated create payload. Nil optional
// fields take the documented defaults.
type CreateProductInput struct {
	Name        string
	Description string
	Image       string
	Price       decimal.Decimal
	Tags        []string
	Inventory   *int
	Featured    *bool
	Rating      *decimal.Decimal
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdminList(ctx context.Context) ([]*domain.Product, error)
	StorefrontList(ctx context.Context, search string, featuredOnly bool) ([]*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// Create persists a new product, filling in defaults for omitted fields
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	now := time.Now()

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		Price:       input.Price,
		Tags:        []string{},
		Inventory:   DefaultInventory,
		Featured:    false,
		Rating:      DefaultRating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.Inventory != nil {
		product.Inventory = *input.Inventory
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update applies a partial update. An update carrying no fields is rejected
// before the repository is touched.
func (s *productService) Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) error {
	if update.IsEmpty() {
		return ErrNoUpdateFields
	}
	return s.productRepo.Update(ctx, id, update)
}

// Delete removes a product by id
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// AdminList returns the full catalog, newest first
func (s *productService) AdminList(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

// StorefrontList returns the public catalog, optionally filtered by a
// case-insensitive search over name and tags, and by the featured flag
func (s *productService) StorefrontList(ctx context.Context, search string, featuredOnly bool) ([]*domain.Product, error) {
	return s.productRepo.Search(ctx, search, featuredOnly)
}
