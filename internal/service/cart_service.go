package service

import (
	"context"
	"errors"
	"fmt"

	"nextshop/internal/domain"
	"nextshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrWrongCart        = errors.New("item does not belong to this cart")
)

// CartView is a cart enriched with product snapshots and a derived total.
// The total is always recomputed from price times quantity, never stored.
type CartView struct {
	ID    uuid.UUID       `json:"id"`
	Items []CartViewItem  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartViewItem is a cart row with cached product display fields
type CartViewItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CartService defines the interface for cart business logic
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart returns the user's cart with product snapshots and the derived total
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}

	cartWithItems, err := s.cartRepo.GetCartWithItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}

	view := &CartView{
		ID:    cart.ID,
		Items: []CartViewItem{},
		Total: decimal.Zero,
	}

	for _, item := range cartWithItems.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				// Product deleted since it was added; skip the stale row
				continue
			}
			return nil, fmt.Errorf("get product: %w", err)
		}

		view.Items = append(view.Items, CartViewItem{
			ID:        item.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		view.Total = view.Total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return view, nil
}

// AddItem adds a product to the user's cart. Adding a product already in
// the cart increments its quantity.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	_, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return ErrProductNotFound
		}
		return fmt.Errorf("get product: %w", err)
	}

	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("get or create cart: %w", err)
	}

	return s.cartRepo.AddItem(ctx, &domain.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// UpdateItem sets the quantity of one of the user's cart items
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if err := s.checkOwnership(ctx, userID, itemID); err != nil {
		return err
	}
	return s.cartRepo.UpdateItem(ctx, itemID, quantity)
}

// RemoveItem deletes one of the user's cart items
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.checkOwnership(ctx, userID, itemID); err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(ctx, itemID)
}

func (s *cartService) checkOwnership(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}

	cartWithItems, err := s.cartRepo.GetCartWithItems(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("get cart items: %w", err)
	}

	for _, item := range cartWithItems.Items {
		if item.ID == itemID {
			return nil
		}
	}
	return ErrCartItemNotFound
}
