package transport

import (
	"net/http"

	"nextshop/internal/middleware"
	"nextshop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateCartItemRequest represents a quantity change
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartResponse is the cart payload with the derived total
type CartResponse struct {
	ID    uuid.UUID              `json:"id"`
	Items []service.CartViewItem `json:"items"`
	Total float64                `json:"total"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cartService: cartService, logger: logger}
}

// RegisterRoutes registers the cart routes behind auth
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{id}", h.UpdateItem)
		r.Delete("/items/{id}", h.RemoveItem)
	})
}

// GetCart returns the caller's cart with product snapshots and total
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to load cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		ID:    cart.ID,
		Items: cart.Items,
		Total: cart.Total.InexactFloat64(),
	})
}

// AddItem adds a product to the caller's cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add cart item validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.cartService.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		if err == service.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusBadRequest, "Unknown product")
			return
		}

		h.logger.Error("Failed to add cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, middleware.MessageResponse{Message: "Item added"})
}

// UpdateItem sets the quantity of a cart item
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update cart item validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.cartService.UpdateItem(r.Context(), userID, itemID, req.Quantity); err != nil {
		if err == service.ErrCartItemNotFound {
			middleware.RespondWithError(w, http.StatusBadRequest, "Unknown cart item")
			return
		}

		h.logger.Error("Failed to update cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, middleware.MessageResponse{Message: "Item updated"})
}

// RemoveItem deletes a cart item
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), userID, itemID); err != nil {
		if err == service.ErrCartItemNotFound {
			middleware.RespondWithError(w, http.StatusBadRequest, "Unknown cart item")
			return
		}

		h.logger.Error("Failed to remove cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, middleware.MessageResponse{Message: "Item removed"})
}

func (h *CartHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		h.logger.Error("Invalid user ID in context", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}

	return userID, true
}
