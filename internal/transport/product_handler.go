package transport

import (
	"net/http"

	"nextshop/internal/domain"
	"nextshop/internal/middleware"
	"nextshop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload. Price and
// rating accept both JSON numbers and numeric strings.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1"`
	Description string           `json:"description" validate:"required,min=1"`
	Image       string           `json:"image" validate:"required,url"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Tags        []string         `json:"tags"`
	Inventory   *int             `json:"inventory" validate:"omitempty,gte=0"`
	Featured    *bool            `json:"featured"`
	Rating      *decimal.Decimal `json:"rating"`
}

// UpdateProductRequest represents a partial product update. Every field is
// optional; at least one must be present.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Image       *string          `json:"image" validate:"omitempty,url"`
	Price       *decimal.Decimal `json:"price"`
	Tags        *[]string        `json:"tags"`
	Inventory   *int             `json:"inventory" validate:"omitempty,gte=0"`
	Featured    *bool            `json:"featured"`
	Rating      *decimal.Decimal `json:"rating"`
}

// AdminProduct is the display-friendly projection returned to the dashboard
type AdminProduct struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PriceLabel  string    `json:"priceLabel"`
	PriceValue  float64   `json:"priceValue"`
	Featured    bool      `json:"featured"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	Inventory   int       `json:"inventory"`
	Rating      float64   `json:"rating"`
}

// StorefrontProduct is the public catalog projection
type StorefrontProduct struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	Rating      float64   `json:"rating"`
	Featured    bool      `json:"featured"`
}

// AdminProductList wraps the admin catalog listing
type AdminProductList struct {
	Products []AdminProduct `json:"products"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers the public and admin catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/products", h.StorefrontList)

	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// StorefrontList handles the public catalog listing with optional search
func (h *ProductHandler) StorefrontList(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	featuredOnly := r.URL.Query().Get("featured") == "true"

	products, err := h.productService.StorefrontList(r.Context(), search, featuredOnly)
	if err != nil {
		h.logger.Error("Failed to list storefront products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to load products")
		return
	}

	projections := make([]StorefrontProduct, 0, len(products))
	for _, p := range products {
		projections = append(projections, StorefrontProduct{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.InexactFloat64(),
			Image:       p.Image,
			Tags:        p.Tags,
			Rating:      p.Rating.InexactFloat64(),
			Featured:    p.Featured,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": projections})
}

// List handles the admin catalog listing, newest first
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.AdminList(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to load products")
		return
	}

	projections := make([]AdminProduct, 0, len(products))
	for _, p := range products {
		projections = append(projections, AdminProduct{
			ID:          p.ID,
			Name:        p.Name,
			PriceLabel:  "$" + p.Price.StringFixed(2),
			PriceValue:  p.Price.InexactFloat64(),
			Featured:    p.Featured,
			Description: p.Description,
			Image:       p.Image,
			Tags:        p.Tags,
			Inventory:   p.Inventory,
			Rating:      p.Rating.InexactFloat64(),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, AdminProductList{Products: projections})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product create validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrors := validateCreateRanges(req); len(fieldErrors) > 0 {
		middleware.RespondWithValidationErrors(w, fieldErrors)
		return
	}

	_, err := h.productService.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       *req.Price,
		Tags:        req.Tags,
		Inventory:   req.Inventory,
		Featured:    req.Featured,
		Rating:      req.Rating,
	})
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, middleware.MessageResponse{Message: "Product created"})
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrors := validateUpdateRanges(req); len(fieldErrors) > 0 {
		middleware.RespondWithValidationErrors(w, fieldErrors)
		return
	}

	update := domain.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Tags:        req.Tags,
		Inventory:   req.Inventory,
		Featured:    req.Featured,
		Rating:      req.Rating,
	}

	if err := h.productService.Update(r.Context(), id, update); err != nil {
		if err == service.ErrNoUpdateFields {
			middleware.RespondWithError(w, http.StatusBadRequest, "At least one field is required")
			return
		}

		h.logger.Error("Failed to update product", zap.Error(err), zap.String("product_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, middleware.MessageResponse{Message: "Product updated"})
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete product", zap.Error(err), zap.String("product_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Unable to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, middleware.MessageResponse{Message: "Product deleted"})
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	if idParam == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "Missing product id")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return uuid.Nil, false
	}

	return id, true
}

var ratingMax = decimal.NewFromInt(5)

// validateCreateRanges checks the numeric ranges validator tags cannot
// express on decimal fields
func validateCreateRanges(req CreateProductRequest) []middleware.ValidationError {
	var errs []middleware.ValidationError

	if req.Price != nil && !req.Price.IsPositive() {
		errs = append(errs, middleware.ValidationError{Field: "price", Message: "Value must be greater than 0"})
	}
	if req.Rating != nil && (req.Rating.IsNegative() || req.Rating.GreaterThan(ratingMax)) {
		errs = append(errs, middleware.ValidationError{Field: "rating", Message: "Value must be between 0 and 5"})
	}

	return errs
}

func validateUpdateRanges(req UpdateProductRequest) []middleware.ValidationError {
	var errs []middleware.ValidationError

	if req.Price != nil && !req.Price.IsPositive() {
		errs = append(errs, middleware.ValidationError{Field: "price", Message: "Value must be greater than 0"})
	}
	if req.Rating != nil && (req.Rating.IsNegative() || req.Rating.GreaterThan(ratingMax)) {
		errs = append(errs, middleware.ValidationError{Field: "rating", Message: "Value must be between 0 and 5"})
	}

	return errs
}
