package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"nextshop/internal/domain"
	"nextshop/internal/middleware"
	"nextshop/internal/repository"
	"nextshop/internal/service"
	"nextshop/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret"

// Map-backed repositories so handler behavior can be exercised over a real
// chi router without a database.

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) error {
	product, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Tags != nil {
		product.Tags = *update.Tags
	}
	if update.Inventory != nil {
		product.Inventory = *update.Inventory
	}
	if update.Featured != nil {
		product.Featured = *update.Featured
	}
	if update.Rating != nil {
		product.Rating = *update.Rating
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(m.products))
	for _, product := range m.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (m *mockProductRepository) ListLatest(ctx context.Context, limit int) ([]*domain.Product, error) {
	products, _ := m.List(ctx)
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string, featuredOnly bool) ([]*domain.Product, error) {
	all, _ := m.List(ctx)
	matched := []*domain.Product{}
	for _, product := range all {
		if featuredOnly && !product.Featured {
			continue
		}
		if query != "" && !productMatches(product, query) {
			continue
		}
		matched = append(matched, product)
	}
	return matched, nil
}

func productMatches(product *domain.Product, query string) bool {
	lowered := strings.ToLower(query)
	if strings.Contains(strings.ToLower(product.Name), lowered) {
		return true
	}
	for _, tag := range product.Tags {
		if strings.Contains(strings.ToLower(tag), lowered) {
			return true
		}
	}
	return false
}

func (m *mockProductRepository) Count(ctx context.Context) (int, error) {
	return len(m.products), nil
}

type mockUserRepository struct {
	byEmail map[string]*domain.User
	byID    map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[uuid.UUID]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return repository.ErrUserAlreadyExists
	}
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.byID), nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	stored, ok := m.tokens[token]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if stored.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return stored, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	stored, ok := m.tokens[token]
	if !ok {
		return repository.ErrRefreshTokenNotFound
	}
	stored.Revoked = true
	return nil
}

type mockCartRepository struct {
	carts map[uuid.UUID]*domain.Cart
	items map[uuid.UUID][]domain.CartItem
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: make(map[uuid.UUID]*domain.Cart),
		items: make(map[uuid.UUID][]domain.CartItem),
	}
}

func (m *mockCartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	for _, cart := range m.carts {
		if cart.UserID == userID {
			return cart, nil
		}
	}
	cart := &domain.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *mockCartRepository) GetCartWithItems(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Items = append([]domain.CartItem{}, m.items[cartID]...)
	return &copied, nil
}

func (m *mockCartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	rows := m.items[item.CartID]
	for i := range rows {
		if rows[i].ProductID == item.ProductID {
			rows[i].Quantity += item.Quantity
			rows[i].UpdatedAt = time.Now()
			return nil
		}
	}
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	m.items[item.CartID] = append(rows, *item)
	return nil
}

func (m *mockCartRepository) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int) error {
	for cartID, rows := range m.items {
		for i := range rows {
			if rows[i].ID == itemID {
				m.items[cartID][i].Quantity = quantity
				return nil
			}
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	for cartID, rows := range m.items {
		for i := range rows {
			if rows[i].ID == itemID {
				m.items[cartID] = append(rows[:i], rows[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	m.items[cartID] = nil
	return nil
}

type mockOrderRepository struct {
	orders []repository.RecentOrder
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.orders = append(m.orders, repository.RecentOrder{Order: *order, Customer: "Guest"})
	return nil
}

func (m *mockOrderRepository) Count(ctx context.Context) (int, error) {
	return len(m.orders), nil
}

func (m *mockOrderRepository) SumTotals(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, ro := range m.orders {
		sum = sum.Add(ro.Order.Total)
	}
	return sum, nil
}

func (m *mockOrderRepository) ListRecent(ctx context.Context, limit int) ([]repository.RecentOrder, error) {
	sorted := append([]repository.RecentOrder{}, m.orders...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Order.CreatedAt.After(sorted[j].Order.CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// testEnv wires the full HTTP surface over the mock repositories, matching
// the production router composition.
type testEnv struct {
	router      chi.Router
	productRepo *mockProductRepository
	userRepo    *mockUserRepository
	cartRepo    *mockCartRepository
	orderRepo   *mockOrderRepository
	userService service.UserService
	uploadDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()

	productRepo := newMockProductRepository()
	userRepo := newMockUserRepository()
	tokenRepo := newMockRefreshTokenRepository()
	cartRepo := newMockCartRepository()
	orderRepo := &mockOrderRepository{}

	productService := service.NewProductService(productRepo)
	userService := service.NewUserService(userRepo, tokenRepo, testJWTSecret)
	cartService := service.NewCartService(cartRepo, productRepo)
	dashboardService := service.NewDashboardService(userRepo, productRepo, orderRepo)

	uploadDir := t.TempDir()
	uploadStore := storage.NewUploadStore(uploadDir, "/uploads", logger)

	authMiddleware := middleware.AuthMiddleware(testJWTSecret, logger)
	adminMiddleware := middleware.RequireAdmin(logger)

	router := chi.NewRouter()
	NewProductHandler(productService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	NewAuthHandler(userService, logger).RegisterRoutes(router, authMiddleware, nil)
	NewCartHandler(cartService, logger).RegisterRoutes(router, authMiddleware)
	NewUploadHandler(uploadStore, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	NewDashboardHandler(dashboardService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)

	return &testEnv{
		router:      router,
		productRepo: productRepo,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		userService: userService,
		uploadDir:   uploadDir,
	}
}

func (e *testEnv) tokenFor(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (e *testEnv) adminToken(t *testing.T) string {
	return e.tokenFor(t, uuid.New(), domain.RoleAdmin)
}

func (e *testEnv) userToken(t *testing.T) string {
	return e.tokenFor(t, uuid.New(), domain.RoleUser)
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body middleware.MessageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Message
}
