package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"nextshop/internal/domain"
	"nextshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestDashboardService_OverviewAggregates(t *testing.T) {
	userRepo := newMockUserRepository()
	productRepo := newMockProductRepository()
	orderRepo := &mockOrderRepository{}
	svc := NewDashboardService(userRepo, productRepo, orderRepo)

	require.NoError(t, userRepo.Create(context.Background(), &domain.User{
		ID:    uuid.New(),
		Email: "ada@example.com",
		Name:  "Ada Lovelace",
		Role:  domain.RoleUser,
	}))

	for i := 0; i < 7; i++ {
		product := &domain.Product{
			ID:        uuid.New(),
			Name:      "Item",
			Price:     decimal.NewFromInt(int64(i + 1)),
			Tags:      []string{},
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, productRepo.Create(context.Background(), product))
	}

	require.NoError(t, orderRepo.Create(context.Background(), &domain.Order{
		ID:        uuid.New(),
		Total:     decimal.RequireFromString("1250.00"),
		Status:    domain.OrderStatusPaid,
		CreatedAt: time.Now(),
	}))
	require.NoError(t, orderRepo.Create(context.Background(), &domain.Order{
		ID:        uuid.New(),
		Total:     decimal.RequireFromString("349.50"),
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now().Add(time.Second),
	}))

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, overview.UserCount)
	assert.Equal(t, 7, overview.ProductCount)
	assert.Equal(t, 2, overview.OrderCount)
	assert.Equal(t, "1599.50", overview.GrossRevenue.StringFixed(2))
	assert.Len(t, overview.Orders, 2)
	assert.Len(t, overview.Products, 5, "dashboard shows at most five latest products")
}

func TestDashboardService_OverviewEmptyStore(t *testing.T) {
	svc := NewDashboardService(newMockUserRepository(), newMockProductRepository(), &mockOrderRepository{})

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, overview.UserCount)
	assert.Zero(t, overview.ProductCount)
	assert.Zero(t, overview.OrderCount)
	assert.True(t, overview.GrossRevenue.IsZero())
	assert.Empty(t, overview.Orders)
	assert.Empty(t, overview.Products)
}
