package service

import (
	"context"
	"fmt"

	"nextshop/internal/domain"
	"nextshop/internal/repository"

	"github.com/shopspring/decimal"
)

const recentLimit = 5

// DashboardOverview aggregates the figures shown on the admin dashboard
type DashboardOverview struct {
	UserCount    int
	ProductCount int
	OrderCount   int
	GrossRevenue decimal.Decimal
	Orders       []repository.RecentOrder
	Products     []*domain.Product
}

// DashboardService computes admin dashboard aggregates
type DashboardService interface {
	Overview(ctx context.Context) (*DashboardOverview, error)
}

type dashboardService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) DashboardService {
	return &dashboardService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// Overview gathers counts, gross revenue, and the latest orders and products
func (s *dashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	userCount, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	orderCount, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	revenue, err := s.orderRepo.SumTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum order totals: %w", err)
	}

	orders, err := s.orderRepo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}

	products, err := s.productRepo.ListLatest(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list latest products: %w", err)
	}

	return &DashboardOverview{
		UserCount:    userCount,
		ProductCount: productCount,
		OrderCount:   orderCount,
		GrossRevenue: revenue,
		Orders:       orders,
		Products:     products,
	}, nil
}
