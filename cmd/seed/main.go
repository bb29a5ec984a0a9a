package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nextshop/internal/config"
	"nextshop/internal/database"
	"nextshop/internal/domain"
	"nextshop/internal/logger"
	"nextshop/internal/repository"
	"nextshop/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@nextshop.dev"
	adminName     = "Design Lead"
	adminPassword = "admin123"
)

type seedProduct struct {
	name        string
	description string
	price       float64
	image       string
	tags        []string
	rating      float64
	featured    bool
}

var catalog = []seedProduct{
	{
		name:        "Aurora Headphones",
		description: "Spatial audio, adaptive noise cancelling, and a sculpted aluminum frame.",
		price:       349,
		image:       "https://images.unsplash.com/photo-1484704849700-f032a568e944?auto=format&fit=crop&w=900&q=80",
		tags:        []string{"audio", "new"},
		rating:      4.8,
		featured:    true,
	},
	{
		name:        "Lumen Watch",
		description: "Sapphire glass, multi-day battery, and proactive wellness tracking.",
		price:       499,
		image:       "https://images.unsplash.com/photo-1507679799987-c73779587ccf?auto=format&fit=crop&w=900&q=80",
		tags:        []string{"wearables"},
		rating:      4.9,
		featured:    true,
	},
	{
		name:        "Pulse Speaker",
		description: "360 degree audio with adaptive tuning and cinematic ultra-wide sound stage.",
		price:       229,
		image:       "https://images.unsplash.com/photo-1470246973918-29a93221c455?auto=format&fit=crop&w=900&q=80",
		tags:        []string{"audio", "home"},
		rating:      4.6,
	},
	{
		name:        "Glide Smart Shoes",
		description: "Self-lacing fit, effortless cushioning, and predictive activity coaching.",
		price:       279,
		image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?auto=format&fit=crop&w=900&q=80",
		tags:        []string{"lifestyle"},
		rating:      4.7,
	},
	{
		name:        "Atlas Work Backpack",
		description: "Featherweight textile, waterproof zippers, and modular tech sleeves.",
		price:       189,
		image:       "https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?auto=format&fit=crop&w=900&q=80",
		tags:        []string{"travel"},
		rating:      4.5,
	},
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer dbService.Close()
	db := dbService.DB()

	if err := database.RunMigrations(db, "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()

	admin, err := ensureAdmin(ctx, db)
	if err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}
	log.Info("Admin account ready", zap.String("email", adminEmail))

	if err := resetCatalog(ctx, db); err != nil {
		log.Fatal("Failed to reset catalog", zap.Error(err))
	}

	productRepo := repository.NewProductRepository(db)
	products := make([]*domain.Product, 0, len(catalog))
	now := time.Now()

	for i, sp := range catalog {
		product := &domain.Product{
			ID:          uuid.New(),
			Name:        sp.name,
			Description: sp.description,
			Price:       decimal.NewFromFloat(sp.price),
			Image:       sp.image,
			Tags:        sp.tags,
			Inventory:   service.DefaultInventory,
			Featured:    sp.featured,
			Rating:      decimal.NewFromFloat(sp.rating),
			// Stagger timestamps so newest-first ordering is stable
			CreatedAt: now.Add(time.Duration(i) * time.Second),
			UpdatedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := productRepo.Create(ctx, product); err != nil {
			log.Fatal("Failed to seed product", zap.String("name", sp.name), zap.Error(err))
		}
		products = append(products, product)
	}
	log.Info("Catalog seeded", zap.Int("products", len(products)))

	orderRepo := repository.NewOrderRepository(db)
	order := &domain.Order{
		ID:     uuid.New(),
		UserID: admin.ID,
		Total:  decimal.NewFromInt(1250),
		Status: domain.OrderStatusPaid,
		Items: []domain.OrderItem{
			{
				ID:        uuid.New(),
				ProductID: uuid.NullUUID{UUID: products[0].ID, Valid: true},
				Quantity:  1,
				Price:     products[0].Price,
			},
			{
				ID:        uuid.New(),
				ProductID: uuid.NullUUID{UUID: products[1].ID, Valid: true},
				Quantity:  2,
				Price:     products[1].Price,
			},
		},
		CreatedAt: now,
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		log.Fatal("Failed to seed order", zap.Error(err))
	}

	log.Info("Seed complete")
}

// ensureAdmin creates the admin account if it does not exist yet
func ensureAdmin(ctx context.Context, db *sql.DB) (*domain.User, error) {
	userRepo := repository.NewUserRepository(db)

	admin, err := userRepo.FindByEmail(ctx, adminEmail)
	if err == nil {
		return admin, nil
	}
	if err != repository.ErrUserNotFound {
		return nil, err
	}

	hash, err := service.HashPassword(adminPassword)
	if err != nil {
		return nil, err
	}

	admin = &domain.User{
		ID:           uuid.New(),
		Email:        adminEmail,
		Name:         adminName,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	return admin, nil
}

// resetCatalog clears order and product data so seeding is repeatable
func resetCatalog(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`DELETE FROM cart_items`,
		`DELETE FROM order_items`,
		`DELETE FROM orders`,
		`DELETE FROM products`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}

	return nil
}
