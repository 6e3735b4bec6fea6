// Command seed loads the Keten Suites catalogue and an optional admin account.
// Running it twice is safe: existing rows are left untouched.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/app"
	"github.com/ketensuites/keten-backend/internal/config"
	"github.com/ketensuites/keten-backend/internal/db"
	"github.com/ketensuites/keten-backend/internal/pkg/logger"
	"github.com/ketensuites/keten-backend/internal/pricing"
	"github.com/ketensuites/keten-backend/internal/property"
	"github.com/ketensuites/keten-backend/internal/staff"
	"github.com/ketensuites/keten-backend/internal/unit"
)

const propertySlug = "keten-suites"

type seedUnit struct {
	name     string
	kind     unit.Type
	capacity int
	price    int64
	features unit.Features
	featured bool
}

var units = []seedUnit{
	{"Economy 1+1", unit.TypeEconomy1Plus1, 2, 15000, unit.Features{SquareMeters: 45, Bedrooms: 1, Bathrooms: 1, HasBalcony: true}, false},
	{"Premium 1+1", unit.TypePremium1Plus1, 2, 22000, unit.Features{SquareMeters: 55, Bedrooms: 1, Bathrooms: 1, HasBalcony: true, ViewType: "city"}, true},
	{"Economy 2+1", unit.TypeEconomy2Plus1, 4, 28000, unit.Features{SquareMeters: 80, Bedrooms: 2, Bathrooms: 1, HasBalcony: true}, false},
	{"Family Duplex 2+1", unit.TypeFamilyDuplex2Plus1, 5, 42000, unit.Features{SquareMeters: 110, Floor: "4-5", Bedrooms: 2, Bathrooms: 2, HasTerrace: true}, true},
	{"Family Duplex 3+1", unit.TypeFamilyDuplex3Plus1, 6, 55000, unit.Features{SquareMeters: 140, Floor: "4-5", Bedrooms: 3, Bathrooms: 2, HasTerrace: true, ViewType: "sea"}, true},
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, "console", "keten-seed")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	pool, err := db.NewPool(ctx, db.Options{DSN: cfg.DBDSN, MaxConns: 2})
	if err != nil {
		zlog.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	container, err := app.NewContainer(app.Config{
		DBPool:      pool,
		Logger:      zlog,
		JWTSecret:   cfg.JWTSecret,
		JWTTTL:      cfg.JWTAccessTokenTTL,
		BcryptCost:  cfg.BcryptCost,
		StoragePath: cfg.StoragePath,
		Policy: pricing.Policy{
			DepositPercentage: cfg.DepositPercentage,
			ServiceFee:        cfg.ServiceFee,
		},
		Location: cfg.Location,
		CacheTTL: cfg.AvailabilityCacheTTL,
	})
	if err != nil {
		zlog.Fatal("failed to init app", zap.Error(err))
	}

	// 1. Property
	p, err := seedProperty(ctx, container.PropertyService)
	if err != nil {
		zlog.Fatal("failed to seed property", zap.Error(err))
	}
	zlog.Info("property ready", zap.String("id", p.ID), zap.String("slug", p.Slug))

	// 2. Units
	for i, su := range units {
		u, err := container.UnitService.Create(ctx, unit.CreateRequest{
			PropertyID:         p.ID,
			Name:               su.name,
			Type:               su.kind,
			Capacity:           su.capacity,
			BasePricePerMonth:  decimal.NewFromInt(su.price),
			DiscountPercentage: decimal.Zero,
			ShortDescription:   "Furnished " + su.name + " at Keten Suites",
			Features:           su.features,
			IsFeatured:         su.featured,
			DisplayOrder:       i + 1,
		})
		if errors.Is(err, unit.ErrSlugTaken) {
			zlog.Info("unit exists, skipping", zap.String("name", su.name))
			continue
		}
		if err != nil {
			zlog.Fatal("failed to seed unit", zap.String("name", su.name), zap.Error(err))
		}
		zlog.Info("unit created", zap.String("slug", u.Slug), zap.String("price", u.BasePricePerMonth.String()))
	}

	// 3. Admin account
	email, password := os.Getenv("SEED_ADMIN_EMAIL"), os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		zlog.Info("SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set, skipping admin account")
		return
	}
	_, err = container.StaffService.Create(ctx, staff.CreateRequest{
		Email:       email,
		Password:    password,
		DisplayName: "Administrator",
		Role:        staff.RoleAdmin,
	})
	switch {
	case errors.Is(err, staff.ErrEmailAlreadyUsed):
		zlog.Info("admin exists, skipping", zap.String("email", email))
	case err != nil:
		zlog.Fatal("failed to seed admin", zap.Error(err))
	default:
		zlog.Info("admin created", zap.String("email", email))
	}
}

func seedProperty(ctx context.Context, properties property.Service) (*property.Property, error) {
	existing, err := properties.GetBySlug(ctx, propertySlug)
	if err == nil {
		return &existing.Property, nil
	}
	if !errors.Is(err, property.ErrNotFound) {
		return nil, err
	}
	return properties.Create(ctx, property.CreateRequest{
		Name:             "Keten Suites",
		Slug:             propertySlug,
		ShortDescription: "Furnished monthly apartments",
		City:             "Istanbul",
		Country:          "Türkiye",
		PropertyType:     "apartment",
	})
}
