package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/app"
	"github.com/ketensuites/keten-backend/internal/cache"
	"github.com/ketensuites/keten-backend/internal/config"
	"github.com/ketensuites/keten-backend/internal/db"
	"github.com/ketensuites/keten-backend/internal/notify"
	"github.com/ketensuites/keten-backend/internal/pkg/logger"
	"github.com/ketensuites/keten-backend/internal/pricing"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "keten-backend")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Connect DB
	pool, err := db.NewPool(ctx, db.Options{
		DSN:      cfg.DBDSN,
		MaxConns: int32(cfg.DBMaxConns),
	})
	if err != nil {
		zlog.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	// Redis is optional
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	var mailer notify.Mailer
	resend, err := notify.NewResendMailer(notify.ResendConfig{
		APIKey:  cfg.ResendAPIKey,
		From:    cfg.ResendFromEmail,
		BaseURL: cfg.ResendBaseURL,
	}, zlog)
	switch {
	case errors.Is(err, notify.ErrNotConfigured):
		zlog.Warn("RESEND_API_KEY not set, booking confirmations will only be logged")
		mailer = notify.NopMailer{Logger: zlog}
	case err != nil:
		zlog.Fatal("failed to init mailer", zap.Error(err))
	default:
		mailer = resend
	}

	container, err := app.NewContainer(app.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		DBPool:         pool,
		Redis:          redisClient,
		Logger:         zlog,
		Mailer:         mailer,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTAccessTokenTTL,
		BcryptCost:     cfg.BcryptCost,
		StoragePath:    cfg.StoragePath,
		MaxUploadBytes: cfg.MaxUploadBytes,
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

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		zlog.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zlog.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited gracefully")
}
