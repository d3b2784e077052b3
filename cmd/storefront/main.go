package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/httpapi"
	"storefront/internal/kvstore"
	"storefront/internal/logger"
	"storefront/internal/session"
)

func newStateStore(cfg *config.Config, log *zap.Logger) kvstore.Store {
	switch cfg.Store.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		return kvstore.NewRedisStore(client, "storefront")
	case "memory":
		return kvstore.NewMemoryStore()
	default:
		log.Info("Using file state store", zap.String("path", cfg.Store.FilePath))
		return kvstore.NewFileStore(cfg.Store.FilePath)
	}
}

func main() {
	// .env is optional; viper falls back to real env vars and defaults
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront client",
		zap.String("env", cfg.Env),
		zap.String("api", cfg.API.BaseURL),
		zap.String("store", cfg.Store.Backend),
	)

	pricing, err := cart.NewPricing(cfg.Pricing.FlatShipping, cfg.Pricing.FreeShippingThreshold)
	if err != nil {
		log.Fatal("Invalid pricing configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := newStateStore(cfg, log)
	api := httpapi.New(cfg.API.BaseURL, cfg.API.Timeout, log)
	sess := session.New(api, store, log)
	engine := cart.NewEngine()
	shop := catalog.New(api, cfg.Search.Debounce, log)
	flow := checkout.New(api, engine, pricing, cfg.Checkout.RedirectDelay, log)
	flow.OnRedirect(func(route string) {
		log.Info("Redirecting", zap.String("route", route))
	})

	// Passive restore: a failed verify clears persisted state and stays
	// anonymous without bothering the user.
	if sess.Restore(ctx) {
		user, _ := sess.Current()
		log.Info("Session restored", zap.String("email", user.Email))
	} else {
		log.Info("No session to restore", zap.String("state", sess.State().String()))
	}

	if err := shop.FetchCategories(ctx); err != nil {
		log.Warn("Category warmup failed", zap.Error(err))
	}
	if err := shop.FetchProducts(ctx); err != nil {
		log.Warn("Product warmup failed", zap.Error(err))
	}

	snap := shop.Snapshot()
	log.Info("Catalog ready",
		zap.Int("categories", len(snap.Categories)),
		zap.Int("products", len(snap.Products)),
		zap.Int("total", snap.Total),
		zap.String("fetch_state", snap.FetchState.String()),
	)

	// The rendering layer drives cart and checkout intents from here on;
	// keep the core alive until the host asks us to stop.
	<-ctx.Done()
	log.Info("Storefront client exiting")
}
