package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freightquote/internal/cache"
	"freightquote/internal/compare"
	"freightquote/internal/config"
	"freightquote/internal/db"
	"freightquote/internal/distance"
	"freightquote/internal/events"
	"freightquote/internal/pricing"
	"freightquote/internal/quote"
	"freightquote/internal/rate"
	"freightquote/internal/server"
	"freightquote/internal/vendor"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	index := rate.DefaultIndex()
	if err := index.Validate(); err != nil {
		logger.Error("rate table invalid", "error", err)
		os.Exit(1)
	}

	durable := cache.Backend(cache.NewMemoryBackend())
	if cfg.RedisEnabled {
		rb, err := cache.NewRedisBackend(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory durable tier", "error", err)
		} else {
			defer rb.Close()
			durable = rb
		}
	}
	resultCache := cache.New(cache.NewMemoryBackend(), durable, cfg.CacheTTL, logger)

	var vendors vendor.Source = vendor.StaticSource{Cards: vendor.DemoCards()}
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.NewPool(dbCtx, cfg.DatabaseURL)
		dbCancel()
		if err != nil {
			logger.Error("failed to connect db", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		vendors = vendor.NewPostgresSource(pool, logger)
	} else {
		logger.Info("DATABASE_URL not set, serving demo rate cards")
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.KafkaBroker != "" {
		kp := events.NewKafkaProducer(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		defer kp.Close()
		publisher = kp
	}

	remote := pricing.NewByName(cfg.PricingProvider, cfg.PricingAPIURL, cfg.PricingTimeout)

	svc := compare.NewService(compare.Deps{
		Cache:             resultCache,
		Distance:          distance.NewClient(cfg.DistanceAPIURL, cfg.DistanceTimeout, logger),
		Vendors:           vendors,
		Chain:             pricing.NewChain(remote, index, cfg.ReferenceVendor, logger),
		Aggregator:        quote.NewAggregator(quote.DefaultOverlays(cfg.PremiumCompany)...),
		Publisher:         publisher,
		VolumetricDivisor: cfg.VolumetricDivisor,
		Logger:            logger,
	})

	go resultCache.RunSweeper(ctx, cfg.CacheSweepInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(svc, index),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("api listening",
			"addr", srv.Addr,
			"pricing_provider", cfg.PricingProvider,
			"redis_enabled", cfg.RedisEnabled,
			"kafka_enabled", cfg.KafkaBroker != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
