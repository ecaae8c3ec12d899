// Package main is the entry point for the folio API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/internal/cache"
	"folio/internal/category"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/router"
	"folio/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text with debug output in development, JSON otherwise.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"cache_backend", cfg.CacheBackend,
		"cache_ttl", cfg.CacheTTL.String(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	checks := map[string]router.HealthCheck{
		"postgres": db.PingContext,
	}

	// Category cache: shared in Valkey, or per-process in memory.
	var categoryCache category.Cache
	switch cfg.CacheBackend {
	case config.CacheBackendValkey:
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		categoryCache = cache.NewCategoryCache(valkeyClient, cfg.CacheTTL)
		checks["valkey"] = func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() }
	default:
		categoryCache = category.NewMemoryCache[[]models.Category](cfg.CacheTTL)
	}

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	tagStore := store.NewTagStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	// Every category write clears the cache and leaves an audit entry.
	categories := category.NewService(categoryStore, categoryCache,
		category.OnInvalidate(func(ctx context.Context, action string, id int64) {
			cacheLogStore.Log(ctx, "category", id, action)
		}),
	)

	writeLimiter := middleware.NewRateLimiter(cfg.WriteRateLimit, time.Minute)
	defer writeLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Categories:   handlers.NewCategories(categories),
		Posts:        handlers.NewPosts(postStore, tagStore, categories),
		CacheLog:     handlers.NewCacheLog(cacheLogStore),
		WriteLimiter: writeLimiter,
		Checks:       checks,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
