package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Babidiii/webhoogz/internal/api"
	"github.com/Babidiii/webhoogz/internal/config"
	"github.com/Babidiii/webhoogz/internal/engine"
	"github.com/Babidiii/webhoogz/internal/events"
	"github.com/Babidiii/webhoogz/internal/hooks"
	"github.com/Babidiii/webhoogz/internal/store"
	"github.com/Babidiii/webhoogz/internal/webhook"
	ws "github.com/Babidiii/webhoogz/internal/websocket"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()
	logger.Info("connected to PostgreSQL")

	if err := pgStore.RunMigrations(ctx, "migrations"); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	redisStore, err := store.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisStore.Close()
	logger.Info("connected to Redis")

	// Event registry: populated once, before any dispatch path is reachable
	registry := events.NewRegistry()
	events.RegisterBuiltins(registry, pgStore)

	// Live feed for the admin log view
	hub := ws.NewHub(logger)
	go hub.Run()

	// Delivery pipeline
	deliverer := webhook.NewDeliverer(cfg.HTTPTimeout, pgStore, hub, logger)
	pool := webhook.NewPool(cfg.NumWorkers, deliverer, logger)
	pool.Start(ctx)
	dispatcher := webhook.NewDispatcher(pgStore, pool, logger)

	// Trigger layer
	debouncer := engine.NewDebouncer(redisStore.Client(), logger, engine.ScoreboardWindow)
	claims := engine.NewClaimStore(redisStore.Client(), logger)
	hk := hooks.New(registry, dispatcher, pgStore, debouncer, claims, logger)

	router := api.NewRouter(pgStore, registry, hk, hub, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Drain in-flight deliveries before closing the stores
	pool.Stop()

	logger.Info("server stopped")
}
