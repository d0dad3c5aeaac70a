package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"profverify/internal/api"
	"profverify/internal/config"
	"profverify/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if config.LogLevel() == "debug" {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Postgres is the primary store when configured.
	var pool *pgxpool.Pool
	var primary *store.Backend
	if dbURL := config.DatabaseURL(); dbURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		primary = &store.Backend{
			ProfileStore: store.NewProfileStore(pool),
			HistoryStore: store.NewHistoryStore(pool),
		}
	}

	// SQLite is the local fallback when configured.
	var fallback *store.SQLiteStore
	if path := config.SQLitePath(); path != "" {
		var err error
		fallback, err = store.OpenSQLite(path)
		if err != nil {
			logger.Fatal("failed to open sqlite store", zap.Error(err))
		}
		defer func() { _ = fallback.Close() }()
		logger.Info("sqlite store ready", zap.String("path", path))
	}

	if primary == nil && fallback == nil {
		logger.Warn("no storage configured, profiles and history are disabled")
	}

	failover := store.NewFailoverStore(primary, fallback, logger)

	app := api.NewApp(pool, failover, failover, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	// Let in-flight history writes land before closing stores.
	app.Verifier.Flush()

	logger.Info("server stopped")
}
