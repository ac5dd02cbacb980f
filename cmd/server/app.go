package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/config"
	"github.com/kanbanlab/taskboard-api/internal/platform/cache"
	"github.com/kanbanlab/taskboard-api/internal/platform/postgres"
	"github.com/kanbanlab/taskboard-api/internal/service"
	"github.com/kanbanlab/taskboard-api/internal/service/auth"
	"github.com/kanbanlab/taskboard-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore store.TaskStore

	jwtService  auth.JWTService
	taskService *service.TaskService

	redisClient *redis.Client
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	var listCache service.ListCache
	if cfg.Cache.Enabled() {
		opts, err := redis.ParseURL(cfg.Cache.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cache URL: %w", err)
		}
		app.redisClient = redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := app.redisClient.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping cache: %w", err)
		}

		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		listCache = cache.NewTaskListCache(app.redisClient, ttl, logger)
		logger.Info("list cache initialized", "ttl_seconds", cfg.Cache.TTLSeconds)
	} else {
		logger.Info("list cache disabled, all reads go to the database")
	}

	repo := service.NewTaskRepositoryAdapter(app.taskStore, db)
	app.taskService = service.NewTaskService(repo, listCache, logger)

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Failed to close cache client", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
