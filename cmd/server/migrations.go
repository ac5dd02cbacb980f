package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kanbanlab/taskboard-api/internal/config"
	"github.com/pressly/goose/v3"
)

// runMigrations applies all pending schema migrations at startup. The
// migrations directory comes from configuration so deployments can mount it
// wherever they like.
func runMigrations(db *sql.DB, cfg *config.Config, logger *slog.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	before, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	if err := goose.Up(db, cfg.Database.MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	if after > before {
		logger.Info("Applied schema migrations",
			"from_version", before,
			"to_version", after)
	} else {
		logger.Info("Schema is up to date", "version", after)
	}
	return nil
}
