// Package testutils provides database testing helpers built around
// transaction isolation: each test runs inside its own transaction which is
// rolled back on completion, so tests can run in parallel against the same
// database without cleanup code.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
)

// migrationsOnce ensures migrations run at most once across all tests.
var migrationsOnce sync.Once

// testDatabaseURL returns the connection string for integration tests, or
// an empty string when none is configured.
func testDatabaseURL() string {
	for _, key := range []string{"TASKBOARD_TEST_DB_URL", "DATABASE_URL"} {
		if url := os.Getenv(key); url != "" {
			return url
		}
	}
	return ""
}

// IsIntegrationTestEnvironment reports whether a test database is
// configured. Tests that need one should skip when this returns false.
func IsIntegrationTestEnvironment() bool {
	return testDatabaseURL() != ""
}

// GetTestDB opens a connection to the configured test database and ensures
// migrations have been applied. Returns an error when no test database is
// configured; callers typically skip in that case.
func GetTestDB() (*sql.DB, error) {
	dbURL := testDatabaseURL()
	if dbURL == "" {
		return nil, fmt.Errorf("no test database configured: set TASKBOARD_TEST_DB_URL or DATABASE_URL")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping test database: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping test database: %w", err)
	}

	var migrationErr error
	migrationsOnce.Do(func() {
		migrationErr = runMigrations(db)
	})
	if migrationErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to run migrations: %w (close: %v)", migrationErr, closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", migrationErr)
	}

	return db, nil
}

// GetTestDBWithT is GetTestDB for use inside a test: it skips the test when
// no database is configured and registers connection cleanup automatically.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	if !IsIntegrationTestEnvironment() {
		t.Skip("skipping: no test database configured (set TASKBOARD_TEST_DB_URL)")
	}

	db, err := GetTestDB()
	if err != nil {
		t.Fatalf("failed to get test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, isolating
// the test's writes from the database and from other parallel tests.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// runMigrations applies all pending migrations from the repository's
// migrations directory.
func runMigrations(db *sql.DB) error {
	root, err := findProjectRoot()
	if err != nil {
		return err
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, filepath.Join(root, "migrations")); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// findProjectRoot walks up from this file's directory until it finds go.mod.
func findProjectRoot() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}

	dir := filepath.Dir(currentFile)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		dir = parent
	}
}
