package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Config holds migration configuration.
type Config struct {
	// DatabaseURL accepts postgres:// and postgresql:// URLs.
	DatabaseURL string
	// MigrationsPath is a directory or a file:// source URL.
	MigrationsPath string
	Logger         *slog.Logger
}

// Runner handles database migrations.
type Runner struct {
	migrate *migrate.Migrate
	logger  *slog.Logger
}

// New creates a new migration runner.
func New(cfg Config) (*Runner, error) {
	sourceURL, err := SourceURL(cfg.MigrationsPath)
	if err != nil {
		return nil, err
	}
	m, err := migrate.New(sourceURL, DatabaseURL(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		migrate: m,
		logger:  logger,
	}, nil
}

// SourceURL converts a migrations directory into a file:// source URL.
func SourceURL(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("migrations path is required")
	}
	if strings.Contains(trimmed, "://") {
		return trimmed, nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve migrations path: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// DatabaseURL rewrites a PostgreSQL URL to the scheme of the pgx/v5 driver.
func DatabaseURL(raw string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(raw, prefix) {
			return "pgx5://" + strings.TrimPrefix(raw, prefix)
		}
	}
	return raw
}

// Up runs all available migrations.
func (r *Runner) Up() error {
	if err := r.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return r.logVersion()
}

// Down rolls back the given number of migrations.
func (r *Runner) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	if err := r.migrate.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return r.logVersion()
}

// Force sets the migration version without running migrations.
func (r *Runner) Force(version int) error {
	if err := r.migrate.Force(version); err != nil {
		return fmt.Errorf("migration force failed: %w", err)
	}
	return nil
}

// Version returns the current migration version.
func (r *Runner) Version() (uint, bool, error) {
	version, dirty, err := r.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Close closes the migration runner.
func (r *Runner) Close() error {
	srcErr, dbErr := r.migrate.Close()
	if srcErr != nil {
		return fmt.Errorf("failed to close source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}

func (r *Runner) logVersion() error {
	version, dirty, err := r.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		r.logger.Info("no migrations applied")
		return nil
	}
	r.logger.Info("schema version", "version", version, "dirty", dirty)
	return nil
}
