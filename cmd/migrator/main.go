package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"newsarchive/internal/platform/config"
	"newsarchive/internal/platform/logger"
	"newsarchive/internal/platform/migration"
)

const usage = `usage: migrator [flags] <command>

commands:
  up            apply all pending migrations
  down [-steps] roll back migrations (default 1)
  version       print the current schema version
  force -v N    set the schema version without running migrations

flags:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("migrator", flag.ContinueOnError)
	path := fs.String("path", "", "migrations directory (default APP_MIGRATIONS_PATH)")
	steps := fs.Int("steps", 1, "number of migrations to roll back with down")
	version := fs.Int("v", -1, "version for force")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one command")
	}

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  logger.Level(cfg.App.LogLevel),
		Format: logger.Format(cfg.App.LogFormat),
	})
	logger.SetDefault(log)

	migrationsPath := *path
	if migrationsPath == "" {
		migrationsPath = cfg.App.MigrationsPath
	}

	runner, err := migration.New(migration.Config{
		DatabaseURL:    cfg.Database.ConnectionString(),
		MigrationsPath: migrationsPath,
		Logger:         log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			log.Warn("failed to close migration runner", "error", err)
		}
	}()

	switch cmd := fs.Arg(0); cmd {
	case "up":
		return runner.Up()
	case "down":
		return runner.Down(*steps)
	case "version":
		v, dirty, err := runner.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return nil
	case "force":
		if *version < 0 {
			return fmt.Errorf("force requires -v")
		}
		return runner.Force(*version)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
