package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	testcontainers "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupPostgres starts a disposable PostgreSQL container and applies the
// schema migrations. The test is skipped when no container runtime is available.
func setupPostgres(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16"),
		tcpostgres.WithDatabase("test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
	)
	if err != nil {
		t.Skipf("skipping postgres integration test: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// The container may still be starting.
	for i := 0; i < 50; i++ {
		if err = pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	require.NoError(t, err, "ping test database")

	require.NoError(t, applyTestMigrations(ctx, pool))

	return pool, func() {
		pool.Close()
		_ = container.Terminate(context.Background())
	}
}

func applyTestMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	dir, err := findMigrationsDir()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for _, file := range files {
		if err := executeSQLFile(ctx, pool, file); err != nil {
			return err
		}
	}
	return nil
}

func findMigrationsDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for i := 0; i < 5; i++ {
		dir := filepath.Join(cwd, "migrations")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
		cwd = filepath.Dir(cwd)
	}
	return "", fmt.Errorf("migrations directory not found")
}

func executeSQLFile(ctx context.Context, pool *pgxpool.Pool, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, stmt := range splitStatements(string(content)) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec %s: %w", path, err)
		}
	}
	return nil
}

// splitStatements splits SQL content into individual statements.
func splitStatements(sql string) []string {
	var builder strings.Builder
	var statements []string
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSpace(strings.TrimSuffix(builder.String(), ";")))
			builder.Reset()
		} else {
			builder.WriteString("\n")
		}
	}
	if residual := strings.TrimSpace(builder.String()); residual != "" {
		statements = append(statements, residual)
	}
	return statements
}

func insertTestTag(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), "INSERT INTO tags (name) VALUES ($1) RETURNING id", name).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertTestNews(t *testing.T, pool *pgxpool.Pool, title string, publishedAt time.Time, tagIDs ...int64) int64 {
	t.Helper()
	ctx := context.Background()
	var id int64
	err := pool.QueryRow(ctx,
		"INSERT INTO news (title, announce, content, published_at) VALUES ($1, $2, $3, $4) RETURNING id",
		title, title+" announce", title+" content", publishedAt,
	).Scan(&id)
	require.NoError(t, err)
	for _, tagID := range tagIDs {
		_, err := pool.Exec(ctx, "INSERT INTO news_tags (news_id, tag_id) VALUES ($1, $2)", id, tagID)
		require.NoError(t, err)
	}
	return id
}
