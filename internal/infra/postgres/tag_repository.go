package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"newsarchive/internal/domain/repository"
	"newsarchive/internal/domain/tag"
)

var _ repository.TagRepository = (*TagRepository)(nil)

// TagRepository implements repository.TagRepository backed by PostgreSQL.
type TagRepository struct {
	db Querier
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db Querier) *TagRepository {
	return &TagRepository{db: db}
}

// GetByName retrieves a tag by exact name. Surrounding spaces are ignored.
func (r *TagRepository) GetByName(ctx context.Context, name string) (*tag.Tag, error) {
	norm := tag.NormalizeName(name)
	if norm == "" {
		return nil, fmt.Errorf("tag name is required")
	}
	const query = `SELECT id, name FROM tags WHERE name = $1`
	var (
		id     tag.ID
		stored string
	)
	if err := r.db.QueryRow(ctx, query, norm).Scan(&id, &stored); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get tag by name %q: %w", norm, tag.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	result, err := tag.New(id, stored)
	if err != nil {
		return nil, fmt.Errorf("get tag by name %q: %w", norm, err)
	}
	return &result, nil
}
