package tag

import (
	"context"
	"errors"
	"fmt"

	"newsarchive/internal/domain/tag"
)

// Repository describes DB operations required by the tag service.
type Repository interface {
	GetByName(ctx context.Context, name string) (*tag.Tag, error)
}

// Service exposes tag operations.
type Service struct {
	repo Repository
}

// NewService builds a tag service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveID looks the tag up by name and returns its identifier if present.
// Unknown and blank names report ok == false without an error; storage
// failures are returned as is.
func (s *Service) ResolveID(ctx context.Context, name string) (tag.ID, bool, error) {
	norm := tag.NormalizeName(name)
	if norm == "" {
		return tag.NoMatchID, false, nil
	}
	found, err := s.repo.GetByName(ctx, norm)
	if err != nil {
		if errors.Is(err, tag.ErrNotFound) {
			return tag.NoMatchID, false, nil
		}
		return tag.NoMatchID, false, fmt.Errorf("resolve tag %q: %w", norm, err)
	}
	if found == nil || found.ID <= tag.NoMatchID {
		return tag.NoMatchID, false, nil
	}
	return found.ID, true, nil
}
