package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainNews "newsarchive/internal/domain/news"
	"newsarchive/internal/domain/repository"
	"newsarchive/internal/domain/tag"
	"newsarchive/internal/pkg/timeutil"
)

// TagResolver maps a tag name to its identifier when such a tag exists.
type TagResolver interface {
	ResolveID(ctx context.Context, name string) (tag.ID, bool, error)
}

// Result represents one listing page.
type Result struct {
	News  []*domainNews.News
	Page  int
	Limit int
	Total int64
}

// Service orchestrates the news listing use case.
type Service struct {
	repo     repository.NewsRepository
	tags     TagResolver
	logger   *slog.Logger
	location func() *time.Location
}

// NewService instantiates the service. logger may be nil.
func NewService(repo repository.NewsRepository, tags TagResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tags:     tags,
		logger:   logger,
		location: timeutil.Location,
	}
}

// List interprets params and returns the matching page.
func (s *Service) List(ctx context.Context, params Params) (Result, error) {
	query, err := s.BuildQuery(ctx, params)
	if err != nil {
		return Result{}, err
	}

	items, total, err := s.repo.FetchPage(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("fetch news page: %w", err)
	}

	return Result{
		News:  items,
		Page:  query.Page,
		Limit: query.PageSize,
		Total: total,
	}, nil
}

func (s *Service) logDebug(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, args...)
}
