package repository

import (
	"context"

	"newsarchive/internal/domain/news"
	"newsarchive/internal/domain/tag"
)

// NewsRepository defines storage operations for news records.
type NewsRepository interface {
	// FetchPage returns the records inside the query window ordered by
	// publish date (newest first) and the number of records matching the
	// filters regardless of the window.
	FetchPage(ctx context.Context, query news.ListQuery) ([]*news.News, int64, error)
}

// TagRepository defines storage operations for tags.
type TagRepository interface {
	// GetByName returns tag.ErrNotFound (wrapped) when the name is unknown.
	GetByName(ctx context.Context, name string) (*tag.Tag, error)
}
