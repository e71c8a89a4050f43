package news

import (
	"math"
	"time"

	"newsarchive/internal/domain/tag"
)

// PageSize is the fixed number of records per listing page.
const PageSize = 5

// ID represents News identifier.
type ID = int64

// News represents a published news record.
type News struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Announce    string    `json:"announce"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []Tagging `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tagging represents a tag attached to a news record.
type Tagging struct {
	TagID tag.ID `json:"tag_id"`
	Name  string `json:"name"`
}

// ListQuery represents the filters and window applied when listing news.
//
// A zero DateFrom means no date filter. An empty TagIDs means no tag filter;
// otherwise a record matches when it carries at least one of the identifiers.
type ListQuery struct {
	Page     int
	PageSize int
	DateFrom time.Time
	TagIDs   []tag.ID
}

// Normalize applies defaults so the query is always windowed.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = PageSize
	}
}

// HasDateFilter reports whether a lower publish bound is set.
func (q ListQuery) HasDateFilter() bool {
	return !q.DateFrom.IsZero()
}

// HasTagFilter reports whether records must carry one of TagIDs.
func (q ListQuery) HasTagFilter() bool {
	return len(q.TagIDs) > 0
}

// Offset returns the number of records skipped before the page window.
// It saturates at math.MaxInt64 for absurdly large pages.
func (q ListQuery) Offset() int64 {
	page, size := int64(q.Page), int64(q.PageSize)
	if page <= 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt64/size {
		return math.MaxInt64
	}
	return (page - 1) * size
}
