package handler

import (
	"errors"
	"time"

	domainNews "newsarchive/internal/domain/news"
	"newsarchive/internal/domain/tag"
)

// NewsFormatter renders one stored record into its JSON representation.
type NewsFormatter interface {
	Format(item *domainNews.News) (any, error)
}

// NewsFormatterFunc adapts a function to NewsFormatter.
type NewsFormatterFunc func(item *domainNews.News) (any, error)

// Format calls f(item).
func (f NewsFormatterFunc) Format(item *domainNews.News) (any, error) {
	return f(item)
}

// DefaultNewsFormatter renders the public fields of a record.
type DefaultNewsFormatter struct{}

var errNilNews = errors.New("news record is nil")

// Format implements NewsFormatter.
func (DefaultNewsFormatter) Format(item *domainNews.News) (any, error) {
	if item == nil {
		return nil, errNilNews
	}
	tags := make([]newsTagResponse, 0, len(item.Tags))
	for _, t := range item.Tags {
		tags = append(tags, newsTagResponse{ID: t.TagID, Name: t.Name})
	}
	return newsItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Announce:    item.Announce,
		Content:     item.Content,
		PublishedAt: item.PublishedAt,
		Tags:        tags,
	}, nil
}

type newsItemResponse struct {
	ID          domainNews.ID     `json:"id"`
	Title       string            `json:"title"`
	Announce    string            `json:"announce"`
	Content     string            `json:"content"`
	PublishedAt time.Time         `json:"published_at"`
	Tags        []newsTagResponse `json:"tags"`
}

type newsTagResponse struct {
	ID   tag.ID `json:"id"`
	Name string `json:"name"`
}
