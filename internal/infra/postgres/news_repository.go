package postgres

import (
	"context"
	"fmt"
	"strings"

	"newsarchive/internal/domain/news"
	"newsarchive/internal/domain/repository"
)

var _ repository.NewsRepository = (*NewsRepository)(nil)

const newsColumns = "id, title, announce, content, published_at, created_at, updated_at"

// NewsRepository implements repository.NewsRepository backed by PostgreSQL.
type NewsRepository struct {
	db Querier
}

// NewNewsRepository creates a new NewsRepository.
func NewNewsRepository(db Querier) *NewsRepository {
	return &NewsRepository{db: db}
}

// FetchPage returns the page window and the total match count. The total
// comes from a window function; when the page has no rows it falls back to
// a separate count so out-of-range pages still report it.
func (r *NewsRepository) FetchPage(ctx context.Context, q news.ListQuery) ([]*news.News, int64, error) {
	query := q
	query.Normalize()

	sql, args := buildFetchPageSQL(query)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch news page: %w", err)
	}
	defer rows.Close()

	var (
		items []*news.News
		total int64
	)
	for rows.Next() {
		item := &news.News{}
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Announce,
			&item.Content,
			&item.PublishedAt,
			&item.CreatedAt,
			&item.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan news: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate news: %w", err)
	}

	if len(items) == 0 {
		count, err := r.Count(ctx, query)
		if err != nil {
			return nil, 0, err
		}
		return items, count, nil
	}

	if err := r.loadTags(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Count returns the number of news records matching the query filters.
func (r *NewsRepository) Count(ctx context.Context, q news.ListQuery) (int64, error) {
	where, args, _ := buildNewsFilter(q)
	sql := "SELECT COUNT(1) FROM news n" + where
	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return count, nil
}

func (r *NewsRepository) loadTags(ctx context.Context, items []*news.News) error {
	ids := make([]news.ID, 0, len(items))
	byID := make(map[news.ID]*news.News, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
		byID[item.ID] = item
	}

	const query = "SELECT nt.news_id, t.id, t.name FROM news_tags nt INNER JOIN tags t ON t.id = nt.tag_id WHERE nt.news_id = ANY($1) ORDER BY t.name ASC"

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load news tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var newsID news.ID
		var tagging news.Tagging
		if err := rows.Scan(&newsID, &tagging.TagID, &tagging.Name); err != nil {
			return fmt.Errorf("scan news tags: %w", err)
		}
		if item, ok := byID[newsID]; ok {
			item.Tags = append(item.Tags, tagging)
		}
	}
	return rows.Err()
}

func buildFetchPageSQL(q news.ListQuery) (string, []any) {
	where, args, argPos := buildNewsFilter(q)

	builder := strings.Builder{}
	builder.WriteString("SELECT ")
	builder.WriteString(newsColumns)
	builder.WriteString(", COUNT(1) OVER() AS total FROM news n")
	builder.WriteString(where)
	builder.WriteString(" ORDER BY published_at DESC, id DESC")
	builder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, q.PageSize, q.Offset())

	return builder.String(), args
}

// buildNewsFilter returns the WHERE clause (with a leading space, or empty),
// its arguments and the next free placeholder position.
func buildNewsFilter(q news.ListQuery) (string, []any, int) {
	var conditions []string
	var args []any
	argPos := 1

	if q.HasDateFilter() {
		conditions = append(conditions, fmt.Sprintf("published_at >= $%d", argPos))
		args = append(args, q.DateFrom)
		argPos++
	}

	if q.HasTagFilter() {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM news_tags nt WHERE nt.news_id = n.id AND nt.tag_id = ANY($%d))", argPos))
		args = append(args, q.TagIDs)
		argPos++
	}

	if len(conditions) == 0 {
		return "", args, argPos
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, argPos
}
