package news

import (
	"context"
	"strconv"
	"strings"
	"time"

	domainNews "newsarchive/internal/domain/news"
	"newsarchive/internal/domain/tag"
	"newsarchive/internal/pkg/timeutil"
)

// Params holds listing parameters exactly as received from the transport.
// Empty strings mean the parameter was not supplied.
type Params struct {
	Page  string
	Tags  []string
	Year  string
	Month string
}

// ParsePage interprets the page parameter. Missing, non-numeric and
// non-positive values all yield the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseDateFrom builds the lower publish bound for year and month.
// ok is false when either value is missing. A pair that does not name a
// calendar month is reported as an illegal date.
func ParseDateFrom(year, month string, loc *time.Location) (from time.Time, ok bool, err error) {
	year, month = strings.TrimSpace(year), strings.TrimSpace(month)
	if year == "" || month == "" {
		return time.Time{}, false, nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false, domainNews.NewIllegalDateError()
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false, domainNews.NewIllegalDateError()
	}
	from, err = timeutil.MonthStart(y, m, loc)
	if err != nil {
		return time.Time{}, false, domainNews.NewIllegalDateError()
	}
	return from, true, nil
}

// NormalizeTagNames trims and de-duplicates names, keeping the first
// occurrence order. Blank names are dropped. Case is preserved.
func NormalizeTagNames(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, value := range raw {
		name := tag.NormalizeName(value)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// BuildQuery interprets raw parameters into a listing query. The date is
// validated before any tag is looked up so an illegal date never reaches
// storage.
func (s *Service) BuildQuery(ctx context.Context, params Params) (domainNews.ListQuery, error) {
	query := domainNews.ListQuery{
		Page:     ParsePage(params.Page),
		PageSize: domainNews.PageSize,
	}

	from, ok, err := ParseDateFrom(params.Year, params.Month, s.location())
	if err != nil {
		return domainNews.ListQuery{}, err
	}
	if ok {
		query.DateFrom = from
	}

	tagIDs, err := s.resolveTagFilter(ctx, NormalizeTagNames(params.Tags))
	if err != nil {
		return domainNews.ListQuery{}, err
	}
	query.TagIDs = tagIDs

	return query, nil
}

func (s *Service) resolveTagFilter(ctx context.Context, names []string) ([]tag.ID, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ids := make([]tag.ID, 0, len(names))
	seen := make(map[tag.ID]struct{}, len(names))
	for _, name := range names {
		id, ok, err := s.tags.ResolveID(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logDebug("tag name not resolved", "tag", name)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []tag.ID{tag.NoMatchID}, nil
	}
	return ids, nil
}
