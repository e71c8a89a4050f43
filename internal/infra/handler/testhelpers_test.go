package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	domainNews "newsarchive/internal/domain/news"
	domainTag "newsarchive/internal/domain/tag"
	usecaseNews "newsarchive/internal/usecase/news"
	usecaseTag "newsarchive/internal/usecase/tag"
)

const testAPIBasePath = "/api"

// testServer wraps httptest.Server for integration testing.
type testServer struct {
	*httptest.Server
	router http.Handler
}

// newTestServer creates a test HTTP server with the given handlers.
func newTestServer(cfg RouterConfig) *testServer {
	if cfg.APIBasePath == "" {
		cfg.APIBasePath = testAPIBasePath
	}
	router := NewRouter(cfg)
	srv := httptest.NewServer(router)
	return &testServer{
		Server: srv,
		router: router,
	}
}

// get performs a GET request to the test server.
func (ts *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func apiPath(route string) string {
	return testAPIBasePath + route
}

// decodeJSON decodes response body as JSON.
func decodeJSON(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
}

// assertStatus checks HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Errorf("status = %d, want %d", resp.StatusCode, want)
	}
}

// assertContentType checks Content-Type header.
func assertContentType(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	got := resp.Header.Get("Content-Type")
	if got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
}

// mockNewsRepository records every page query it receives.
type mockNewsRepository struct {
	mu        sync.Mutex
	fetchFunc func(ctx context.Context, query domainNews.ListQuery) ([]*domainNews.News, int64, error)
	items     []*domainNews.News
	total     int64
	queries   []domainNews.ListQuery
}

func (m *mockNewsRepository) FetchPage(ctx context.Context, query domainNews.ListQuery) ([]*domainNews.News, int64, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, query)
	}
	return m.items, m.total, nil
}

func (m *mockNewsRepository) calls() []domainNews.ListQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domainNews.ListQuery(nil), m.queries...)
}

// mockTagRepository resolves names from a fixed table.
type mockTagRepository struct {
	mu      sync.Mutex
	tags    map[string]domainTag.ID
	err     error
	lookups []string
}

func (m *mockTagRepository) GetByName(ctx context.Context, name string) (*domainTag.Tag, error) {
	m.mu.Lock()
	m.lookups = append(m.lookups, name)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	id, ok := m.tags[name]
	if !ok {
		return nil, fmt.Errorf("get tag by name %q: %w", name, domainTag.ErrNotFound)
	}
	return &domainTag.Tag{ID: id, Name: name}, nil
}

func (m *mockTagRepository) lookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lookups)
}

// mockHealthChecker is a mock implementation of health checker.
type mockHealthChecker struct {
	healthCheckFunc func(ctx context.Context) error
}

func (m *mockHealthChecker) HealthCheck(ctx context.Context) error {
	if m.healthCheckFunc != nil {
		return m.healthCheckFunc(ctx)
	}
	return nil
}

// newTestNewsHandler wires a NewsHandler over the real use cases.
func newTestNewsHandler(newsRepo *mockNewsRepository, tagRepo *mockTagRepository, formatter NewsFormatter) *NewsHandler {
	if tagRepo == nil {
		tagRepo = &mockTagRepository{}
	}
	svc := usecaseNews.NewService(newsRepo, usecaseTag.NewService(tagRepo), nil)
	return NewNewsHandler(svc, formatter, nil)
}

// newTestNews creates a record with sensible defaults.
func newTestNews(id domainNews.ID, title string, publishedAt time.Time, tags ...domainNews.Tagging) *domainNews.News {
	return &domainNews.News{
		ID:          id,
		Title:       title,
		Announce:    strings.ToLower(title) + " announce",
		Content:     strings.ToLower(title) + " content",
		PublishedAt: publishedAt,
		Tags:        tags,
		CreatedAt:   publishedAt,
		UpdatedAt:   publishedAt,
	}
}

// listResponse mirrors newsListResponse with decoded items.
type listResponse struct {
	Items [][]newsItemResponse `json:"items"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Total int64                `json:"total"`
}

// assertNewsListResponse validates the structure of the listing response.
func assertNewsListResponse(t *testing.T, resp *http.Response) listResponse {
	t.Helper()
	assertStatus(t, resp, http.StatusOK)
	assertContentType(t, resp, "application/json")

	var result listResponse
	decodeJSON(t, resp, &result)
	return result
}

// assertErrorResponse validates error response structure.
func assertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int) map[string]string {
	t.Helper()
	assertStatus(t, resp, expectedStatus)
	assertContentType(t, resp, "application/json")

	var result map[string]string
	decodeJSON(t, resp, &result)
	if _, ok := result["error"]; !ok {
		t.Error("error response missing 'error' field")
	}
	return result
}
