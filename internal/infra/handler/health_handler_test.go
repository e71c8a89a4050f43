package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsarchive/internal/pkg/timeutil"
)

func healthyChecker() *mockHealthChecker {
	return &mockHealthChecker{}
}

func failingChecker(msg string) *mockHealthChecker {
	return &mockHealthChecker{
		healthCheckFunc: func(ctx context.Context) error {
			return errors.New(msg)
		},
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         HealthChecker
		cache      HealthChecker
		wantStatus int
		wantLabel  string
		wantFailed map[string]string
		wantCount  int
	}{
		{
			name:       "database only",
			db:         healthyChecker(),
			wantStatus: http.StatusOK,
			wantLabel:  "healthy",
			wantCount:  1,
		},
		{
			name:       "database and rate limit store",
			db:         healthyChecker(),
			cache:      healthyChecker(),
			wantStatus: http.StatusOK,
			wantLabel:  "healthy",
			wantCount:  2,
		},
		{
			name:       "database down",
			db:         failingChecker("connection refused"),
			cache:      healthyChecker(),
			wantStatus: http.StatusServiceUnavailable,
			wantLabel:  "unhealthy",
			wantFailed: map[string]string{"database": "connection refused"},
			wantCount:  2,
		},
		{
			name:       "redis down",
			db:         healthyChecker(),
			cache:      failingChecker("redis connection timeout"),
			wantStatus: http.StatusServiceUnavailable,
			wantLabel:  "unhealthy",
			wantFailed: map[string]string{"redis": "redis connection timeout"},
			wantCount:  2,
		},
		{
			name:       "everything down",
			db:         failingChecker("database down"),
			cache:      failingChecker("cache down"),
			wantStatus: http.StatusServiceUnavailable,
			wantLabel:  "unhealthy",
			wantFailed: map[string]string{"database": "database down", "redis": "cache down"},
			wantCount:  2,
		},
		{
			name:       "nothing configured",
			wantStatus: http.StatusOK,
			wantLabel:  "healthy",
			wantCount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(RouterConfig{
				HealthHandler: &HealthHandler{DB: tt.db, Cache: tt.cache},
			})
			defer ts.Close()

			resp := ts.get(t, "/health")
			assertStatus(t, resp, tt.wantStatus)
			assertContentType(t, resp, "application/json")

			var result healthResponse
			decodeJSON(t, resp, &result)

			assert.Equal(t, tt.wantLabel, result.Status)
			assert.False(t, result.CheckedAt.IsZero())
			require.Len(t, result.Components, tt.wantCount)
			for _, c := range result.Components {
				if msg, failed := tt.wantFailed[c.Name]; failed {
					assert.Equal(t, "unhealthy", c.Status, c.Name)
					assert.Equal(t, msg, c.Error, c.Name)
					continue
				}
				assert.Equal(t, "healthy", c.Status, c.Name)
				assert.Empty(t, c.Error, c.Name)
			}
		})
	}
}

func TestHealthHandler_NotUnderAPIBasePath(t *testing.T) {
	ts := newTestServer(RouterConfig{HealthHandler: &HealthHandler{DB: healthyChecker()}})
	defer ts.Close()

	resp := ts.get(t, apiPath("/health"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthHandler_Timeout(t *testing.T) {
	handler := &HealthHandler{
		DB: &mockHealthChecker{
			healthCheckFunc: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		},
		Timeout: 10 * time.Millisecond,
	}

	ts := newTestServer(RouterConfig{HealthHandler: handler})
	defer ts.Close()

	resp := ts.get(t, "/health")
	assertStatus(t, resp, http.StatusServiceUnavailable)

	var result healthResponse
	decodeJSON(t, resp, &result)
	require.Len(t, result.Components, 1)
	assert.Equal(t, "database", result.Components[0].Name)
	assert.Contains(t, result.Components[0].Error, context.DeadlineExceeded.Error())
}

func TestHealthHandler_CheckedAtUsesAppLocation(t *testing.T) {
	require.NoError(t, timeutil.SetLocation("Asia/Tokyo"))
	t.Cleanup(func() { _ = timeutil.SetLocation("UTC") })

	ts := newTestServer(RouterConfig{HealthHandler: &HealthHandler{}})
	defer ts.Close()

	resp := ts.get(t, "/health")
	assertStatus(t, resp, http.StatusOK)

	var result healthResponse
	decodeJSON(t, resp, &result)
	_, offset := result.CheckedAt.Zone()
	assert.Equal(t, 9*60*60, offset)
}
