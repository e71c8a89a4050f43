package handler

import (
	"context"
	"net/http"
	"time"

	"newsarchive/internal/pkg/timeutil"
)

// HealthChecker defines dependencies that can be health-checked.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles /health endpoint.
// Cache is only set when the Redis-backed rate limiter is enabled.
type HealthHandler struct {
	DB      HealthChecker
	Cache   HealthChecker
	Timeout time.Duration
}

type healthComponent struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components []healthComponent `json:"components"`
	CheckedAt  time.Time         `json:"checked_at"`
}

// ServeHTTP responds with dependency status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	status := http.StatusOK
	components := []healthComponent{}
	check := func(name string, checker HealthChecker) {
		if checker == nil {
			return
		}
		if err := checker.HealthCheck(ctx); err != nil {
			status = http.StatusServiceUnavailable
			components = append(components, healthComponent{Name: name, Status: "unhealthy", Error: err.Error()})
			return
		}
		components = append(components, healthComponent{Name: name, Status: "healthy"})
	}
	check("database", h.DB)
	check("redis", h.Cache)

	writeJSON(w, status, healthResponse{
		Status:     statusLabel(status),
		Components: components,
		CheckedAt:  timeutil.Now(),
	})
}

func statusLabel(code int) string {
	if code == http.StatusOK {
		return "healthy"
	}
	return "unhealthy"
}
