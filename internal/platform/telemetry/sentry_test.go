package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsarchive/internal/platform/config"
)

func TestInitSentry_Disabled(t *testing.T) {
	enabled, err := InitSentry(config.SentryConfig{DSN: "  "})
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestInitSentry_InvalidDSN(t *testing.T) {
	enabled, err := InitSentry(config.SentryConfig{DSN: "not a dsn"})
	require.Error(t, err)
	assert.False(t, enabled)
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.SentryConfig{DSN: " https://key@example.com/1 ", Release: "v1.2.0 "})
	assert.Equal(t, "https://key@example.com/1", opts.Dsn)
	assert.Equal(t, defaultSentryEnvironment, opts.Environment)
	assert.Equal(t, "v1.2.0", opts.Release)
	assert.True(t, opts.AttachStacktrace)

	opts = clientOptions(config.SentryConfig{Environment: "staging"})
	assert.Equal(t, "staging", opts.Environment)
}

func TestMiddleware_AttachesHub(t *testing.T) {
	var hub *sentry.Hub
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub = sentry.GetHubFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/news", nil))
	assert.NotNil(t, hub)
}
