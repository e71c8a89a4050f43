package telemetry

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"newsarchive/internal/platform/config"
)

const defaultSentryEnvironment = "production"

// InitSentry initializes Sentry and returns whether it is enabled.
func InitSentry(cfg config.SentryConfig) (bool, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return false, nil
	}

	if err := sentry.Init(clientOptions(cfg)); err != nil {
		return false, fmt.Errorf("init sentry: %w", err)
	}
	return true, nil
}

func clientOptions(cfg config.SentryConfig) sentry.ClientOptions {
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = defaultSentryEnvironment
	}
	return sentry.ClientOptions{
		Dsn:              strings.TrimSpace(cfg.DSN),
		Environment:      environment,
		Release:          strings.TrimSpace(cfg.Release),
		AttachStacktrace: true,
	}
}

// Middleware attaches a per-request hub so error logs carry request data.
// Panics are reported and re-raised for the outer recoverer.
func Middleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle
}

// Flush waits for buffered events to be delivered.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
