package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routeRegistrar is the subset of chi.Router handlers register on.
type routeRegistrar interface {
	Get(pattern string, handlerFn http.HandlerFunc)
}

// RouterConfig bundles handler dependencies.
type RouterConfig struct {
	NewsHandler   *NewsHandler
	HealthHandler *HealthHandler

	// APIBasePath prefixes the news routes; empty means "/".
	APIBasePath string
	// Middlewares apply to every route. APIMiddlewares apply to the API group only.
	Middlewares       []func(http.Handler) http.Handler
	APIMiddlewares    []func(http.Handler) http.Handler
	PrometheusHandler http.Handler
}

// NewRouter wires handlers and middlewares.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))

	for _, mw := range cfg.Middlewares {
		if mw == nil {
			continue
		}
		r.Use(mw)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	}
	if cfg.PrometheusHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.PrometheusHandler)
	}

	apiBasePath := normalizeAPIBasePath(cfg.APIBasePath)
	if apiBasePath == "" {
		apiBasePath = "/"
	}
	r.Route(apiBasePath, func(api chi.Router) {
		for _, mw := range cfg.APIMiddlewares {
			if mw == nil {
				continue
			}
			api.Use(mw)
		}
		if cfg.NewsHandler != nil {
			cfg.NewsHandler.RegisterRoutes(api)
		}
	})
	return r
}
