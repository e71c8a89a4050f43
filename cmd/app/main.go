package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"newsarchive/internal/infra/handler"
	infraPostgres "newsarchive/internal/infra/postgres"
	"newsarchive/internal/pkg/timeutil"
	"newsarchive/internal/platform/cache"
	"newsarchive/internal/platform/config"
	"newsarchive/internal/platform/database"
	"newsarchive/internal/platform/logger"
	"newsarchive/internal/platform/metrics"
	"newsarchive/internal/platform/server"
	"newsarchive/internal/platform/telemetry"
	usecaseNews "newsarchive/internal/usecase/news"
	usecaseTag "newsarchive/internal/usecase/tag"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := timeutil.SetLocation(cfg.App.TimeZone); err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  logger.Level(cfg.App.LogLevel),
		Format: logger.Format(cfg.App.LogFormat),
	})

	sentryEnabled, err := telemetry.InitSentry(cfg.Sentry)
	if err != nil {
		return err
	}
	if sentryEnabled {
		log = logger.WrapWithSentry(log)
		defer telemetry.Flush(2 * time.Second)
	}
	logger.SetDefault(log)

	db, err := database.New(ctx, database.Config{
		ConnectionString: cfg.Database.ConnectionString(),
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		ConnectTimeout:   cfg.Database.ConnectTimeout,
		TimeZone:         timeutil.Location().String(),
		ApplicationName:  "newsarchive",
	}, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	healthHandler := &handler.HealthHandler{DB: db}
	var apiMiddlewares []func(http.Handler) http.Handler

	if cfg.App.RateLimitEnabled {
		redisClient, err := cache.New(cache.Config{
			Address:      cfg.Redis.Address(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("failed to close redis", "error", err)
			}
		}()

		healthHandler.Cache = redisClient
		apiMiddlewares = append(apiMiddlewares, server.RateLimit(server.RateLimitConfig{
			Counter: redisClient,
			Limit:   cfg.App.RateLimitMaxRequests,
			Window:  cfg.App.RateLimitWindow,
			Logger:  log,
			Skip:    func(r *http.Request) bool { return r.Method == http.MethodOptions },
		}))
	}

	tagRepo := infraPostgres.NewTagRepository(db)
	newsRepo := infraPostgres.NewNewsRepository(db)
	tagService := usecaseTag.NewService(tagRepo)
	newsService := usecaseNews.NewService(newsRepo, tagService, log)

	middlewares := []func(http.Handler) http.Handler{
		server.RequestID(),
		server.Recoverer(log),
	}
	if sentryEnabled {
		middlewares = append(middlewares, telemetry.Middleware())
	}
	middlewares = append(middlewares,
		server.RequestLogger(log),
		server.SecurityHeaders(),
		server.CORS(cfg.App.CORSAllowedOrigins),
	)

	var prometheusHandler http.Handler
	if cfg.App.EnableMetrics {
		httpMetrics := metrics.NewHTTPMetrics()
		middlewares = append(middlewares, httpMetrics.Middleware)
		prometheusHandler = httpMetrics.Handler()
	}

	router := handler.NewRouter(handler.RouterConfig{
		NewsHandler:       handler.NewNewsHandler(newsService, handler.DefaultNewsFormatter{}, log),
		HealthHandler:     healthHandler,
		APIBasePath:       cfg.App.APIBasePath,
		Middlewares:       middlewares,
		APIMiddlewares:    apiMiddlewares,
		PrometheusHandler: prometheusHandler,
	})

	srv := server.New(server.Config{
		Address:         cfg.Server.Address(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, log)

	return srv.ListenAndServeWithGracefulShutdown()
}
