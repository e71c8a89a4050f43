package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Address      string
	Password     string // #nosec G117
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// Cache wraps redis.Client. The API only uses it for rate-limit counters.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// New creates a new Redis client and verifies the connection.
func New(cfg Config, logger *slog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewWithClient(client, logger)
	c.logger.Info("redis connection established",
		"address", cfg.Address,
		"db", cfg.DB,
	)
	return c, nil
}

// NewWithClient wraps an existing client without pinging it.
func NewWithClient(client *redis.Client, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	c.logger.Info("redis connection closed")
	return nil
}

// HealthCheck performs a health check on Redis
func (c *Cache) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return c.client.Ping(ctx).Err()
}

var incrementWithTTLScript = redis.NewScript(`
local v = redis.call('INCR', KEYS[1])
if v == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return v
`)

// IncrementWithTTL increments a counter and sets TTL when the key is created.
func (c *Cache) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, fmt.Errorf("ttl must be positive")
	}
	val, err := incrementWithTTLScript.Run(ctx, c.client, []string{key}, ttl.Milliseconds()).Int64()
	if err != nil {
		if isContextDoneError(err) {
			c.logger.Debug("counter increment aborted by context", "key", key, "error", err)
		} else {
			c.logger.Error("failed to increment counter with ttl", "key", key, "error", err)
		}
		return 0, fmt.Errorf("failed to increment counter with ttl: %w", err)
	}
	return val, nil
}

func isContextDoneError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
