package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tabula/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Cache implements ports.VerdictCache using Redis.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration for verdicts.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for verdicts.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "tabula:verdict:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *Cache) key(key string) string {
	return c.prefix + key
}

// Ping checks connectivity, so that misconfiguration surfaces at startup.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Set persists the verdict to Redis.
func (c *Cache) Set(ctx context.Context, key string, result domain.Result) error {
	result.Cached = false
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	// Use 0 for no expiration if ttl is not set.
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves the verdict from Redis.
func (c *Cache) Get(ctx context.Context, key string) (domain.Result, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Result{}, domain.ErrCacheMiss
		}
		return domain.Result{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result domain.Result
	if err := json.Unmarshal(val, &result); err != nil {
		return domain.Result{}, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	return result, nil
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
