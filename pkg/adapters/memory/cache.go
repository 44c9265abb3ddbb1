package memory

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/tabula/pkg/domain"
	"github.com/bluele/gcache"
)

// DefaultCacheSize bounds the number of verdicts a Cache keeps.
const DefaultCacheSize = 4096

// Cache implements ports.VerdictCache in memory with LRU eviction.
// Safe for concurrent use.
type Cache struct {
	lru gcache.Cache
	ttl time.Duration
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	size int
	ttl  time.Duration
}

// WithSize sets the maximum number of verdicts kept.
func WithSize(size int) CacheOption {
	return func(c *cacheConfig) {
		c.size = size
	}
}

// WithTTL sets the expiration for verdicts (0 = never).
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *cacheConfig) {
		c.ttl = ttl
	}
}

// NewCache creates a new in-memory verdict cache.
func NewCache(opts ...CacheOption) *Cache {
	cfg := &cacheConfig{size: DefaultCacheSize}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.size <= 0 {
		cfg.size = DefaultCacheSize
	}
	return &Cache{
		lru: gcache.New(cfg.size).LRU().Build(),
		ttl: cfg.ttl,
	}
}

// Get retrieves a verdict.
func (c *Cache) Get(ctx context.Context, key string) (domain.Result, error) {
	v, err := c.lru.Get(key)
	if err != nil {
		if errors.Is(err, gcache.KeyNotFoundError) {
			return domain.Result{}, domain.ErrCacheMiss
		}
		return domain.Result{}, err
	}
	result, ok := v.(domain.Result)
	if !ok {
		return domain.Result{}, domain.ErrCacheMiss
	}
	return result, nil
}

// Set stores a verdict. Result is a value type, so the cache never shares memory with callers.
func (c *Cache) Set(ctx context.Context, key string, result domain.Result) error {
	if c.ttl > 0 {
		return c.lru.SetWithExpire(key, result, c.ttl)
	}
	return c.lru.Set(key, result)
}

// Len returns the number of verdicts currently held.
func (c *Cache) Len() int {
	return c.lru.Len(true)
}
