// Package redis implements the read cache on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// DefaultPrefix namespaces every key this service writes.
const DefaultPrefix = "recruiterbook-cache:"

// Cache is a domain.Cache on a go-redis client.
type Cache struct {
	rdb    goredis.UniversalClient
	prefix string
}

var _ domain.Cache = (*Cache)(nil)

// New wraps rdb. An empty prefix falls back to DefaultPrefix.
func New(rdb goredis.UniversalClient, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{rdb: rdb, prefix: prefix}
}

// Connect parses a redis:// URL and returns a client that has answered PING.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=redis.connect: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("op=redis.connect: %w", err)
	}
	return rdb, nil
}

// Get returns the cached value and whether it was present.
func (c *Cache) Get(ctx domain.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("op=cache.get: %w", err)
	}
	return v, true, nil
}

// Set stores value under key for ttl. A non-positive ttl keeps the key until deleted.
func (c *Cache) Set(ctx domain.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.set: %w", err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (c *Cache) Delete(ctx domain.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("op=cache.delete: %w", err)
	}
	return nil
}
