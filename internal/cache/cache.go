package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

// Ping checks the connection; callers fall back to no caching when it fails.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetTaskStatus(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return c.get(ctx, getCacheKey(id.String(), false))
}

func (c *Cache) GetEtagTaskStatus(ctx context.Context, id uuid.UUID) (string, error) {
	b, err := c.get(ctx, getCacheKey(id.String(), true))
	return string(b), err
}

func (c *Cache) SetTaskStatus(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
	logger.Debugf(ctx, "creating entry in cache for task #%s, valid until %s...", id, validUntil.Format(time.RFC1123))
	c.set(ctx, getCacheKey(id.String(), false), data, validUntil)
}

func (c *Cache) SetEtagTaskStatus(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
	c.set(ctx, getCacheKey(id.String(), true), []byte(etag), validUntil)
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// set never fails the caller: a cache write error only costs a future miss.
func (c *Cache) set(ctx context.Context, key string, data []byte, validUntil time.Time) {
	ttl := time.Until(validUntil)
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warnf(ctx, "⚠️ redis set failed for %q: %v", key, err)
	}
}

func getCacheKey(id string, etag bool) string {
	if etag {
		return "task:" + id + ":etag"
	}
	return "task:" + id
}
