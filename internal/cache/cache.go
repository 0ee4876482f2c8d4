package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maltedev/kleinanzeigen-mcp/internal/models"
)

// Cache stores serialized tool responses so repeated identical calls within
// the TTL skip the browser entirely. Misses and cache failures both fall
// through to a live scrape.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string, value any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		// Stale or corrupt entry; treat as a miss.
		c.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return false, nil
	}

	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode failed: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}

	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache is used when no Redis address is configured.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) Get(ctx context.Context, key string, value any) (bool, error) { return false, nil }
func (NoopCache) Set(ctx context.Context, key string, value any) error         { return nil }
func (NoopCache) Close() error                                                 { return nil }

// SearchKey derives a stable key from the normalized filter set.
func SearchKey(params models.SearchParams) string {
	data, _ := json.Marshal(params)
	sum := sha256.Sum256(data)
	return "search:" + hex.EncodeToString(sum[:16])
}

func DetailKey(listingID string) string {
	return "listing:" + listingID
}
