package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/metrics"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// Redis key prefix for cached parcels
const parcelKeyPrefix = "landregistry:parcel:"

// Client wraps the go-redis client with health checking capabilities.
type Client struct {
	*redis.Client
}

// NewClient creates a new Redis client from the provided configuration.
// Returns nil if the URL is empty (Redis not configured).
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RedisParcelCache stores parcels as JSON strings with a fixed TTL.
type RedisParcelCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRedisParcelCache creates a parcel cache on client. m may be nil.
func NewRedisParcelCache(client redis.Cmdable, ttl time.Duration, m *metrics.Metrics) *RedisParcelCache {
	return &RedisParcelCache{client: client, ttl: ttl, metrics: m}
}

func parcelKey(parcelID string) string {
	return parcelKeyPrefix + parcelID
}

// Get returns false if the key doesn't exist (never cached or expired).
func (c *RedisParcelCache) Get(ctx context.Context, parcelID string) (*models.LandParcel, bool, error) {
	raw, err := c.client.Get(ctx, parcelKey(parcelID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.IncrementCacheLookup(metrics.CacheMiss)
		return nil, false, nil
	}
	if err != nil {
		c.metrics.IncrementCacheLookup(metrics.CacheError)
		return nil, false, fmt.Errorf("failed to read cached parcel %s: %w", parcelID, err)
	}

	var parcel models.LandParcel
	if err := json.Unmarshal(raw, &parcel); err != nil {
		c.metrics.IncrementCacheLookup(metrics.CacheError)
		return nil, false, fmt.Errorf("failed to decode cached parcel %s: %w", parcelID, err)
	}

	c.metrics.IncrementCacheLookup(metrics.CacheHit)
	return &parcel, true, nil
}

// Set uses SET with expiry so entries age out even if never invalidated.
func (c *RedisParcelCache) Set(ctx context.Context, parcel *models.LandParcel) error {
	raw, err := json.Marshal(parcel)
	if err != nil {
		return fmt.Errorf("failed to encode parcel %s: %w", parcel.ParcelID, err)
	}
	if err := c.client.Set(ctx, parcelKey(parcel.ParcelID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache parcel %s: %w", parcel.ParcelID, err)
	}
	return nil
}

func (c *RedisParcelCache) Invalidate(ctx context.Context, parcelIDs ...string) error {
	if len(parcelIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(parcelIDs))
	for _, id := range parcelIDs {
		keys = append(keys, parcelKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate %d cached parcels: %w", len(keys), err)
	}
	return nil
}
