package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/i474232898/kiosk-feed/internal/board"
)

const redisKeyPrefix = "kiosk-feed:"

// RedisCache is a result cache shared by every replica pointed at the same Redis.
// Expiry is enforced server-side.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisCacheFromURL connects to the Redis at url (redis://...) and pings it.
func NewRedisCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCache(client, ttl), nil
}

// Get returns the document stored under key, or board.ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) (board.AggregatedResponse, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return board.AggregatedResponse{}, board.ErrCacheMiss
	}
	if err != nil {
		return board.AggregatedResponse{}, err
	}

	var resp board.AggregatedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return board.AggregatedResponse{}, fmt.Errorf("decode cached document: %w", err)
	}
	return resp, nil
}

// Set stores resp under key with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, resp board.AggregatedResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err()
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
