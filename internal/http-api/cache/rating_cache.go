// Package cache keeps computed title ratings in redis so list endpoints do
// not re-aggregate review scores on every request. A nil *RatingCache is a
// no-op, so the service works without redis.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const noRatingSentinel = "none"

type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatingCache wraps a redis client. Connection checking is the caller's
// concern (the client is shared).
func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{client: client, ttl: ttl}
}

// NewRedisClient builds and pings a redis client from a URL.
func NewRedisClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// Get returns the cached rating and whether the cache held an entry. A
// cached "no reviews yet" state comes back as (nil, true, nil).
func (c *RatingCache) Get(ctx context.Context, titleID int64) (*float64, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	val, err := c.client.Get(ctx, c.key(titleID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if val == noRatingSentinel {
		return nil, true, nil
	}
	rating, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, false, err
	}
	return &rating, true, nil
}

func (c *RatingCache) Set(ctx context.Context, titleID int64, rating *float64) error {
	if c == nil || c.client == nil {
		return nil
	}
	val := noRatingSentinel
	if rating != nil {
		val = strconv.FormatFloat(*rating, 'f', -1, 64)
	}
	return c.client.Set(ctx, c.key(titleID), val, c.ttl).Err()
}

// Invalidate drops the cached rating after a review write.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(titleID)).Err()
}

func (c *RatingCache) key(titleID int64) string {
	return fmt.Sprintf("rating:title:%d", titleID)
}
