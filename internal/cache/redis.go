package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis instance, for deployments where
// multiple advisor replicas share computed quotes.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis cache talking to addr. Entries expire after ttl;
// a non-positive ttl stores entries without expiry.
func NewRedis(addr string, ttl time.Duration) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{client: client, ttl: ttl}
}

// Get returns the cached value for key, if present.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores value under key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
