package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Redis-backed cache storing values as JSON under a key prefix.
// Expiry is delegated to Redis via per-key TTL.
type Redis[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis cache over an existing client. The prefix
// namespaces keys so multiple caches can share one Redis instance.
func NewRedis[T any](client *redis.Client, prefix string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{client: client, prefix: prefix, ttl: ttl}
}

// Get retrieves and decodes a value. A missing key, an expired key, or a
// decode failure all read as a miss.
func (r *Redis[T]) Get(key string) (T, bool) {
	var zero T
	raw, err := r.client.Get(context.Background(), r.prefix+key).Bytes()
	if err != nil {
		return zero, false
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false
	}
	return value, true
}

// Set encodes and stores a value with the configured TTL. Encode or write
// failures are swallowed; the cache is best-effort.
func (r *Redis[T]) Set(key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = r.client.Set(context.Background(), r.prefix+key, raw, r.ttl).Err()
}

// Delete removes a key.
func (r *Redis[T]) Delete(key string) {
	_ = r.client.Del(context.Background(), r.prefix+key).Err()
}
