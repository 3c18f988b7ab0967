package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyHeader carries the client supplied key for create requests.
const IdempotencyHeader = "Idempotency-Key"

// RedisDeduper stores seen idempotency keys in Redis so a retried create is
// rejected instead of inserting a second entity.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisDeduper creates a deduper using the provided Redis client and TTL.
// prefix isolates keys of one process instance.
func NewRedisDeduper(client *redis.Client, ttl time.Duration, prefix string) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl, prefix: prefix}
}

func (r *RedisDeduper) key(scope, key string) string {
	return r.prefix + ":idem:" + scope + ":" + key
}

// Add records the key if it does not already exist. It returns true when the
// key was newly added.
func (r *RedisDeduper) Add(ctx context.Context, scope, key string) (bool, error) {
	return r.client.SetNX(ctx, r.key(scope, key), 1, r.ttl).Result()
}

// Remove deletes a previously recorded key so the caller may retry.
func (r *RedisDeduper) Remove(ctx context.Context, scope, key string) error {
	return r.client.Del(ctx, r.key(scope, key)).Err()
}
