package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Redis adapts a go-redis client to the CacheProvider contract. Values are
// stored as JSON, so readers get back map/slice documents rather than the
// original Go types.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed cache provider. Keys are namespaced with
// the supplied prefix to keep Clear from touching unrelated data.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "lms"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (any, error) {
	payload, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, interfaces.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache read failed: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return nil, fmt.Errorf("cache decode failed: %w", err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode failed: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Clear removes every key under the adapter's prefix.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache clear failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache clear failed: %w", err)
	}
	return nil
}

func (r *Redis) key(key string) string {
	return r.prefix + ":" + key
}
