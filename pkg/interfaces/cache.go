package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss reports a key that is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// CacheProvider abstracts the key/value cache used for derived read models
// such as analytics overviews.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
