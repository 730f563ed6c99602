package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-lms/internal/adapters/cache"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	provider := cache.NewMemory()

	if _, err := provider.Get(ctx, "missing"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	if err := provider.Set(ctx, "answer", 42, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := provider.Get(ctx, "answer")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != 42 {
		t.Fatalf("expected 42, got %v", value)
	}

	if err := provider.Delete(ctx, "answer"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := provider.Get(ctx, "answer"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := testNow
	provider := cache.NewMemory(cache.WithClock(func() time.Time { return now }))

	if err := provider.Set(ctx, "ephemeral", "value", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := provider.Get(ctx, "ephemeral"); err != nil {
		t.Fatalf("expected hit before expiry, got %v", err)
	}

	now = testNow.Add(2 * time.Minute)
	if _, err := provider.Get(ctx, "ephemeral"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	provider := cache.NewMemory()

	if err := provider.Set(ctx, "a", 1, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := provider.Set(ctx, "b", 2, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := provider.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := provider.Get(ctx, "a"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after clear, got %v", err)
	}
}
