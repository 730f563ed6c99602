package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-lms/pkg/interfaces"
)

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// Memory is a process-local CacheProvider. Expired entries are dropped
// lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// MemoryOption configures the in-memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source used for expiry checks.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.now = clock
		}
	}
}

// NewMemory creates an in-memory cache provider.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(ctx context.Context, key string) (any, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, interfaces.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.entries = map[string]memoryEntry{}
	m.mu.Unlock()
	return nil
}
