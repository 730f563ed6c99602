package activity

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"
)

// Event describes a single activity entry emitted by the LMS services.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives emitted events. Implementations must be safe for concurrent use.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// Hooks is an ordered collection of hooks notified for every event.
type Hooks []Hook

// Config controls emitter behaviour.
type Config struct {
	// Enabled gates emission entirely; a disabled emitter drops every event.
	Enabled bool
	// Channel stamps events that do not carry their own channel.
	Channel string
	// Clock overrides the timestamp source, used mainly for tests.
	Clock func() time.Time
}

// Emitter fans events out to the registered hooks. A nil emitter is safe to
// use and behaves as disabled.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	now     func() time.Time
}

// NewEmitter constructs an emitter from the supplied hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Emitter{
		hooks:   hooks,
		enabled: cfg.Enabled,
		channel: strings.TrimSpace(cfg.Channel),
		now:     clock,
	}
}

// Enabled reports whether the emitter will forward events.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled && len(e.hooks) > 0
}

// Emit forwards the event to every hook. Events without a verb are dropped.
// Hook failures stop propagation and surface to the caller so services can
// decide whether activity capture is best-effort.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if event.Channel == "" {
		event.Channel = e.channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	if event.Metadata != nil {
		event.Metadata = maps.Clone(event.Metadata)
	}
	for _, hook := range e.hooks {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// CaptureHook records events in memory for assertions in tests.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

// Notify appends the event to the captured slice.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	h.Events = append(h.Events, event)
	return nil
}
