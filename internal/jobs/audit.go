package jobs

import (
	"context"
	"maps"
	"sync"
	"time"
)

// AuditEvent records a lifecycle transition the worker applied: a course
// publish or unpublish, an enrollment or attempt expiry, a retention purge.
type AuditEvent struct {
	EntityType string
	EntityID   string
	Action     string
	OccurredAt time.Time
	Metadata   map[string]any
}

// AuditRecorder receives the trail of applied transitions. Hosts can plug in
// a durable implementation; the worker tolerates a nil recorder.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
	List(ctx context.Context) ([]AuditEvent, error)
	Clear(ctx context.Context) error
}

// InMemoryAuditRecorder keeps the trail in process memory.
type InMemoryAuditRecorder struct {
	mu     sync.Mutex
	events []AuditEvent
	err    error
}

// NewInMemoryAuditRecorder constructs an empty recorder.
func NewInMemoryAuditRecorder() *InMemoryAuditRecorder {
	return &InMemoryAuditRecorder{}
}

// Record appends the event, cloning its metadata so later mutation by the
// caller cannot rewrite history.
func (r *InMemoryAuditRecorder) Record(_ context.Context, event AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	event.Metadata = maps.Clone(event.Metadata)
	r.events = append(r.events, event)
	return nil
}

// Events returns a snapshot of the trail recorded so far.
func (r *InMemoryAuditRecorder) Events() []AuditEvent {
	events, _ := r.List(context.Background())
	return events
}

// ByAction returns the recorded events whose Action matches.
func (r *InMemoryAuditRecorder) ByAction(action string) []AuditEvent {
	var out []AuditEvent
	for _, event := range r.Events() {
		if event.Action == action {
			out = append(out, event)
		}
	}
	return out
}

// Fail makes subsequent Record calls return err.
func (r *InMemoryAuditRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// List returns the audit events recorded so far.
func (r *InMemoryAuditRecorder) List(context.Context) ([]AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditEvent, len(r.events))
	copy(out, r.events)
	return out, nil
}

// Clear discards the recorded trail.
func (r *InMemoryAuditRecorder) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	return nil
}
