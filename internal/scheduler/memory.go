package scheduler

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/goliatone/go-lms/pkg/interfaces"
	"github.com/google/uuid"
)

const defaultMaxAttempts = 3

// NewInMemory creates a deterministic scheduler implementation suitable for
// embedded deployments and tests.
func NewInMemory(opts ...Option) interfaces.Scheduler {
	mem := &inMemoryScheduler{
		now:        time.Now,
		id:         func() string { return uuid.NewString() },
		jobs:       make(map[string]*interfaces.Job),
		jobKeys:    make(map[string]string),
		maxAttempt: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(mem)
	}
	return mem
}

// Option allows customizing the behaviour of the in-memory scheduler.
type Option func(*inMemoryScheduler)

// WithClock overrides the internal clock, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *inMemoryScheduler) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator used when enqueuing jobs.
func WithIDGenerator(generator func() string) Option {
	return func(s *inMemoryScheduler) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithDefaultMaxAttempts overrides the default retry attempts applied when the job spec leaves it unset.
func WithDefaultMaxAttempts(limit int) Option {
	return func(s *inMemoryScheduler) {
		if limit > 0 {
			s.maxAttempt = limit
		}
	}
}

type inMemoryScheduler struct {
	mu         sync.Mutex
	now        func() time.Time
	id         func() string
	maxAttempt int
	jobs       map[string]*interfaces.Job
	jobKeys    map[string]string
}

func (s *inMemoryScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	if spec.RunAt.IsZero() {
		return nil, errors.New("scheduler: run_at is required")
	}
	job := &interfaces.Job{
		JobSpec: interfaces.JobSpec{
			Key:         spec.Key,
			Type:        spec.Type,
			RunAt:       spec.RunAt,
			Payload:     maps.Clone(spec.Payload),
			MaxAttempts: spec.MaxAttempts,
		},
	}
	if job.MaxAttempts == 0 {
		job.MaxAttempts = s.maxAttempt
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Keyed enqueues replace any prior job sharing the key, keeping
	// lifecycle scheduling (publish, expiry, purge) idempotent per entity.
	if job.Key != "" {
		if existingID, ok := s.jobKeys[job.Key]; ok {
			delete(s.jobs, existingID)
		}
	}

	job.ID = s.id()
	now := s.now()
	job.Status = interfaces.JobStatusPending
	job.CreatedAt = now
	job.UpdatedAt = now

	s.jobs[job.ID] = job
	if job.Key != "" {
		s.jobKeys[job.Key] = job.ID
	}

	return cloneJob(job), nil
}

// lookup resolves a job by ID while the lock is held.
func (s *inMemoryScheduler) lookup(id string) (*interfaces.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return job, nil
}

// settle moves the job into a terminal state. The key index keeps pointing at
// the settled job so callers can still inspect it; the next keyed enqueue
// replaces it.
func (s *inMemoryScheduler) settle(job *interfaces.Job, status interfaces.JobStatus) {
	job.Status = status
	job.UpdatedAt = s.now()
}

func (s *inMemoryScheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.settle(job, interfaces.JobStatusCanceled)
	return nil
}

func (s *inMemoryScheduler) CancelByKey(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.lookup(s.jobKeys[key])
	if err != nil {
		return err
	}
	s.settle(job, interfaces.JobStatusCanceled)
	return nil
}

func (s *inMemoryScheduler) Get(_ context.Context, id string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return cloneJob(job), nil
}

func (s *inMemoryScheduler) GetByKey(_ context.Context, key string) (*interfaces.Job, error) {
	if key == "" {
		return nil, interfaces.ErrJobNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.lookup(s.jobKeys[key])
	if err != nil {
		return nil, err
	}
	return cloneJob(job), nil
}

func (s *inMemoryScheduler) ListDue(_ context.Context, until time.Time, limit int) ([]*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = len(s.jobs)
	}
	due := make([]*interfaces.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if job.Status != interfaces.JobStatusPending || job.RunAt.After(until) {
			continue
		}
		due = append(due, cloneJob(job))
	}
	slices.SortStableFunc(due, func(a, b *interfaces.Job) int {
		if c := a.RunAt.Compare(b.RunAt); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *inMemoryScheduler) MarkDone(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.settle(job, interfaces.JobStatusCompleted)
	return nil
}

func (s *inMemoryScheduler) MarkFailed(_ context.Context, id string, failure error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.lookup(id)
	if err != nil {
		return err
	}
	job.Attempt++
	job.UpdatedAt = s.now()
	job.LastError = ""
	if failure != nil {
		job.LastError = failure.Error()
	}
	if job.MaxAttempts > 0 && job.Attempt >= job.MaxAttempts {
		job.Status = interfaces.JobStatusFailed
	} else {
		job.Status = interfaces.JobStatusPending
	}
	return nil
}

func cloneJob(job *interfaces.Job) *interfaces.Job {
	if job == nil {
		return nil
	}
	clone := *job
	clone.Payload = maps.Clone(job.Payload)
	return &clone
}
