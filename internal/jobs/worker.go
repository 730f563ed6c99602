package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/logging"
	lmsscheduler "github.com/goliatone/go-lms/internal/scheduler"
	"github.com/goliatone/go-lms/pkg/activity"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// CoursePublisher applies scheduled course transitions.
type CoursePublisher interface {
	PublishCourse(ctx context.Context, input catalog.PublishCourseInput) (*catalog.Course, error)
	UnpublishCourse(ctx context.Context, input catalog.UnpublishCourseInput) (*catalog.Course, error)
}

// EnrollmentExpirer drops enrollments whose access window has closed.
type EnrollmentExpirer interface {
	Expire(ctx context.Context, id uuid.UUID) (*enrollment.Enrollment, error)
}

// AttemptExpirer closes assessment attempts whose time limit has passed and
// sweeps expired ones past the retention window.
type AttemptExpirer interface {
	ExpireAttempt(ctx context.Context, id uuid.UUID) (*assessment.Attempt, error)
	PurgeExpiredAttempts(ctx context.Context) (int, error)
}

// InteractionPurger removes AI interaction logs past their retention window.
type InteractionPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Worker drains due jobs from the scheduler and dispatches them to the
// owning service.
type Worker struct {
	scheduler    interfaces.Scheduler
	courses      CoursePublisher
	enrollments  EnrollmentExpirer
	attempts     AttemptExpirer
	interactions InteractionPurger
	audit        AuditRecorder
	activity     *activity.Emitter
	logger       interfaces.Logger
	now          func() time.Time
	batchSize    int
}

// Option configures the worker.
type Option func(*Worker)

// WithAuditRecorder records applied transitions for operational review.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(w *Worker) {
		w.audit = recorder
	}
}

// WithActivityEmitter wires activity events for worker-applied transitions.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(w *Worker) {
		if emitter != nil {
			w.activity = emitter
		}
	}
}

// WithClock overrides the worker clock.
func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(w *Worker) {
		w.logger = logging.SchedulerLogger(provider)
	}
}

// WithBatchSize limits how many due jobs a single Process call drains.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// NewWorker constructs a worker over the supplied service dependencies. Any
// dependency may be nil; jobs without a handler fail and retry.
func NewWorker(scheduler interfaces.Scheduler, courses CoursePublisher, enrollments EnrollmentExpirer, attempts AttemptExpirer, interactions InteractionPurger, opts ...Option) *Worker {
	w := &Worker{
		scheduler:    scheduler,
		courses:      courses,
		enrollments:  enrollments,
		attempts:     attempts,
		interactions: interactions,
		logger:       logging.NoOp(),
		now:          time.Now,
		batchSize:    50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process drains due jobs once. Callers run it on a ticker.
func (w *Worker) Process(ctx context.Context) error {
	if w.scheduler == nil {
		return errors.New("jobs: scheduler is nil")
	}
	deadline := w.now()
	due, err := w.scheduler.ListDue(ctx, deadline, w.batchSize)
	if err != nil {
		return err
	}
	for _, job := range due {
		if job == nil {
			continue
		}
		if err := w.handleJob(ctx, job, deadline); err != nil {
			w.logger.Warn("job.failed", "job_id", job.ID, "job_type", job.Type, "error", err)
			_ = w.scheduler.MarkFailed(ctx, job.ID, err)
			continue
		}
		_ = w.scheduler.MarkDone(ctx, job.ID)
	}
	return nil
}

func (w *Worker) handleJob(ctx context.Context, job *interfaces.Job, now time.Time) error {
	switch job.Type {
	case lmsscheduler.JobTypeCoursePublish:
		return w.processCoursePublish(ctx, job, now)
	case lmsscheduler.JobTypeCourseUnpublish:
		return w.processCourseUnpublish(ctx, job, now)
	case lmsscheduler.JobTypeEnrollmentExpire:
		return w.processEnrollmentExpire(ctx, job, now)
	case lmsscheduler.JobTypeAttemptExpire:
		return w.processAttemptExpire(ctx, job, now)
	case lmsscheduler.JobTypeAttemptPurge:
		return w.processAttemptPurge(ctx, job, now)
	case lmsscheduler.JobTypeInteractionPurge:
		return w.processInteractionPurge(ctx, job, now)
	default:
		return nil
	}
}

func (w *Worker) processCoursePublish(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.courses == nil {
		return errors.New("jobs: course service is nil")
	}
	id, err := parseJobID(job.Payload, "course_id")
	if err != nil {
		return err
	}
	course, err := w.courses.PublishCourse(ctx, catalog.PublishCourseInput{CourseID: id})
	if err != nil {
		return err
	}
	w.recordAudit(ctx, AuditEvent{
		EntityType: "course",
		EntityID:   id.String(),
		Action:     "publish",
		OccurredAt: now,
		Metadata:   buildAuditMetadata(job),
	})
	w.emitActivity(ctx, "publish", "course", id, map[string]any{
		"job_id":   job.ID,
		"job_type": job.Type,
		"status":   string(course.Status),
	})
	return nil
}

func (w *Worker) processCourseUnpublish(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.courses == nil {
		return errors.New("jobs: course service is nil")
	}
	id, err := parseJobID(job.Payload, "course_id")
	if err != nil {
		return err
	}
	course, err := w.courses.UnpublishCourse(ctx, catalog.UnpublishCourseInput{CourseID: id})
	if err != nil {
		// Unpublishing an already closed course is a no-op.
		if errors.Is(err, catalog.ErrCourseNotPublished) {
			return nil
		}
		return err
	}
	w.recordAudit(ctx, AuditEvent{
		EntityType: "course",
		EntityID:   id.String(),
		Action:     "unpublish",
		OccurredAt: now,
		Metadata:   buildAuditMetadata(job),
	})
	w.emitActivity(ctx, "unpublish", "course", id, map[string]any{
		"job_id":   job.ID,
		"job_type": job.Type,
		"status":   string(course.Status),
	})
	return nil
}

func (w *Worker) processEnrollmentExpire(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.enrollments == nil {
		return errors.New("jobs: enrollment service is nil")
	}
	id, err := parseJobID(job.Payload, "enrollment_id")
	if err != nil {
		return err
	}
	record, err := w.enrollments.Expire(ctx, id)
	if err != nil {
		return err
	}
	w.recordAudit(ctx, AuditEvent{
		EntityType: "enrollment",
		EntityID:   id.String(),
		Action:     "expire",
		OccurredAt: now,
		Metadata:   buildAuditMetadata(job),
	})
	w.emitActivity(ctx, "expire", "enrollment", id, map[string]any{
		"job_id":   job.ID,
		"job_type": job.Type,
		"status":   string(record.Status),
	})
	return nil
}

func (w *Worker) processAttemptExpire(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.attempts == nil {
		return errors.New("jobs: assessment service is nil")
	}
	id, err := parseJobID(job.Payload, "attempt_id")
	if err != nil {
		return err
	}
	record, err := w.attempts.ExpireAttempt(ctx, id)
	if err != nil {
		return err
	}
	w.recordAudit(ctx, AuditEvent{
		EntityType: "attempt",
		EntityID:   id.String(),
		Action:     "expire",
		OccurredAt: now,
		Metadata:   buildAuditMetadata(job),
	})
	w.emitActivity(ctx, "expire", "assessment_attempt", id, map[string]any{
		"job_id":   job.ID,
		"job_type": job.Type,
		"status":   string(record.Status),
	})
	return nil
}

func (w *Worker) processAttemptPurge(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.attempts == nil {
		return errors.New("jobs: assessment service is nil")
	}
	purged, err := w.attempts.PurgeExpiredAttempts(ctx)
	if err != nil {
		return err
	}
	meta := buildAuditMetadata(job)
	meta["purged"] = purged
	w.recordAudit(ctx, AuditEvent{
		EntityType: "assessment_attempt",
		EntityID:   lmsscheduler.AttemptPurgeJobKey(),
		Action:     "purge",
		OccurredAt: now,
		Metadata:   meta,
	})
	return nil
}

func (w *Worker) processInteractionPurge(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.interactions == nil {
		return errors.New("jobs: interaction service is nil")
	}
	purged, err := w.interactions.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	meta := buildAuditMetadata(job)
	meta["purged"] = purged
	w.recordAudit(ctx, AuditEvent{
		EntityType: "ai_interaction",
		EntityID:   lmsscheduler.InteractionPurgeJobKey(),
		Action:     "purge",
		OccurredAt: now,
		Metadata:   meta,
	})
	return nil
}

func (w *Worker) recordAudit(ctx context.Context, event AuditEvent) {
	if w.audit == nil {
		return
	}
	_ = w.audit.Record(ctx, event)
}

func (w *Worker) emitActivity(ctx context.Context, verb, objectType string, objectID uuid.UUID, meta map[string]any) {
	if w.activity == nil || !w.activity.Enabled() || objectID == uuid.Nil {
		return
	}
	event := activity.Event{
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID.String(),
		Metadata:   meta,
	}
	_ = w.activity.Emit(ctx, event)
}

func parseJobID(payload map[string]any, key string) (uuid.UUID, error) {
	if payload == nil {
		return uuid.Nil, fmt.Errorf("jobs: missing payload")
	}
	raw, ok := payload[key]
	if !ok {
		return uuid.Nil, fmt.Errorf("jobs: payload missing %s", key)
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("jobs: invalid %s payload", key)
	}
	return uuid.Parse(str)
}

func buildAuditMetadata(job *interfaces.Job) map[string]any {
	return map[string]any{
		"job_id":   job.ID,
		"job_type": job.Type,
		"run_at":   job.RunAt,
		"attempt":  job.Attempt,
	}
}
