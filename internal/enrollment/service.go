package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/internal/scheduler"
	"github.com/goliatone/go-lms/pkg/activity"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Service exposes enrollment lifecycle capabilities.
type Service interface {
	Enroll(ctx context.Context, input EnrollInput) (*Enrollment, error)
	Get(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	GetActive(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, opts ListOptions) ([]*Enrollment, int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error)
	Drop(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	Suspend(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	Resume(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	Complete(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	SetFinalGrade(ctx context.Context, id uuid.UUID, grade float64) (*Enrollment, error)
	Expire(ctx context.Context, id uuid.UUID) (*Enrollment, error)
}

// EnrollInput captures the information required to enroll a student.
type EnrollInput struct {
	StudentID uuid.UUID
	CourseID  uuid.UUID
	// ExpiresAt bounds access; the service schedules an expiry job when set.
	ExpiresAt *time.Time
}

var (
	ErrStudentRequired   = errors.New("enrollment: student id required")
	ErrCourseRequired    = errors.New("enrollment: course id required")
	ErrStudentInactive   = errors.New("enrollment: student is inactive")
	ErrCourseNotOpen     = errors.New("enrollment: course is not open for enrollment")
	ErrCourseFull        = errors.New("enrollment: course capacity reached")
	ErrAlreadyEnrolled   = errors.New("enrollment: student already has an open enrollment for course")
	ErrTerminalState     = errors.New("enrollment: enrollment is in a terminal state")
	ErrNotSuspended      = errors.New("enrollment: enrollment is not suspended")
	ErrNotActive         = errors.New("enrollment: enrollment is not active")
	ErrExpiryInPast      = errors.New("enrollment: expires_at must be in the future")
	ErrExpiryNotDue      = errors.New("enrollment: expiry instant has not passed")
	ErrGradeInvalid      = errors.New("enrollment: final grade must be between 0 and 100")
	ErrEnrollmentDropped = errors.New("enrollment: cannot grade a dropped enrollment")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures enrollment service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithScheduler wires expiry jobs through the supplied scheduler.
func WithScheduler(sched interfaces.Scheduler) ServiceOption {
	return func(s *service) {
		if sched != nil {
			s.scheduler = sched
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.EnrollmentLogger(provider)
	}
}

// WithActivityEmitter wires enrollment activity events.
func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

type service struct {
	enrollments Repository
	courses     catalog.Service
	students    roster.Service
	scheduler   interfaces.Scheduler
	activity    *activity.Emitter
	logger      interfaces.Logger
	now         func() time.Time
	id          IDGenerator
}

// NewService constructs an enrollment service instance.
func NewService(repo Repository, courses catalog.Service, students roster.Service, opts ...ServiceOption) Service {
	s := &service{
		enrollments: repo,
		courses:     courses,
		students:    students,
		logger:      logging.NoOp(),
		now:         time.Now,
		id:          uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) Enroll(ctx context.Context, input EnrollInput) (*Enrollment, error) {
	if input.StudentID == uuid.Nil {
		return nil, ErrStudentRequired
	}
	if input.CourseID == uuid.Nil {
		return nil, ErrCourseRequired
	}

	now := s.now()
	if input.ExpiresAt != nil && !input.ExpiresAt.After(now) {
		return nil, ErrExpiryInPast
	}

	student, err := s.students.GetStudent(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if !student.Active {
		return nil, ErrStudentInactive
	}

	course, err := s.courses.GetCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if s.courses.EffectiveStatus(course, now) != domain.StatusPublished {
		return nil, ErrCourseNotOpen
	}

	if existing, err := s.enrollments.GetActiveByPair(ctx, student.ID, course.ID); err == nil && existing != nil {
		return nil, ErrAlreadyEnrolled
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	if course.Capacity > 0 {
		active, err := s.enrollments.CountActiveByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		if active >= course.Capacity {
			return nil, ErrCourseFull
		}
	}

	record := &Enrollment{
		ID:         s.id(),
		StudentID:  student.ID,
		CourseID:   course.ID,
		Status:     domain.EnrollmentActive,
		EnrolledAt: now,
		ExpiresAt:  cloneTimePtr(input.ExpiresAt),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.enrollments.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if created.ExpiresAt != nil && s.scheduler != nil {
		if _, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
			Key:   scheduler.EnrollmentExpireJobKey(created.ID),
			Type:  scheduler.JobTypeEnrollmentExpire,
			RunAt: *created.ExpiresAt,
			Payload: map[string]any{
				"enrollment_id": created.ID.String(),
			},
		}); err != nil {
			return nil, err
		}
	}

	s.logger.Info("enrollment.created",
		"enrollment_id", created.ID,
		"student_id", student.ID,
		"course_id", course.ID,
	)
	s.emit(ctx, "enroll", created, map[string]any{"course_code": course.Code})
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Enrollment, error) {
	return s.enrollments.GetByID(ctx, id)
}

func (s *service) GetActive(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error) {
	return s.enrollments.GetActiveByPair(ctx, studentID, courseID)
}

func (s *service) ListByCourse(ctx context.Context, courseID uuid.UUID, opts ListOptions) ([]*Enrollment, int, error) {
	return s.enrollments.ListByCourse(ctx, courseID, opts)
}

func (s *service) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}

func (s *service) Drop(ctx context.Context, id uuid.UUID) (*Enrollment, error) {
	record, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status.Terminal() {
		return nil, ErrTerminalState
	}

	now := s.now()
	record.Status = domain.EnrollmentDropped
	record.DroppedAt = &now
	record.UpdatedAt = now

	updated, err := s.enrollments.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.cancelExpiry(ctx, updated.ID)
	s.logger.Info("enrollment.dropped", "enrollment_id", updated.ID)
	s.emit(ctx, "drop", updated, nil)
	return updated, nil
}

func (s *service) Suspend(ctx context.Context, id uuid.UUID) (*Enrollment, error) {
	record, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.EnrollmentActive {
		return nil, ErrNotActive
	}

	now := s.now()
	record.Status = domain.EnrollmentSuspended
	record.SuspendedAt = &now
	record.UpdatedAt = now

	updated, err := s.enrollments.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("enrollment.suspended", "enrollment_id", updated.ID)
	s.emit(ctx, "suspend", updated, nil)
	return updated, nil
}

func (s *service) Resume(ctx context.Context, id uuid.UUID) (*Enrollment, error) {
	record, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.EnrollmentSuspended {
		return nil, ErrNotSuspended
	}

	now := s.now()
	record.Status = domain.EnrollmentActive
	record.SuspendedAt = nil
	record.UpdatedAt = now

	updated, err := s.enrollments.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("enrollment.resumed", "enrollment_id", updated.ID)
	s.emit(ctx, "resume", updated, nil)
	return updated, nil
}

func (s *service) Complete(ctx context.Context, id uuid.UUID) (*Enrollment, error) {
	record, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.EnrollmentCompleted {
		return record, nil
	}
	if record.Status.Terminal() {
		return nil, ErrTerminalState
	}

	now := s.now()
	record.Status = domain.EnrollmentCompleted
	record.CompletedAt = &now
	record.UpdatedAt = now

	updated, err := s.enrollments.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.cancelExpiry(ctx, updated.ID)
	s.logger.Info("enrollment.completed", "enrollment_id", updated.ID)
	s.emit(ctx, "complete", updated, nil)
	return updated, nil
}

// SetFinalGrade records the final grade on an active or completed enrollment.
func (s *service) SetFinalGrade(ctx context.Context, id uuid.UUID, grade float64) (*Enrollment, error) {
	if grade < 0 || grade > 100 {
		return nil, ErrGradeInvalid
	}

	record, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.EnrollmentDropped {
		return nil, ErrEnrollmentDropped
	}

	record.FinalGrade = &grade
	record.UpdatedAt = s.now()

	updated, err := s.enrollments.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("enrollment.graded", "enrollment_id", updated.ID, "final_grade", grade)
	return updated, nil
}

// Expire drops an enrollment whose expiry instant has passed. The scheduler
// worker calls this when the expiry job fires.
func (s *service) Expire(ctx context.Context, id uuid.UUID) (*Enrollment, error) {
	record, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status.Terminal() {
		return record, nil
	}
	if record.ExpiresAt == nil || record.ExpiresAt.After(s.now()) {
		return nil, ErrExpiryNotDue
	}

	now := s.now()
	record.Status = domain.EnrollmentDropped
	record.DroppedAt = &now
	record.UpdatedAt = now

	updated, err := s.enrollments.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("enrollment.expired", "enrollment_id", updated.ID)
	s.emit(ctx, "expire", updated, nil)
	return updated, nil
}

func (s *service) cancelExpiry(ctx context.Context, id uuid.UUID) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.CancelByKey(ctx, scheduler.EnrollmentExpireJobKey(id)); err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
		s.logger.Warn("enrollment.expiry.cancel_failed", "enrollment_id", id, "error", err)
	}
}

func (s *service) emit(ctx context.Context, verb string, record *Enrollment, metadata map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	event := activity.Event{
		Verb:       verb,
		UserID:     record.StudentID.String(),
		ObjectType: "enrollment",
		ObjectID:   record.ID.String(),
		Metadata:   metadata,
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("activity.emit.failed", "verb", verb, "error", err)
	}
}
