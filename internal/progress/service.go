package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/pkg/activity"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Service tracks lesson progress and derives course-level summaries.
type Service interface {
	StartLesson(ctx context.Context, input StartLessonInput) (*LessonProgress, error)
	CompleteLesson(ctx context.Context, input CompleteLessonInput) (*LessonProgress, error)
	RecordTime(ctx context.Context, input RecordTimeInput) (*LessonProgress, error)
	GetLessonProgress(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*LessonProgress, error)
	ListProgress(ctx context.Context, enrollmentID uuid.UUID) ([]*LessonProgress, error)
	Summary(ctx context.Context, enrollmentID uuid.UUID) (*CourseSummary, error)
}

// StartLessonInput identifies the lesson a student is opening.
type StartLessonInput struct {
	EnrollmentID uuid.UUID
	LessonID     uuid.UUID
}

// CompleteLessonInput marks a lesson as finished. TimeSpentSeconds, when
// positive, is added to the accumulated total.
type CompleteLessonInput struct {
	EnrollmentID     uuid.UUID
	LessonID         uuid.UUID
	TimeSpentSeconds int
}

// RecordTimeInput adds study time to an in-progress lesson.
type RecordTimeInput struct {
	EnrollmentID     uuid.UUID
	LessonID         uuid.UUID
	TimeSpentSeconds int
}

var (
	ErrEnrollmentRequired  = errors.New("progress: enrollment id required")
	ErrLessonRequired      = errors.New("progress: lesson id required")
	ErrEnrollmentNotActive = errors.New("progress: enrollment is not active")
	ErrLessonNotInCourse   = errors.New("progress: lesson does not belong to the enrolled course")
	ErrTimeSpentInvalid    = errors.New("progress: time spent must not be negative")
	ErrLessonNotStarted    = errors.New("progress: lesson has not been started")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures progress service behaviour.
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

// WithLogger wires the module logger.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.ProgressLogger(provider)
	}
}

// WithActivityEmitter wires progress activity events.
func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

type service struct {
	records     Repository
	enrollments enrollment.Service
	courses     catalog.Service
	activity    *activity.Emitter
	logger      interfaces.Logger
	now         func() time.Time
	id          IDGenerator
}

// NewService constructs a progress service instance.
func NewService(repo Repository, enrollments enrollment.Service, courses catalog.Service, opts ...ServiceOption) Service {
	s := &service{
		records:     repo,
		enrollments: enrollments,
		courses:     courses,
		logger:      logging.NoOp(),
		now:         time.Now,
		id:          uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) StartLesson(ctx context.Context, input StartLessonInput) (*LessonProgress, error) {
	enr, lesson, err := s.resolve(ctx, input.EnrollmentID, input.LessonID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.records.GetByPair(ctx, enr.ID, lesson.ID); err == nil {
		// Starting an already tracked lesson is a no-op.
		return existing, nil
	} else {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	now := s.now()
	record := &LessonProgress{
		ID:           s.id(),
		EnrollmentID: enr.ID,
		LessonID:     lesson.ID,
		Status:       domain.ProgressInProgress,
		StartedAt:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.records.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("lesson.started", "enrollment_id", enr.ID, "lesson_id", lesson.ID)
	s.emit(ctx, "lesson.start", enr, created, nil)
	return created, nil
}

func (s *service) CompleteLesson(ctx context.Context, input CompleteLessonInput) (*LessonProgress, error) {
	if input.TimeSpentSeconds < 0 {
		return nil, ErrTimeSpentInvalid
	}

	enr, lesson, err := s.resolve(ctx, input.EnrollmentID, input.LessonID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record, err := s.records.GetByPair(ctx, enr.ID, lesson.ID)
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		// Completing an untracked lesson records the start and the finish
		// in one step.
		record = &LessonProgress{
			ID:           s.id(),
			EnrollmentID: enr.ID,
			LessonID:     lesson.ID,
			Status:       domain.ProgressInProgress,
			StartedAt:    &now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if record, err = s.records.Create(ctx, record); err != nil {
			return nil, err
		}
	}

	if record.Status == domain.ProgressCompleted {
		return record, nil
	}

	record.Status = domain.ProgressCompleted
	record.CompletedAt = &now
	record.TimeSpentSeconds += input.TimeSpentSeconds
	record.UpdatedAt = now

	updated, err := s.records.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lesson.completed", "enrollment_id", enr.ID, "lesson_id", lesson.ID)
	s.emit(ctx, "lesson.complete", enr, updated, nil)

	if err := s.maybeCompleteEnrollment(ctx, enr); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) RecordTime(ctx context.Context, input RecordTimeInput) (*LessonProgress, error) {
	if input.TimeSpentSeconds < 0 {
		return nil, ErrTimeSpentInvalid
	}

	enr, lesson, err := s.resolve(ctx, input.EnrollmentID, input.LessonID)
	if err != nil {
		return nil, err
	}

	record, err := s.records.GetByPair(ctx, enr.ID, lesson.ID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, ErrLessonNotStarted
		}
		return nil, err
	}

	record.TimeSpentSeconds += input.TimeSpentSeconds
	record.UpdatedAt = s.now()
	return s.records.Update(ctx, record)
}

func (s *service) GetLessonProgress(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*LessonProgress, error) {
	return s.records.GetByPair(ctx, enrollmentID, lessonID)
}

func (s *service) ListProgress(ctx context.Context, enrollmentID uuid.UUID) ([]*LessonProgress, error) {
	return s.records.ListByEnrollment(ctx, enrollmentID)
}

// Summary computes completion over REQUIRED lessons; optional lessons count
// toward totals but never toward the completion percentage.
func (s *service) Summary(ctx context.Context, enrollmentID uuid.UUID) (*CourseSummary, error) {
	if enrollmentID == uuid.Nil {
		return nil, ErrEnrollmentRequired
	}

	enr, err := s.enrollments.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.courses.ListLessons(ctx, enr.CourseID)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListByEnrollment(ctx, enr.ID)
	if err != nil {
		return nil, err
	}

	byLesson := make(map[uuid.UUID]*LessonProgress, len(records))
	summary := &CourseSummary{
		EnrollmentID: enr.ID,
		CourseID:     enr.CourseID,
		TotalLessons: len(lessons),
	}
	for _, record := range records {
		byLesson[record.LessonID] = record
		summary.TimeSpentSeconds += record.TimeSpentSeconds
		if summary.LastActivityAt == nil || record.UpdatedAt.After(*summary.LastActivityAt) {
			at := record.UpdatedAt
			summary.LastActivityAt = &at
		}
	}

	for _, lesson := range lessons {
		record := byLesson[lesson.ID]
		completed := record != nil && record.Status == domain.ProgressCompleted
		if completed {
			summary.CompletedLessons++
		}
		if lesson.Required {
			summary.RequiredLessons++
			if completed {
				summary.CompletedRequired++
			}
		}
	}

	if summary.RequiredLessons > 0 {
		summary.PercentComplete = float64(summary.CompletedRequired) / float64(summary.RequiredLessons) * 100
	} else if summary.TotalLessons > 0 {
		summary.PercentComplete = float64(summary.CompletedLessons) / float64(summary.TotalLessons) * 100
	}
	return summary, nil
}

func (s *service) resolve(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*enrollment.Enrollment, *catalog.Lesson, error) {
	if enrollmentID == uuid.Nil {
		return nil, nil, ErrEnrollmentRequired
	}
	if lessonID == uuid.Nil {
		return nil, nil, ErrLessonRequired
	}

	enr, err := s.enrollments.Get(ctx, enrollmentID)
	if err != nil {
		return nil, nil, err
	}
	if enr.Status != domain.EnrollmentActive {
		return nil, nil, ErrEnrollmentNotActive
	}

	lesson, err := s.courses.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}
	if lesson.CourseID != enr.CourseID {
		return nil, nil, ErrLessonNotInCourse
	}
	return enr, lesson, nil
}

func (s *service) maybeCompleteEnrollment(ctx context.Context, enr *enrollment.Enrollment) error {
	summary, err := s.Summary(ctx, enr.ID)
	if err != nil {
		return err
	}
	if summary.RequiredLessons == 0 || summary.CompletedRequired < summary.RequiredLessons {
		return nil
	}

	if _, err := s.enrollments.Complete(ctx, enr.ID); err != nil {
		return err
	}
	s.logger.Info("enrollment.auto_completed", "enrollment_id", enr.ID, "course_id", enr.CourseID)
	return nil
}

func (s *service) emit(ctx context.Context, verb string, enr *enrollment.Enrollment, record *LessonProgress, metadata map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["enrollment_id"] = enr.ID.String()
	event := activity.Event{
		Verb:       verb,
		UserID:     enr.StudentID.String(),
		ObjectType: "lesson",
		ObjectID:   record.LessonID.String(),
		Metadata:   metadata,
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("activity.emit.failed", "verb", verb, "error", err)
	}
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}
