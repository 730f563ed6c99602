package assessment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/internal/scheduler"
	"github.com/goliatone/go-lms/pkg/activity"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Service manages assessments and the attempt lifecycle.
type Service interface {
	CreateAssessment(ctx context.Context, input CreateAssessmentInput) (*Assessment, error)
	UpdateAssessment(ctx context.Context, input UpdateAssessmentInput) (*Assessment, error)
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Assessment, error)
	PublishAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	DeleteAssessment(ctx context.Context, id uuid.UUID) error

	StartAttempt(ctx context.Context, input StartAttemptInput) (*Attempt, error)
	SubmitAttempt(ctx context.Context, input SubmitAttemptInput) (*Attempt, error)
	GradeAttempt(ctx context.Context, input GradeAttemptInput) (*Attempt, error)
	ExpireAttempt(ctx context.Context, id uuid.UUID) (*Attempt, error)
	// PurgeExpiredAttempts removes expired attempts older than the retention
	// window and reports how many were dropped. Zero retention disables it.
	PurgeExpiredAttempts(ctx context.Context) (int, error)
	GetAttempt(ctx context.Context, id uuid.UUID) (*Attempt, error)
	ListAttempts(ctx context.Context, assessmentID, enrollmentID uuid.UUID) ([]*Attempt, error)
	ListAttemptsByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*Attempt, error)
	BestAttempt(ctx context.Context, assessmentID, enrollmentID uuid.UUID) (*Attempt, error)
}

// QuestionValidator verifies a question set against the canonical schema.
type QuestionValidator interface {
	ValidateQuestions(questions []Question) error
}

// CreateAssessmentInput captures a new assessment. Zero-valued grading
// fields fall back to the service defaults.
type CreateAssessmentInput struct {
	CourseID         uuid.UUID
	LessonID         *uuid.UUID
	Kind             AssessmentKind
	Title            string
	Description      *string
	Questions        []Question
	PassingScore     float64
	MaxAttempts      int
	TimeLimitSeconds int
	Weight           float64
	AvailableFrom    *time.Time
	AvailableUntil   *time.Time
}

// UpdateAssessmentInput defines mutable assessment fields. Nil pointers
// leave the current value untouched. Only draft assessments can change.
type UpdateAssessmentInput struct {
	AssessmentID     uuid.UUID
	Title            *string
	Description      *string
	Questions        []Question
	PassingScore     *float64
	MaxAttempts      *int
	TimeLimitSeconds *int
	Weight           *float64
	AvailableFrom    *time.Time
	AvailableUntil   *time.Time
}

// StartAttemptInput opens a new attempt for an enrollment.
type StartAttemptInput struct {
	AssessmentID uuid.UUID
	EnrollmentID uuid.UUID
}

// SubmitAttemptInput submits answers keyed by question ID.
type SubmitAttemptInput struct {
	AttemptID uuid.UUID
	Answers   map[string]string
}

// GradeAttemptInput records a manual score on a submitted attempt, or
// overrides an auto-graded one. GradedBy identifies the grader.
type GradeAttemptInput struct {
	AttemptID uuid.UUID
	Score     float64
	GradedBy  uuid.UUID
}

var (
	ErrCourseRequired           = errors.New("assessment: course id required")
	ErrTitleRequired            = errors.New("assessment: title required")
	ErrQuestionsRequired        = errors.New("assessment: at least one question required")
	ErrQuestionInvalid          = errors.New("assessment: question set is invalid")
	ErrPassingScoreInvalid      = errors.New("assessment: passing score must be between 0 and 100")
	ErrMaxAttemptsInvalid       = errors.New("assessment: max attempts must not be negative")
	ErrTimeLimitInvalid         = errors.New("assessment: time limit must not be negative")
	ErrLessonNotInCourse        = errors.New("assessment: lesson does not belong to the course")
	ErrAssessmentPublished      = errors.New("assessment: published assessments cannot change")
	ErrAssessmentNotPublished   = errors.New("assessment: assessment is not published")
	ErrAssessmentHasAttempts    = errors.New("assessment: assessments with attempts cannot be deleted")
	ErrEnrollmentNotActive      = errors.New("assessment: enrollment is not active")
	ErrEnrollmentCourseMismatch = errors.New("assessment: enrollment does not belong to the assessment course")
	ErrMaxAttemptsReached       = errors.New("assessment: attempt limit reached")
	ErrAttemptAlreadyOpen       = errors.New("assessment: an attempt is already in progress")
	ErrAttemptNotOpen           = errors.New("assessment: attempt is not in progress")
	ErrAttemptExpired           = errors.New("assessment: attempt time limit exceeded")
	ErrAttemptNotExpired        = errors.New("assessment: attempt time limit has not passed")
	ErrNoGradedAttempts         = errors.New("assessment: no graded attempts")
	ErrKindInvalid              = errors.New("assessment: unknown assessment kind")
	ErrWeightInvalid            = errors.New("assessment: weight must not be negative")
	ErrWindowInvalid            = errors.New("assessment: available_from must precede available_until")
	ErrAssessmentNotAvailable   = errors.New("assessment: assessment is outside its availability window")
	ErrScoreInvalid             = errors.New("assessment: score must be between 0 and 100")
	ErrAttemptNotGradable       = errors.New("assessment: attempt has not been submitted")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ServiceOption configures assessment service behaviour.
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

// WithScheduler wires attempt expiry jobs through the supplied scheduler.
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
		s.logger = logging.AssessmentLogger(provider)
	}
}

// WithActivityEmitter wires assessment activity events.
func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

// WithQuestionValidator wires schema validation for question sets.
func WithQuestionValidator(validator QuestionValidator) ServiceOption {
	return func(s *service) {
		if validator != nil {
			s.validator = validator
		}
	}
}

// WithAttemptRetention sets how many days expired attempts are kept before
// PurgeExpiredAttempts drops them. Zero or negative disables the purge.
func WithAttemptRetention(days int) ServiceOption {
	return func(s *service) {
		s.retentionDays = days
	}
}

// WithGradingDefaults sets the fallbacks applied when an assessment omits
// grading fields. maxAttempts zero means unlimited.
func WithGradingDefaults(passingScore float64, maxAttempts int, timeLimit time.Duration) ServiceOption {
	return func(s *service) {
		s.defaultPassingScore = passingScore
		s.defaultMaxAttempts = maxAttempts
		s.defaultTimeLimit = timeLimit
	}
}

type service struct {
	assessments AssessmentRepository
	attempts    AttemptRepository
	courses     catalog.Service
	enrollments enrollment.Service
	scheduler   interfaces.Scheduler
	activity    *activity.Emitter
	validator   QuestionValidator
	logger      interfaces.Logger
	now         func() time.Time
	id          IDGenerator

	defaultPassingScore float64
	defaultMaxAttempts  int
	defaultTimeLimit    time.Duration
	retentionDays       int
}

// NewService constructs an assessment service instance.
func NewService(assessments AssessmentRepository, attempts AttemptRepository, courses catalog.Service, enrollments enrollment.Service, opts ...ServiceOption) Service {
	s := &service{
		assessments:         assessments,
		attempts:            attempts,
		courses:             courses,
		enrollments:         enrollments,
		logger:              logging.NoOp(),
		now:                 time.Now,
		id:                  uuid.New,
		defaultPassingScore: 70,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) CreateAssessment(ctx context.Context, input CreateAssessmentInput) (*Assessment, error) {
	if input.CourseID == uuid.Nil {
		return nil, ErrCourseRequired
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	course, err := s.courses.GetCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if input.LessonID != nil {
		lesson, err := s.courses.GetLesson(ctx, *input.LessonID)
		if err != nil {
			return nil, err
		}
		if lesson.CourseID != course.ID {
			return nil, ErrLessonNotInCourse
		}
	}

	kind := input.Kind
	if kind == "" {
		kind = KindQuiz
	}
	if !KnownKind(kind) {
		return nil, ErrKindInvalid
	}

	if err := s.validateQuestions(kind, input.Questions); err != nil {
		return nil, err
	}

	passingScore := input.PassingScore
	if passingScore == 0 {
		passingScore = s.defaultPassingScore
	}
	if passingScore < 0 || passingScore > 100 {
		return nil, ErrPassingScoreInvalid
	}

	maxAttempts := input.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = s.defaultMaxAttempts
	}
	if maxAttempts < 0 {
		return nil, ErrMaxAttemptsInvalid
	}

	timeLimit := input.TimeLimitSeconds
	if timeLimit == 0 && s.defaultTimeLimit > 0 {
		timeLimit = int(s.defaultTimeLimit / time.Second)
	}
	if timeLimit < 0 {
		return nil, ErrTimeLimitInvalid
	}

	weight := input.Weight
	if weight == 0 {
		weight = 1
	}
	if weight < 0 {
		return nil, ErrWeightInvalid
	}

	if err := validateAvailability(input.AvailableFrom, input.AvailableUntil); err != nil {
		return nil, err
	}

	now := s.now()
	record := &Assessment{
		ID:               s.id(),
		CourseID:         course.ID,
		LessonID:         input.LessonID,
		Kind:             kind,
		Title:            title,
		Description:      input.Description,
		Questions:        input.Questions,
		PassingScore:     passingScore,
		MaxAttempts:      maxAttempts,
		TimeLimitSeconds: timeLimit,
		Weight:           weight,
		AvailableFrom:    input.AvailableFrom,
		AvailableUntil:   input.AvailableUntil,
		Status:           domain.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.assessments.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("assessment.created", "assessment_id", created.ID, "course_id", course.ID)
	return created, nil
}

func (s *service) UpdateAssessment(ctx context.Context, input UpdateAssessmentInput) (*Assessment, error) {
	record, err := s.assessments.GetByID(ctx, input.AssessmentID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.StatusDraft {
		return nil, ErrAssessmentPublished
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		record.Title = title
	}
	if input.Description != nil {
		record.Description = input.Description
	}
	if input.Questions != nil {
		if err := s.validateQuestions(record.Kind, input.Questions); err != nil {
			return nil, err
		}
		record.Questions = input.Questions
	}
	if input.PassingScore != nil {
		if *input.PassingScore < 0 || *input.PassingScore > 100 {
			return nil, ErrPassingScoreInvalid
		}
		record.PassingScore = *input.PassingScore
	}
	if input.MaxAttempts != nil {
		if *input.MaxAttempts < 0 {
			return nil, ErrMaxAttemptsInvalid
		}
		record.MaxAttempts = *input.MaxAttempts
	}
	if input.TimeLimitSeconds != nil {
		if *input.TimeLimitSeconds < 0 {
			return nil, ErrTimeLimitInvalid
		}
		record.TimeLimitSeconds = *input.TimeLimitSeconds
	}
	if input.Weight != nil {
		if *input.Weight < 0 {
			return nil, ErrWeightInvalid
		}
		record.Weight = *input.Weight
	}
	if input.AvailableFrom != nil {
		record.AvailableFrom = input.AvailableFrom
	}
	if input.AvailableUntil != nil {
		record.AvailableUntil = input.AvailableUntil
	}
	if err := validateAvailability(record.AvailableFrom, record.AvailableUntil); err != nil {
		return nil, err
	}

	record.UpdatedAt = s.now()
	return s.assessments.Update(ctx, record)
}

func (s *service) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return s.assessments.GetByID(ctx, id)
}

func (s *service) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Assessment, error) {
	return s.assessments.ListByCourse(ctx, courseID)
}

func (s *service) PublishAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	record, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.StatusPublished {
		return record, nil
	}
	if len(record.Questions) == 0 {
		return nil, ErrQuestionsRequired
	}

	record.Status = domain.StatusPublished
	record.UpdatedAt = s.now()

	updated, err := s.assessments.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("assessment.published", "assessment_id", updated.ID)
	return updated, nil
}

func (s *service) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	record, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record.Status == domain.StatusPublished {
		return ErrAssessmentPublished
	}
	return s.assessments.Delete(ctx, id)
}

func (s *service) StartAttempt(ctx context.Context, input StartAttemptInput) (*Attempt, error) {
	assessment, err := s.assessments.GetByID(ctx, input.AssessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.Status != domain.StatusPublished {
		return nil, ErrAssessmentNotPublished
	}
	if !assessment.AvailableAt(s.now()) {
		return nil, ErrAssessmentNotAvailable
	}

	enr, err := s.enrollments.Get(ctx, input.EnrollmentID)
	if err != nil {
		return nil, err
	}
	// Completed enrollments can still sit assessments: finishing the last
	// required lesson completes the enrollment before any final quiz runs.
	if enr.Status != domain.EnrollmentActive && enr.Status != domain.EnrollmentCompleted {
		return nil, ErrEnrollmentNotActive
	}
	if enr.CourseID != assessment.CourseID {
		return nil, ErrEnrollmentCourseMismatch
	}

	existing, err := s.attempts.ListByAssessmentAndEnrollment(ctx, assessment.ID, enr.ID)
	if err != nil {
		return nil, err
	}
	for _, attempt := range existing {
		if attempt.Status == domain.AttemptInProgress {
			return nil, ErrAttemptAlreadyOpen
		}
	}
	if assessment.MaxAttempts > 0 && len(existing) >= assessment.MaxAttempts {
		return nil, ErrMaxAttemptsReached
	}

	now := s.now()
	record := &Attempt{
		ID:            s.id(),
		AssessmentID:  assessment.ID,
		EnrollmentID:  enr.ID,
		AttemptNumber: len(existing) + 1,
		Status:        domain.AttemptInProgress,
		StartedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if assessment.TimeLimitSeconds > 0 {
		expiresAt := now.Add(time.Duration(assessment.TimeLimitSeconds) * time.Second)
		record.ExpiresAt = &expiresAt
	}

	created, err := s.attempts.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if created.ExpiresAt != nil && s.scheduler != nil {
		if _, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
			Key:   scheduler.AttemptExpireJobKey(created.ID),
			Type:  scheduler.JobTypeAttemptExpire,
			RunAt: *created.ExpiresAt,
			Payload: map[string]any{
				"attempt_id": created.ID.String(),
			},
		}); err != nil {
			return nil, err
		}
	}

	s.logger.Info("attempt.started",
		"attempt_id", created.ID,
		"assessment_id", assessment.ID,
		"enrollment_id", enr.ID,
		"attempt_number", created.AttemptNumber,
	)
	s.emit(ctx, "attempt.start", enr, created, nil)
	return created, nil
}

func (s *service) SubmitAttempt(ctx context.Context, input SubmitAttemptInput) (*Attempt, error) {
	record, err := s.attempts.GetByID(ctx, input.AttemptID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.AttemptInProgress {
		return nil, ErrAttemptNotOpen
	}

	now := s.now()
	if record.ExpiresAt != nil && now.After(*record.ExpiresAt) {
		record.Status = domain.AttemptExpired
		record.UpdatedAt = now
		if _, err := s.attempts.Update(ctx, record); err != nil {
			return nil, err
		}
		return nil, ErrAttemptExpired
	}

	assessment, err := s.assessments.GetByID(ctx, record.AssessmentID)
	if err != nil {
		return nil, err
	}

	record.Answers = input.Answers
	record.SubmittedAt = &now
	record.UpdatedAt = now

	// Assignments wait for an instructor score; everything else grades
	// from the answer key on submit.
	if assessment.Kind.ManuallyGraded() {
		record.Status = domain.AttemptSubmitted
	} else {
		score, passed := Grade(assessment, input.Answers)
		record.Score = &score
		record.Passed = &passed
		record.Status = domain.AttemptGraded
		record.GradedAt = &now
	}

	updated, err := s.attempts.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.cancelExpiry(ctx, updated.ID)

	if updated.Status == domain.AttemptGraded {
		s.logger.Info("attempt.graded",
			"attempt_id", updated.ID,
			"score", *updated.Score,
			"passed", *updated.Passed,
		)
	} else {
		s.logger.Info("attempt.submitted", "attempt_id", updated.ID)
	}
	enr, err := s.enrollments.Get(ctx, updated.EnrollmentID)
	if err == nil {
		meta := map[string]any{}
		if updated.Score != nil {
			meta["score"] = *updated.Score
			meta["passed"] = *updated.Passed
		}
		s.emit(ctx, "attempt.submit", enr, updated, meta)
	}
	return updated, nil
}

// GradeAttempt records a manual score on a submitted assignment attempt, or
// overrides the auto-graded score of a quiz or exam.
func (s *service) GradeAttempt(ctx context.Context, input GradeAttemptInput) (*Attempt, error) {
	if input.Score < 0 || input.Score > 100 {
		return nil, ErrScoreInvalid
	}

	record, err := s.attempts.GetByID(ctx, input.AttemptID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.AttemptSubmitted && record.Status != domain.AttemptGraded {
		return nil, ErrAttemptNotGradable
	}

	assessment, err := s.assessments.GetByID(ctx, record.AssessmentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	score := input.Score
	passed := score >= assessment.PassingScore
	record.Score = &score
	record.Passed = &passed
	record.Status = domain.AttemptGraded
	record.GradedAt = &now
	record.UpdatedAt = now
	if input.GradedBy != uuid.Nil {
		gradedBy := input.GradedBy
		record.GradedBy = &gradedBy
	}

	updated, err := s.attempts.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("attempt.graded.manual",
		"attempt_id", updated.ID,
		"score", score,
		"passed", passed,
	)
	enr, err := s.enrollments.Get(ctx, updated.EnrollmentID)
	if err == nil {
		s.emit(ctx, "attempt.grade", enr, updated, map[string]any{
			"score":  score,
			"passed": passed,
		})
	}
	return updated, nil
}

// ExpireAttempt closes an open attempt whose time limit has passed. The
// scheduler worker calls this when the expiry job fires.
func (s *service) ExpireAttempt(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	record, err := s.attempts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.AttemptInProgress {
		return record, nil
	}
	if record.ExpiresAt == nil || record.ExpiresAt.After(s.now()) {
		return nil, ErrAttemptNotExpired
	}

	record.Status = domain.AttemptExpired
	record.UpdatedAt = s.now()

	updated, err := s.attempts.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("attempt.expired", "attempt_id", updated.ID)
	return updated, nil
}

func (s *service) PurgeExpiredAttempts(ctx context.Context) (int, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	purged, err := s.attempts.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("attempts.purged", "count", purged, "cutoff", cutoff)
	}
	return purged, nil
}

func (s *service) GetAttempt(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	return s.attempts.GetByID(ctx, id)
}

func (s *service) ListAttempts(ctx context.Context, assessmentID, enrollmentID uuid.UUID) ([]*Attempt, error) {
	return s.attempts.ListByAssessmentAndEnrollment(ctx, assessmentID, enrollmentID)
}

func (s *service) ListAttemptsByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*Attempt, error) {
	return s.attempts.ListByEnrollment(ctx, enrollmentID)
}

// BestAttempt returns the graded attempt with the highest score.
func (s *service) BestAttempt(ctx context.Context, assessmentID, enrollmentID uuid.UUID) (*Attempt, error) {
	attempts, err := s.attempts.ListByAssessmentAndEnrollment(ctx, assessmentID, enrollmentID)
	if err != nil {
		return nil, err
	}

	var best *Attempt
	for _, attempt := range attempts {
		if attempt.Status != domain.AttemptGraded || attempt.Score == nil {
			continue
		}
		if best == nil || *attempt.Score > *best.Score {
			best = attempt
		}
	}
	if best == nil {
		return nil, ErrNoGradedAttempts
	}
	return best, nil
}

func validateAvailability(from, until *time.Time) error {
	if from != nil && until != nil && !from.Before(*until) {
		return ErrWindowInvalid
	}
	return nil
}

func (s *service) validateQuestions(kind AssessmentKind, questions []Question) error {
	if len(questions) == 0 {
		return ErrQuestionsRequired
	}
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.ID) == "" || strings.TrimSpace(q.Prompt) == "" {
			return ErrQuestionInvalid
		}
		// Assignment prompts have no answer key; the instructor grades them.
		if strings.TrimSpace(q.Answer) == "" && !kind.ManuallyGraded() {
			return ErrQuestionInvalid
		}
		if !KnownQuestionType(q.Type) {
			return ErrQuestionInvalid
		}
		if q.Points <= 0 {
			return ErrQuestionInvalid
		}
		if q.Type == QuestionMultipleChoice && len(q.Options) < 2 {
			return ErrQuestionInvalid
		}
		if _, dup := seen[q.ID]; dup {
			return ErrQuestionInvalid
		}
		seen[q.ID] = struct{}{}
	}
	if s.validator != nil {
		if err := s.validator.ValidateQuestions(questions); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) cancelExpiry(ctx context.Context, id uuid.UUID) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.CancelByKey(ctx, scheduler.AttemptExpireJobKey(id)); err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
		s.logger.Warn("attempt.expiry.cancel_failed", "attempt_id", id, "error", err)
	}
}

func (s *service) emit(ctx context.Context, verb string, enr *enrollment.Enrollment, attempt *Attempt, metadata map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["assessment_id"] = attempt.AssessmentID.String()
	event := activity.Event{
		Verb:       verb,
		UserID:     enr.StudentID.String(),
		ObjectType: "assessment_attempt",
		ObjectID:   attempt.ID.String(),
		Metadata:   metadata,
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.Warn("activity.emit.failed", "verb", verb, "error", err)
	}
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func cloneFloatPtr(f *float64) *float64 {
	if f == nil {
		return nil
	}
	clone := *f
	return &clone
}

func cloneBoolPtr(b *bool) *bool {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}
