package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Service derives read-side analytics from the operational services.
// Per-student figures respect the analytics consent flag: students who have
// not granted it are excluded from risk and engagement reporting, and their
// own overview is refused.
type Service interface {
	CourseOverview(ctx context.Context, courseID uuid.UUID) (*CourseOverview, error)
	StudentOverview(ctx context.Context, studentID uuid.UUID) (*StudentOverview, error)
	AtRiskStudents(ctx context.Context, courseID uuid.UUID) ([]*AtRiskStudent, error)
	WeeklyEngagement(ctx context.Context, courseID uuid.UUID, weeks int) ([]WeeklyEngagement, error)
	InvalidateCourse(ctx context.Context, courseID uuid.UUID) error
}

var (
	ErrConsentRequired = errors.New("analytics: student has not consented to analytics")
	ErrWeeksInvalid    = errors.New("analytics: weeks must be positive")
)

const (
	defaultAtRiskProgressThreshold = 25.0
	defaultAtRiskInactivity        = 14 * 24 * time.Hour
	defaultOverviewTTL             = 5 * time.Minute
)

// ServiceOption configures analytics service behaviour.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.AnalyticsLogger(provider)
	}
}

// WithCache stores computed overviews in the provider for the given TTL.
func WithCache(cache interfaces.CacheProvider, ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cache = cache
		if ttl > 0 {
			s.overviewTTL = ttl
		}
	}
}

// WithAtRiskThresholds tunes the risk heuristics: enrollments below the
// progress percentage or idle longer than the inactivity window are flagged.
func WithAtRiskThresholds(progressThreshold float64, inactivity time.Duration) ServiceOption {
	return func(s *service) {
		if progressThreshold > 0 {
			s.atRiskThreshold = progressThreshold
		}
		if inactivity > 0 {
			s.atRiskInactivity = inactivity
		}
	}
}

type service struct {
	courses     catalog.Service
	students    roster.Service
	enrollments enrollment.Service
	progress    progress.Service
	assessments assessment.Service
	cache       interfaces.CacheProvider
	logger      interfaces.Logger
	now         func() time.Time

	atRiskThreshold  float64
	atRiskInactivity time.Duration
	overviewTTL      time.Duration
}

// NewService constructs an analytics service instance.
func NewService(courses catalog.Service, students roster.Service, enrollments enrollment.Service, progressSvc progress.Service, assessments assessment.Service, opts ...ServiceOption) Service {
	s := &service{
		courses:          courses,
		students:         students,
		enrollments:      enrollments,
		progress:         progressSvc,
		assessments:      assessments,
		logger:           logging.NoOp(),
		now:              time.Now,
		atRiskThreshold:  defaultAtRiskProgressThreshold,
		atRiskInactivity: defaultAtRiskInactivity,
		overviewTTL:      defaultOverviewTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) CourseOverview(ctx context.Context, courseID uuid.UUID) (*CourseOverview, error) {
	cacheKey := courseOverviewCacheKey(courseID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			if overview, ok := decodeCachedOverview(cached); ok {
				return overview, nil
			}
		}
	}

	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	records, _, err := s.enrollments.ListByCourse(ctx, courseID, enrollment.ListOptions{})
	if err != nil {
		return nil, err
	}

	overview := &CourseOverview{
		CourseID:    course.ID,
		CourseCode:  course.Code,
		Title:       course.Title,
		GeneratedAt: s.now(),
	}

	var progressSum float64
	var progressCount int
	for _, record := range records {
		overview.TotalEnrollments++
		switch record.Status {
		case domain.EnrollmentActive:
			overview.ActiveEnrollments++
		case domain.EnrollmentCompleted:
			overview.CompletedEnrollments++
		case domain.EnrollmentDropped:
			overview.DroppedEnrollments++
		}
		if record.Status.Terminal() && record.Status != domain.EnrollmentCompleted {
			continue
		}
		summary, err := s.progress.Summary(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		progressSum += summary.PercentComplete
		progressCount++
	}
	if progressCount > 0 {
		overview.AverageProgress = progressSum / float64(progressCount)
	}

	if score, ok, err := s.averageCourseScore(ctx, courseID, records); err != nil {
		return nil, err
	} else if ok {
		overview.AverageScore = &score
	}

	atRisk, err := s.AtRiskStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}
	overview.AtRiskCount = len(atRisk)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, overview, s.overviewTTL); err != nil {
			s.logger.Warn("overview.cache_write_failed", "course_id", courseID, "error", err)
		}
	}
	return overview, nil
}

func (s *service) StudentOverview(ctx context.Context, studentID uuid.UUID) (*StudentOverview, error) {
	granted, err := s.students.HasConsent(ctx, studentID, domain.ConsentAnalytics)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, ErrConsentRequired
	}

	records, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overview := &StudentOverview{
		StudentID:   studentID,
		GeneratedAt: now,
	}

	var progressSum float64
	var progressCount int
	var scoreSum float64
	var scoreCount int
	for _, record := range records {
		switch record.Status {
		case domain.EnrollmentActive:
			overview.ActiveCourses++
		case domain.EnrollmentCompleted:
			overview.CompletedCourses++
		}

		summary, err := s.progress.Summary(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		progressSum += summary.PercentComplete
		progressCount++
		if summary.LastActivityAt != nil {
			if overview.LastActivityAt == nil || summary.LastActivityAt.After(*overview.LastActivityAt) {
				overview.LastActivityAt = summary.LastActivityAt
			}
		}

		attempts, err := s.assessments.ListAttemptsByEnrollment(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		for _, attempt := range attempts {
			if attempt.Status == domain.AttemptGraded && attempt.Score != nil {
				scoreSum += *attempt.Score
				scoreCount++
			}
		}

		if record.Status == domain.EnrollmentActive {
			failing, err := s.failingScore(ctx, record.ID)
			if err != nil {
				return nil, err
			}
			if len(s.isAtRisk(summary, record, now, failing)) > 0 {
				overview.AtRisk = true
			}
		}
	}
	if progressCount > 0 {
		overview.AverageProgress = progressSum / float64(progressCount)
	}
	if scoreCount > 0 {
		avg := scoreSum / float64(scoreCount)
		overview.AverageScore = &avg
	}
	return overview, nil
}

func (s *service) AtRiskStudents(ctx context.Context, courseID uuid.UUID) ([]*AtRiskStudent, error) {
	records, _, err := s.enrollments.ListByCourse(ctx, courseID, enrollment.ListOptions{
		Status: domain.EnrollmentActive,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	var flagged []*AtRiskStudent
	for _, record := range records {
		granted, err := s.students.HasConsent(ctx, record.StudentID, domain.ConsentAnalytics)
		if err != nil {
			return nil, err
		}
		if !granted {
			continue
		}

		summary, err := s.progress.Summary(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		failing, err := s.failingScore(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		reasons := s.isAtRisk(summary, record, now, failing)
		if len(reasons) == 0 {
			continue
		}
		flagged = append(flagged, &AtRiskStudent{
			StudentID:       record.StudentID,
			EnrollmentID:    record.ID,
			CourseID:        courseID,
			PercentComplete: summary.PercentComplete,
			LastActivityAt:  summary.LastActivityAt,
			Reasons:         reasons,
		})
	}
	return flagged, nil
}

func (s *service) WeeklyEngagement(ctx context.Context, courseID uuid.UUID, weeks int) ([]WeeklyEngagement, error) {
	if weeks <= 0 {
		return nil, ErrWeeksInvalid
	}

	records, _, err := s.enrollments.ListByCourse(ctx, courseID, enrollment.ListOptions{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	currentWeek := weekStart(now)
	buckets := make([]WeeklyEngagement, weeks)
	activeStudents := make([]map[uuid.UUID]struct{}, weeks)
	for i := range buckets {
		buckets[i].WeekStart = currentWeek.AddDate(0, 0, -7*(weeks-1-i))
		activeStudents[i] = map[uuid.UUID]struct{}{}
	}
	bucketFor := func(at time.Time) int {
		start := weekStart(at)
		offset := int(currentWeek.Sub(start) / (7 * 24 * time.Hour))
		if offset < 0 || offset >= weeks {
			return -1
		}
		return weeks - 1 - offset
	}

	for _, record := range records {
		granted, err := s.students.HasConsent(ctx, record.StudentID, domain.ConsentAnalytics)
		if err != nil {
			return nil, err
		}
		if !granted {
			continue
		}

		entries, err := s.progress.ListProgress(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if idx := bucketFor(entry.UpdatedAt); idx >= 0 {
				buckets[idx].TimeSpentSeconds += entry.TimeSpentSeconds
				activeStudents[idx][record.StudentID] = struct{}{}
			}
			if entry.CompletedAt != nil {
				if idx := bucketFor(*entry.CompletedAt); idx >= 0 {
					buckets[idx].LessonsCompleted++
				}
			}
		}
	}

	for i := range buckets {
		buckets[i].ActiveStudents = len(activeStudents[i])
	}
	return buckets, nil
}

func (s *service) InvalidateCourse(ctx context.Context, courseID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, courseOverviewCacheKey(courseID))
}

func (s *service) isAtRisk(summary *progress.CourseSummary, record *enrollment.Enrollment, now time.Time, failingScore bool) []string {
	var reasons []string
	if summary.PercentComplete < s.atRiskThreshold {
		reasons = append(reasons, RiskReasonLowProgress)
	}

	lastActivity := record.EnrolledAt
	if summary.LastActivityAt != nil {
		lastActivity = *summary.LastActivityAt
	}
	if now.Sub(lastActivity) > s.atRiskInactivity {
		reasons = append(reasons, RiskReasonInactive)
	}
	if failingScore {
		reasons = append(reasons, RiskReasonFailingScore)
	}
	return reasons
}

// failingScore reports whether the enrollment's graded attempts average below
// the passing scores of the assessments they belong to.
func (s *service) failingScore(ctx context.Context, enrollmentID uuid.UUID) (bool, error) {
	attempts, err := s.assessments.ListAttemptsByEnrollment(ctx, enrollmentID)
	if err != nil {
		return false, err
	}

	thresholds := map[uuid.UUID]float64{}
	var scoreSum, passSum float64
	var count int
	for _, attempt := range attempts {
		if attempt.Status != domain.AttemptGraded || attempt.Score == nil {
			continue
		}
		threshold, ok := thresholds[attempt.AssessmentID]
		if !ok {
			record, err := s.assessments.GetAssessment(ctx, attempt.AssessmentID)
			if err != nil {
				return false, err
			}
			threshold = record.PassingScore
			thresholds[attempt.AssessmentID] = threshold
		}
		scoreSum += *attempt.Score
		passSum += threshold
		count++
	}
	if count == 0 {
		return false, nil
	}
	return scoreSum/float64(count) < passSum/float64(count), nil
}

func (s *service) averageCourseScore(ctx context.Context, courseID uuid.UUID, records []*enrollment.Enrollment) (float64, bool, error) {
	assessments, err := s.assessments.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, false, err
	}
	if len(assessments) == 0 {
		return 0, false, nil
	}

	var sum float64
	var count int
	for _, a := range assessments {
		for _, record := range records {
			best, err := s.assessments.BestAttempt(ctx, a.ID, record.ID)
			if err != nil {
				if errors.Is(err, assessment.ErrNoGradedAttempts) {
					continue
				}
				return 0, false, err
			}
			sum += *best.Score
			count++
		}
	}
	if count == 0 {
		return 0, false, nil
	}
	return sum / float64(count), true, nil
}

// weekStart truncates to the preceding Monday at midnight UTC.
func weekStart(at time.Time) time.Time {
	at = at.UTC()
	weekday := int(at.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, -(weekday - 1))
}

func courseOverviewCacheKey(courseID uuid.UUID) string {
	return fmt.Sprintf("analytics:course:%s:overview", courseID)
}

// decodeCachedOverview accepts the typed value the memory provider hands back
// as well as the generic JSON document a Redis-backed provider returns.
func decodeCachedOverview(value any) (*CourseOverview, bool) {
	switch v := value.(type) {
	case *CourseOverview:
		return v, true
	case CourseOverview:
		return &v, true
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}
	var overview CourseOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil, false
	}
	if overview.CourseID == uuid.Nil {
		return nil, false
	}
	return &overview, true
}
