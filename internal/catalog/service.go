package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/internal/scheduler"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Service exposes catalog management capabilities.
type Service interface {
	CreateCourse(ctx context.Context, input CreateCourseInput) (*Course, error)
	UpdateCourse(ctx context.Context, input UpdateCourseInput) (*Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	GetCourseByCode(ctx context.Context, code string) (*Course, error)
	ListCourses(ctx context.Context, opts ListCoursesOptions) ([]*Course, int, error)
	PublishCourse(ctx context.Context, input PublishCourseInput) (*Course, error)
	UnpublishCourse(ctx context.Context, input UnpublishCourseInput) (*Course, error)
	ArchiveCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	DeleteCourse(ctx context.Context, req DeleteCourseRequest) error
	EffectiveStatus(course *Course, now time.Time) domain.Status

	AddLesson(ctx context.Context, input AddLessonInput) (*Lesson, error)
	UpdateLesson(ctx context.Context, input UpdateLessonInput) (*Lesson, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*Lesson, error)
	GetLessonBySlug(ctx context.Context, courseID uuid.UUID, lessonSlug string) (*Lesson, error)
	ListLessons(ctx context.Context, courseID uuid.UUID) ([]*Lesson, error)
	ReorderLessons(ctx context.Context, input ReorderLessonsInput) ([]*Lesson, error)
	RemoveLesson(ctx context.Context, id uuid.UUID) error
}

// Renderer converts lesson markdown into HTML. The markdown package supplies
// the goldmark-backed implementation.
type Renderer interface {
	Render(ctx context.Context, source string) (string, error)
}

// CreateCourseInput captures the information required to create a course.
type CreateCourseInput struct {
	Code        string
	Title       string
	Description *string
	Capacity    int
	Tags        []string
	PublishAt   *time.Time
	UnpublishAt *time.Time
}

// UpdateCourseInput defines mutable course fields. Nil pointers leave the
// stored value untouched.
type UpdateCourseInput struct {
	CourseID    uuid.UUID
	Title       *string
	Description *string
	Capacity    *int
	Tags        []string
	PublishAt   *time.Time
	UnpublishAt *time.Time
}

// PublishCourseInput publishes a course immediately or at a future instant.
type PublishCourseInput struct {
	CourseID uuid.UUID
	At       *time.Time
}

// UnpublishCourseInput retires a published course immediately or at a future instant.
type UnpublishCourseInput struct {
	CourseID uuid.UUID
	At       *time.Time
}

type DeleteCourseRequest struct {
	CourseID   uuid.UUID
	HardDelete bool
}

// AddLessonInput captures the information required to append a lesson.
type AddLessonInput struct {
	CourseID        uuid.UUID
	Slug            string
	Title           string
	Body            string
	Position        *int
	Required        *bool
	DurationMinutes int
}

// UpdateLessonInput defines mutable lesson fields.
type UpdateLessonInput struct {
	LessonID        uuid.UUID
	Title           *string
	Body            *string
	Required        *bool
	DurationMinutes *int
}

// ReorderLessonsInput updates ordering for every lesson within a course.
type ReorderLessonsInput struct {
	CourseID uuid.UUID
	Items    []LessonOrder
}

// LessonOrder describes the desired position for a lesson.
type LessonOrder struct {
	LessonID uuid.UUID
	Position int
}

var (
	ErrCourseCodeRequired          = errors.New("catalog: course code required")
	ErrCourseCodeInvalid           = errors.New("catalog: course code must be a valid slug")
	ErrCourseTitleRequired         = errors.New("catalog: course title required")
	ErrCourseExists                = errors.New("catalog: course code already exists")
	ErrCourseCapacityInvalid       = errors.New("catalog: capacity cannot be negative")
	ErrCourseWindowInvalid         = errors.New("catalog: publish_at must be before unpublish_at")
	ErrCourseArchived              = errors.New("catalog: course is archived")
	ErrCourseNotPublished          = errors.New("catalog: course is not published")
	ErrCourseWithoutLessons        = errors.New("catalog: course has no lessons to publish")
	ErrCourseHasLessons            = errors.New("catalog: course still has lessons")
	ErrCourseSoftDeleteUnsupported = errors.New("catalog: soft delete not supported for courses")

	ErrLessonCourseRequired  = errors.New("catalog: lesson course id required")
	ErrLessonSlugRequired    = errors.New("catalog: lesson slug required")
	ErrLessonSlugInvalid     = errors.New("catalog: lesson slug must be a valid slug")
	ErrLessonTitleRequired   = errors.New("catalog: lesson title required")
	ErrLessonExists          = errors.New("catalog: lesson slug already exists for course")
	ErrLessonPositionInvalid = errors.New("catalog: lesson position is out of range")
	ErrLessonOrderMismatch   = errors.New("catalog: reorder input must cover positions 1..n exactly once")
	ErrLessonDurationInvalid = errors.New("catalog: lesson duration cannot be negative")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// CourseIDDeriver derives a course id from its code. When configured the
// derived id replaces the random generator so imports stay idempotent.
type CourseIDDeriver func(code string) uuid.UUID

// LessonIDDeriver derives a lesson id from its course and slug.
type LessonIDDeriver func(courseID uuid.UUID, slug string) uuid.UUID

// ServiceOption configures catalog service behaviour.
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

// WithCourseIDDeriver derives course ids from course codes.
func WithCourseIDDeriver(deriver CourseIDDeriver) ServiceOption {
	return func(s *service) {
		s.courseIDDeriver = deriver
	}
}

// WithLessonIDDeriver derives lesson ids from the owning course and slug.
func WithLessonIDDeriver(deriver LessonIDDeriver) ServiceOption {
	return func(s *service) {
		s.lessonIDDeriver = deriver
	}
}

// WithScheduler wires deferred publication through the supplied scheduler.
func WithScheduler(sched interfaces.Scheduler) ServiceOption {
	return func(s *service) {
		if sched != nil {
			s.scheduler = sched
		}
	}
}

// WithRenderer wires the markdown renderer used for lesson bodies.
func WithRenderer(renderer Renderer) ServiceOption {
	return func(s *service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.CatalogLogger(provider)
	}
}

// WithRequireLessons controls whether publication demands at least one lesson.
func WithRequireLessons(require bool) ServiceOption {
	return func(s *service) {
		s.requireLessons = require
	}
}

// WithDefaultCapacity applies a capacity to courses created without one.
// Zero keeps courses uncapped.
func WithDefaultCapacity(capacity int) ServiceOption {
	return func(s *service) {
		if capacity > 0 {
			s.defaultCapacity = capacity
		}
	}
}

type service struct {
	courses         CourseRepository
	lessons         LessonRepository
	scheduler       interfaces.Scheduler
	renderer        Renderer
	logger          interfaces.Logger
	now             func() time.Time
	id              IDGenerator
	courseIDDeriver CourseIDDeriver
	lessonIDDeriver LessonIDDeriver
	requireLessons  bool
	defaultCapacity int
}

// NewService constructs a catalog service instance.
func NewService(courseRepo CourseRepository, lessonRepo LessonRepository, opts ...ServiceOption) Service {
	s := &service{
		courses:        courseRepo,
		lessons:        lessonRepo,
		now:            time.Now,
		id:             uuid.New,
		logger:         logging.NoOp(),
		requireLessons: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) CreateCourse(ctx context.Context, input CreateCourseInput) (*Course, error) {
	code, err := normalizeCode(input.Code)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrCourseTitleRequired
	}
	if input.Capacity < 0 {
		return nil, ErrCourseCapacityInvalid
	}
	capacity := input.Capacity
	if capacity == 0 {
		capacity = s.defaultCapacity
	}
	if err := validateWindow(input.PublishAt, input.UnpublishAt); err != nil {
		return nil, err
	}

	if existing, err := s.courses.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, ErrCourseExists
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	now := s.now()
	course := &Course{
		ID:          s.courseID(code),
		Code:        code,
		Title:       title,
		Description: cloneString(input.Description),
		Status:      domain.StatusDraft,
		Capacity:    capacity,
		Tags:        cloneTags(input.Tags),
		PublishAt:   cloneTime(input.PublishAt),
		UnpublishAt: cloneTime(input.UnpublishAt),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	s.logger.Info("course.created", "course_id", created.ID, "code", created.Code)
	return created, nil
}

func (s *service) UpdateCourse(ctx context.Context, input UpdateCourseInput) (*Course, error) {
	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Status == domain.StatusArchived {
		return nil, ErrCourseArchived
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrCourseTitleRequired
		}
		course.Title = title
	}
	if input.Description != nil {
		course.Description = cloneString(input.Description)
	}
	if input.Capacity != nil {
		if *input.Capacity < 0 {
			return nil, ErrCourseCapacityInvalid
		}
		course.Capacity = *input.Capacity
	}
	if input.Tags != nil {
		course.Tags = cloneTags(input.Tags)
	}
	if input.PublishAt != nil {
		course.PublishAt = cloneTime(input.PublishAt)
	}
	if input.UnpublishAt != nil {
		course.UnpublishAt = cloneTime(input.UnpublishAt)
	}
	if err := validateWindow(course.PublishAt, course.UnpublishAt); err != nil {
		return nil, err
	}

	course.UpdatedAt = s.now()
	return s.courses.Update(ctx, course)
}

func (s *service) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *service) GetCourseByCode(ctx context.Context, code string) (*Course, error) {
	return s.courses.GetByCode(ctx, strings.TrimSpace(code))
}

func (s *service) ListCourses(ctx context.Context, opts ListCoursesOptions) ([]*Course, int, error) {
	return s.courses.List(ctx, opts)
}

func (s *service) PublishCourse(ctx context.Context, input PublishCourseInput) (*Course, error) {
	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Status == domain.StatusArchived {
		return nil, ErrCourseArchived
	}

	if s.requireLessons {
		lessons, err := s.lessons.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		if len(lessons) == 0 {
			return nil, ErrCourseWithoutLessons
		}
	}

	now := s.now()
	if input.At != nil && input.At.After(now) {
		if s.scheduler != nil {
			if _, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
				Key:   scheduler.CoursePublishJobKey(course.ID),
				Type:  scheduler.JobTypeCoursePublish,
				RunAt: *input.At,
				Payload: map[string]any{
					"course_id": course.ID.String(),
				},
			}); err != nil {
				return nil, err
			}
		}
		course.Status = domain.StatusScheduled
		course.PublishAt = cloneTime(input.At)
		course.UpdatedAt = now
		s.logger.Info("course.publish.scheduled", "course_id", course.ID, "run_at", *input.At)
		return s.courses.Update(ctx, course)
	}

	if s.scheduler != nil {
		// Drop any stale scheduled publication for the same course.
		if err := s.scheduler.CancelByKey(ctx, scheduler.CoursePublishJobKey(course.ID)); err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
			return nil, err
		}
	}

	course.Status = domain.StatusPublished
	if course.PublishAt == nil || course.PublishAt.After(now) {
		course.PublishAt = &now
	}
	course.UpdatedAt = now
	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		return nil, err
	}
	s.logger.Info("course.published", "course_id", updated.ID, "code", updated.Code)
	return updated, nil
}

func (s *service) UnpublishCourse(ctx context.Context, input UnpublishCourseInput) (*Course, error) {
	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Status == domain.StatusArchived {
		return nil, ErrCourseArchived
	}
	if course.Status != domain.StatusPublished && course.Status != domain.StatusScheduled {
		return nil, ErrCourseNotPublished
	}

	now := s.now()
	if input.At != nil && input.At.After(now) {
		if s.scheduler != nil {
			if _, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
				Key:   scheduler.CourseUnpublishJobKey(course.ID),
				Type:  scheduler.JobTypeCourseUnpublish,
				RunAt: *input.At,
				Payload: map[string]any{
					"course_id": course.ID.String(),
				},
			}); err != nil {
				return nil, err
			}
		}
		course.UnpublishAt = cloneTime(input.At)
		course.UpdatedAt = now
		return s.courses.Update(ctx, course)
	}

	course.Status = domain.StatusDraft
	course.UnpublishAt = nil
	course.UpdatedAt = now
	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		return nil, err
	}
	s.logger.Info("course.unpublished", "course_id", updated.ID, "code", updated.Code)
	return updated, nil
}

func (s *service) ArchiveCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Status == domain.StatusArchived {
		return course, nil
	}

	if s.scheduler != nil {
		for _, key := range []string{
			scheduler.CoursePublishJobKey(course.ID),
			scheduler.CourseUnpublishJobKey(course.ID),
		} {
			if err := s.scheduler.CancelByKey(ctx, key); err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
				return nil, err
			}
		}
	}

	course.Status = domain.StatusArchived
	course.UpdatedAt = s.now()
	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		return nil, err
	}
	s.logger.Info("course.archived", "course_id", updated.ID, "code", updated.Code)
	return updated, nil
}

func (s *service) DeleteCourse(ctx context.Context, req DeleteCourseRequest) error {
	if req.CourseID == uuid.Nil {
		return &NotFoundError{Resource: "course", Key: ""}
	}
	if !req.HardDelete {
		return ErrCourseSoftDeleteUnsupported
	}
	lessons, err := s.lessons.ListByCourse(ctx, req.CourseID)
	if err != nil {
		return err
	}
	if len(lessons) > 0 {
		return ErrCourseHasLessons
	}
	return s.courses.Delete(ctx, req.CourseID)
}

// EffectiveStatus decorates the stored status with the publish window. A
// published course outside its window reads as draft; a scheduled course whose
// window opened reads as published.
func (s *service) EffectiveStatus(course *Course, now time.Time) domain.Status {
	if course == nil {
		return domain.StatusDraft
	}
	switch course.Status {
	case domain.StatusArchived, domain.StatusDraft:
		return course.Status
	case domain.StatusScheduled:
		if course.PublishAt != nil && !course.PublishAt.After(now) {
			if course.UnpublishAt == nil || course.UnpublishAt.After(now) {
				return domain.StatusPublished
			}
			return domain.StatusDraft
		}
		return domain.StatusScheduled
	case domain.StatusPublished:
		if course.PublishAt != nil && course.PublishAt.After(now) {
			return domain.StatusScheduled
		}
		if course.UnpublishAt != nil && !course.UnpublishAt.After(now) {
			return domain.StatusDraft
		}
		return domain.StatusPublished
	default:
		return course.Status
	}
}

func (s *service) AddLesson(ctx context.Context, input AddLessonInput) (*Lesson, error) {
	if input.CourseID == uuid.Nil {
		return nil, ErrLessonCourseRequired
	}
	lessonSlug, err := normalizeLessonSlug(input.Slug)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrLessonTitleRequired
	}
	if input.DurationMinutes < 0 {
		return nil, ErrLessonDurationInvalid
	}

	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Status == domain.StatusArchived {
		return nil, ErrCourseArchived
	}

	if existing, err := s.lessons.GetBySlug(ctx, course.ID, lessonSlug); err == nil && existing != nil {
		return nil, ErrLessonExists
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	siblings, err := s.lessons.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	// Positions run 1..n with no gaps. An explicit position inserts and
	// shifts the siblings at or after that slot; omitted appends.
	position := len(siblings) + 1
	if input.Position != nil {
		position = *input.Position
		if position < 1 || position > len(siblings)+1 {
			return nil, ErrLessonPositionInvalid
		}
	}

	required := true
	if input.Required != nil {
		required = *input.Required
	}

	bodyHTML := ""
	if input.Body != "" && s.renderer != nil {
		bodyHTML, err = s.renderer.Render(ctx, input.Body)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	if position <= len(siblings) {
		for _, sibling := range siblings {
			if sibling.Position < position {
				continue
			}
			sibling.Position++
			sibling.UpdatedAt = now
			if _, err := s.lessons.Update(ctx, sibling); err != nil {
				return nil, err
			}
		}
	}
	lesson := &Lesson{
		ID:              s.lessonID(course.ID, lessonSlug),
		CourseID:        course.ID,
		Slug:            lessonSlug,
		Title:           title,
		Body:            input.Body,
		BodyHTML:        bodyHTML,
		Position:        position,
		Required:        required,
		DurationMinutes: input.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.lessons.Create(ctx, lesson)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("lesson.created", "lesson_id", created.ID, "course_id", course.ID, "slug", created.Slug)
	return created, nil
}

func (s *service) UpdateLesson(ctx context.Context, input UpdateLessonInput) (*Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, input.LessonID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrLessonTitleRequired
		}
		lesson.Title = title
	}
	if input.Body != nil {
		lesson.Body = *input.Body
		lesson.BodyHTML = ""
		if *input.Body != "" && s.renderer != nil {
			rendered, err := s.renderer.Render(ctx, *input.Body)
			if err != nil {
				return nil, err
			}
			lesson.BodyHTML = rendered
		}
	}
	if input.Required != nil {
		lesson.Required = *input.Required
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes < 0 {
			return nil, ErrLessonDurationInvalid
		}
		lesson.DurationMinutes = *input.DurationMinutes
	}

	lesson.UpdatedAt = s.now()
	return s.lessons.Update(ctx, lesson)
}

func (s *service) GetLesson(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	return s.lessons.GetByID(ctx, id)
}

func (s *service) GetLessonBySlug(ctx context.Context, courseID uuid.UUID, lessonSlug string) (*Lesson, error) {
	return s.lessons.GetBySlug(ctx, courseID, strings.TrimSpace(lessonSlug))
}

func (s *service) ListLessons(ctx context.Context, courseID uuid.UUID) ([]*Lesson, error) {
	return s.lessons.ListByCourse(ctx, courseID)
}

func (s *service) ReorderLessons(ctx context.Context, input ReorderLessonsInput) ([]*Lesson, error) {
	lessons, err := s.lessons.ListByCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if len(input.Items) != len(lessons) {
		return nil, ErrLessonOrderMismatch
	}

	positions := make(map[uuid.UUID]int, len(input.Items))
	seen := make(map[int]bool, len(input.Items))
	for _, item := range input.Items {
		if item.Position < 1 || item.Position > len(lessons) {
			return nil, ErrLessonPositionInvalid
		}
		if seen[item.Position] {
			return nil, ErrLessonOrderMismatch
		}
		seen[item.Position] = true
		positions[item.LessonID] = item.Position
	}

	now := s.now()
	updated := make([]*Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		position, ok := positions[lesson.ID]
		if !ok {
			return nil, ErrLessonOrderMismatch
		}
		lesson.Position = position
		lesson.UpdatedAt = now
		record, err := s.lessons.Update(ctx, lesson)
		if err != nil {
			return nil, err
		}
		updated = append(updated, record)
	}

	sortLessonsByPosition(updated)
	return updated, nil
}

func (s *service) RemoveLesson(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return &NotFoundError{Resource: "lesson", Key: ""}
	}
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.lessons.Delete(ctx, id); err != nil {
		return err
	}
	return s.resequenceLessons(ctx, lesson.CourseID)
}

// resequenceLessons closes any gaps so the course's lessons run 1..n again.
func (s *service) resequenceLessons(ctx context.Context, courseID uuid.UUID) error {
	lessons, err := s.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	sortLessonsByPosition(lessons)
	now := s.now()
	for i, lesson := range lessons {
		if lesson.Position == i+1 {
			continue
		}
		lesson.Position = i + 1
		lesson.UpdatedAt = now
		if _, err := s.lessons.Update(ctx, lesson); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) courseID(code string) uuid.UUID {
	if s.courseIDDeriver != nil {
		if id := s.courseIDDeriver(code); id != uuid.Nil {
			return id
		}
	}
	return s.id()
}

func (s *service) lessonID(courseID uuid.UUID, slug string) uuid.UUID {
	if s.lessonIDDeriver != nil {
		if id := s.lessonIDDeriver(courseID, slug); id != uuid.Nil {
			return id
		}
	}
	return s.id()
}

func normalizeCode(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", ErrCourseCodeRequired
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" || !slug.IsValid(normalized) {
		return "", ErrCourseCodeInvalid
	}
	return normalized, nil
}

func normalizeLessonSlug(lessonSlug string) (string, error) {
	trimmed := strings.TrimSpace(lessonSlug)
	if trimmed == "" {
		return "", ErrLessonSlugRequired
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" || !slug.IsValid(normalized) {
		return "", ErrLessonSlugInvalid
	}
	return normalized, nil
}

func validateWindow(publishAt, unpublishAt *time.Time) error {
	if publishAt != nil && unpublishAt != nil && !publishAt.Before(*unpublishAt) {
		return ErrCourseWindowInvalid
	}
	return nil
}

func sortLessonsByPosition(lessons []*Lesson) {
	for i := 1; i < len(lessons); i++ {
		for j := i; j > 0 && lessons[j-1].Position > lessons[j].Position; j-- {
			lessons[j-1], lessons[j] = lessons[j], lessons[j-1]
		}
	}
}

func cloneString(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	cloned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			cloned = append(cloned, trimmed)
		}
	}
	return cloned
}
