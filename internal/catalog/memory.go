package catalog

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryCourseRepository constructs an in-memory course repository.
func NewMemoryCourseRepository() CourseRepository {
	return &memoryCourseRepository{
		byID:   make(map[uuid.UUID]*Course),
		byCode: make(map[string]uuid.UUID),
	}
}

type memoryCourseRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Course
	byCode map[string]uuid.UUID
}

func (m *memoryCourseRepository) Create(_ context.Context, course *Course) (*Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneCourse(course)
	m.byID[cloned.ID] = cloned
	if cloned.Code != "" {
		m.byCode[cloned.Code] = cloned.ID
	}
	return cloneCourse(cloned), nil
}

func (m *memoryCourseRepository) GetByID(_ context.Context, id uuid.UUID) (*Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "course", Key: id.String()}
	}
	return cloneCourse(record), nil
}

func (m *memoryCourseRepository) GetByCode(_ context.Context, code string) (*Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, &NotFoundError{Resource: "course", Key: code}
	}
	return cloneCourse(m.byID[id]), nil
}

func (m *memoryCourseRepository) List(_ context.Context, opts ListCoursesOptions) ([]*Course, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Course, 0, len(m.byID))
	for _, record := range m.byID {
		if opts.Status != "" && record.Status != opts.Status {
			continue
		}
		if opts.Tag != "" && !slices.Contains(record.Tags, opts.Tag) {
			continue
		}
		records = append(records, cloneCourse(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return strings.Compare(records[i].Code, records[j].Code) < 0
	})

	total := len(records)
	if opts.Offset > 0 {
		if opts.Offset >= len(records) {
			return []*Course{}, total, nil
		}
		records = records[opts.Offset:]
	}
	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records, total, nil
}

func (m *memoryCourseRepository) Update(_ context.Context, course *Course) (*Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[course.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "course", Key: course.ID.String()}
	}
	if existing.Code != course.Code {
		delete(m.byCode, existing.Code)
	}

	cloned := cloneCourse(course)
	m.byID[cloned.ID] = cloned
	if cloned.Code != "" {
		m.byCode[cloned.Code] = cloned.ID
	}
	return cloneCourse(cloned), nil
}

func (m *memoryCourseRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "course", Key: id.String()}
	}
	delete(m.byCode, record.Code)
	delete(m.byID, id)
	return nil
}

// NewMemoryLessonRepository constructs an in-memory lesson repository.
func NewMemoryLessonRepository() LessonRepository {
	return &memoryLessonRepository{
		byID:     make(map[uuid.UUID]*Lesson),
		bySlug:   make(map[string]uuid.UUID),
		byCourse: make(map[uuid.UUID][]uuid.UUID),
	}
}

type memoryLessonRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*Lesson
	bySlug   map[string]uuid.UUID
	byCourse map[uuid.UUID][]uuid.UUID
}

func (m *memoryLessonRepository) Create(_ context.Context, lesson *Lesson) (*Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneLesson(lesson)
	m.byID[cloned.ID] = cloned
	m.bySlug[lessonKey(cloned.CourseID, cloned.Slug)] = cloned.ID
	m.byCourse[cloned.CourseID] = append(m.byCourse[cloned.CourseID], cloned.ID)
	return cloneLesson(cloned), nil
}

func (m *memoryLessonRepository) GetByID(_ context.Context, id uuid.UUID) (*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "lesson", Key: id.String()}
	}
	return cloneLesson(record), nil
}

func (m *memoryLessonRepository) GetBySlug(_ context.Context, courseID uuid.UUID, slug string) (*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[lessonKey(courseID, slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "lesson", Key: lessonKey(courseID, slug)}
	}
	return cloneLesson(m.byID[id]), nil
}

func (m *memoryLessonRepository) ListByCourse(_ context.Context, courseID uuid.UUID) ([]*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byCourse[courseID]
	lessons := make([]*Lesson, 0, len(ids))
	for _, id := range ids {
		lessons = append(lessons, cloneLesson(m.byID[id]))
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].Position < lessons[j].Position
	})
	return lessons, nil
}

func (m *memoryLessonRepository) Update(_ context.Context, lesson *Lesson) (*Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[lesson.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "lesson", Key: lesson.ID.String()}
	}
	if existing.Slug != lesson.Slug {
		delete(m.bySlug, lessonKey(existing.CourseID, existing.Slug))
	}

	cloned := cloneLesson(lesson)
	m.byID[cloned.ID] = cloned
	m.bySlug[lessonKey(cloned.CourseID, cloned.Slug)] = cloned.ID
	return cloneLesson(cloned), nil
}

func (m *memoryLessonRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "lesson", Key: id.String()}
	}
	delete(m.bySlug, lessonKey(record.CourseID, record.Slug))
	delete(m.byID, id)

	siblings := m.byCourse[record.CourseID]
	for i, sibling := range siblings {
		if sibling == id {
			m.byCourse[record.CourseID] = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	return nil
}

func cloneCourse(src *Course) *Course {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.Description != nil {
		value := *src.Description
		cloned.Description = &value
	}
	if src.Tags != nil {
		cloned.Tags = slices.Clone(src.Tags)
	}
	cloned.PublishAt = cloneTime(src.PublishAt)
	cloned.UnpublishAt = cloneTime(src.UnpublishAt)
	cloned.DeletedAt = cloneTime(src.DeletedAt)
	if src.Lessons != nil {
		cloned.Lessons = make([]*Lesson, len(src.Lessons))
		for i, lesson := range src.Lessons {
			cloned.Lessons[i] = cloneLesson(lesson)
		}
	}
	return &cloned
}

func cloneLesson(src *Lesson) *Lesson {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.DeletedAt = cloneTime(src.DeletedAt)
	if src.Course != nil {
		cloned.Course = cloneCourse(src.Course)
	}
	return &cloned
}
