package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
)

// CourseRepository exposes persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *Course) (*Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	GetByCode(ctx context.Context, code string) (*Course, error)
	List(ctx context.Context, opts ListCoursesOptions) ([]*Course, int, error)
	Update(ctx context.Context, course *Course) (*Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListCoursesOptions narrows and paginates course listings.
type ListCoursesOptions struct {
	Status domain.Status
	Tag    string
	Limit  int
	Offset int
}

// LessonRepository exposes persistence operations for lessons.
type LessonRepository interface {
	Create(ctx context.Context, lesson *Lesson) (*Lesson, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Lesson, error)
	GetBySlug(ctx context.Context, courseID uuid.UUID, slug string) (*Lesson, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Lesson, error)
	Update(ctx context.Context, lesson *Lesson) (*Lesson, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a catalog resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
