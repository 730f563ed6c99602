package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Repository exposes persistence operations for lesson progress records.
type Repository interface {
	Create(ctx context.Context, record *LessonProgress) (*LessonProgress, error)
	GetByID(ctx context.Context, id uuid.UUID) (*LessonProgress, error)
	GetByPair(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*LessonProgress, error)
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*LessonProgress, error)
	Update(ctx context.Context, record *LessonProgress) (*LessonProgress, error)
}

// NotFoundError is returned when a progress record cannot be located.
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
