package enrollment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
)

// Repository exposes persistence operations for enrollments.
type Repository interface {
	Create(ctx context.Context, enrollment *Enrollment) (*Enrollment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	GetActiveByPair(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, opts ListOptions) ([]*Enrollment, int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error)
	CountActiveByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
	Update(ctx context.Context, enrollment *Enrollment) (*Enrollment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListOptions narrows and paginates enrollment listings.
type ListOptions struct {
	Status domain.EnrollmentStatus
	Limit  int
	Offset int
}

// NotFoundError is returned when an enrollment cannot be located.
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
