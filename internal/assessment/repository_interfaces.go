package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssessmentRepository exposes persistence operations for assessments.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *Assessment) (*Assessment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Assessment, error)
	Update(ctx context.Context, assessment *Assessment) (*Assessment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttemptRepository exposes persistence operations for attempts.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *Attempt) (*Attempt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Attempt, error)
	ListByAssessmentAndEnrollment(ctx context.Context, assessmentID, enrollmentID uuid.UUID) ([]*Attempt, error)
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*Attempt, error)
	Update(ctx context.Context, attempt *Attempt) (*Attempt, error)
	// DeleteExpiredBefore removes expired attempts that ended before the
	// cutoff and reports how many were dropped.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// NotFoundError is returned when an assessment or attempt cannot be located.
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
