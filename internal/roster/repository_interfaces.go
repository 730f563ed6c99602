package roster

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
)

// StudentRepository exposes persistence operations for students.
type StudentRepository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	List(ctx context.Context, opts ListStudentsOptions) ([]*Student, int, error)
	Update(ctx context.Context, student *Student) (*Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListStudentsOptions narrows and paginates student listings.
type ListStudentsOptions struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ConsentRepository exposes persistence operations for privacy consents.
type ConsentRepository interface {
	Create(ctx context.Context, consent *PrivacyConsent) (*PrivacyConsent, error)
	GetLatest(ctx context.Context, studentID uuid.UUID, purpose domain.ConsentPurpose) (*PrivacyConsent, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*PrivacyConsent, error)
	Update(ctx context.Context, consent *PrivacyConsent) (*PrivacyConsent, error)
}

// NotFoundError is returned when a roster resource cannot be located.
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
