package interactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository exposes persistence operations for AI interactions.
type Repository interface {
	Create(ctx context.Context, record *AIInteraction) (*AIInteraction, error)
	Update(ctx context.Context, record *AIInteraction) (*AIInteraction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AIInteraction, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, opts ListOptions) ([]*AIInteraction, int, error)
	ListBySession(ctx context.Context, sessionID string) ([]*AIInteraction, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	DeleteByStudent(ctx context.Context, studentID uuid.UUID) (int, error)
}

// ListOptions bounds and paginates interaction listings.
type ListOptions struct {
	Since  *time.Time
	Limit  int
	Offset int
}

// NotFoundError is returned when an interaction cannot be located.
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
