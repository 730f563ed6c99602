package analytics

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFeatureDisabled is returned by the no-op service when analytics are
// switched off in the runtime configuration.
var ErrFeatureDisabled = errors.New("analytics: feature disabled")

type noopService struct{}

// NewNoOpService returns a Service whose operations all fail with
// ErrFeatureDisabled.
func NewNoOpService() Service {
	return noopService{}
}

func (noopService) CourseOverview(context.Context, uuid.UUID) (*CourseOverview, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) StudentOverview(context.Context, uuid.UUID) (*StudentOverview, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) AtRiskStudents(context.Context, uuid.UUID) ([]*AtRiskStudent, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) WeeklyEngagement(context.Context, uuid.UUID, int) ([]WeeklyEngagement, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) InvalidateCourse(context.Context, uuid.UUID) error {
	return ErrFeatureDisabled
}
