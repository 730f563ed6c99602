package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFeatureDisabled is returned by the no-op service when assessments are
// switched off in the runtime configuration.
var ErrFeatureDisabled = errors.New("assessment: feature disabled")

type noopService struct{}

// NewNoOpService returns a Service whose operations all fail with
// ErrFeatureDisabled.
func NewNoOpService() Service {
	return noopService{}
}

func (noopService) CreateAssessment(context.Context, CreateAssessmentInput) (*Assessment, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) UpdateAssessment(context.Context, UpdateAssessmentInput) (*Assessment, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) GetAssessment(context.Context, uuid.UUID) (*Assessment, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) ListByCourse(context.Context, uuid.UUID) ([]*Assessment, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) PublishAssessment(context.Context, uuid.UUID) (*Assessment, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) DeleteAssessment(context.Context, uuid.UUID) error {
	return ErrFeatureDisabled
}

func (noopService) StartAttempt(context.Context, StartAttemptInput) (*Attempt, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) SubmitAttempt(context.Context, SubmitAttemptInput) (*Attempt, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) GradeAttempt(context.Context, GradeAttemptInput) (*Attempt, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) ExpireAttempt(context.Context, uuid.UUID) (*Attempt, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) PurgeExpiredAttempts(context.Context) (int, error) {
	return 0, ErrFeatureDisabled
}

func (noopService) GetAttempt(context.Context, uuid.UUID) (*Attempt, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) ListAttempts(context.Context, uuid.UUID, uuid.UUID) ([]*Attempt, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) ListAttemptsByEnrollment(context.Context, uuid.UUID) ([]*Attempt, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) BestAttempt(context.Context, uuid.UUID, uuid.UUID) (*Attempt, error) {
	return nil, ErrFeatureDisabled
}
