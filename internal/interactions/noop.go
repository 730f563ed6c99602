package interactions

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFeatureDisabled is returned by the no-op service when the AI interaction
// log is switched off in the runtime configuration.
var ErrFeatureDisabled = errors.New("interactions: feature disabled")

type noopService struct{}

// NewNoOpService returns a Service whose operations all fail with
// ErrFeatureDisabled.
func NewNoOpService() Service {
	return noopService{}
}

func (noopService) Record(context.Context, RecordInput) (*AIInteraction, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) Get(context.Context, uuid.UUID) (*AIInteraction, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) ListByStudent(context.Context, uuid.UUID, ListOptions) ([]*AIInteraction, int, error) {
	return nil, 0, ErrFeatureDisabled
}

func (noopService) ListBySession(context.Context, string) ([]*AIInteraction, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) FlagForReview(context.Context, FlagInput) (*AIInteraction, error) {
	return nil, ErrFeatureDisabled
}

func (noopService) PurgeExpired(context.Context) (int, error) {
	return 0, ErrFeatureDisabled
}

func (noopService) EraseStudent(context.Context, uuid.UUID) (int, error) {
	return 0, ErrFeatureDisabled
}
