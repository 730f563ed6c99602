package interactions

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewInteractionRepository creates a go-repository-bun repository for AI interactions.
func NewInteractionRepository(db *bun.DB) repository.Repository[*AIInteraction] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*AIInteraction]{
		NewRecord:          func() *AIInteraction { return &AIInteraction{} },
		GetID:              func(i *AIInteraction) uuid.UUID { return i.ID },
		SetID:              func(i *AIInteraction, id uuid.UUID) { i.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(i *AIInteraction) string { return i.ID.String() },
	})
}
