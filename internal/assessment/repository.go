package assessment

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewAssessmentRepository creates a go-repository-bun repository for assessments.
func NewAssessmentRepository(db *bun.DB) repository.Repository[*Assessment] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Assessment]{
		NewRecord:          func() *Assessment { return &Assessment{} },
		GetID:              func(a *Assessment) uuid.UUID { return a.ID },
		SetID:              func(a *Assessment, id uuid.UUID) { a.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(a *Assessment) string { return a.ID.String() },
	})
}

// NewAttemptRepository creates a go-repository-bun repository for attempts.
func NewAttemptRepository(db *bun.DB) repository.Repository[*Attempt] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Attempt]{
		NewRecord:          func() *Attempt { return &Attempt{} },
		GetID:              func(a *Attempt) uuid.UUID { return a.ID },
		SetID:              func(a *Attempt, id uuid.UUID) { a.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(a *Attempt) string { return a.ID.String() },
	})
}
