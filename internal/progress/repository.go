package progress

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewLessonProgressRepository creates a go-repository-bun repository for lesson progress.
func NewLessonProgressRepository(db *bun.DB) repository.Repository[*LessonProgress] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*LessonProgress]{
		NewRecord:          func() *LessonProgress { return &LessonProgress{} },
		GetID:              func(p *LessonProgress) uuid.UUID { return p.ID },
		SetID:              func(p *LessonProgress, id uuid.UUID) { p.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(p *LessonProgress) string { return p.ID.String() },
	})
}
