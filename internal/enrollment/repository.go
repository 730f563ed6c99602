package enrollment

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewEnrollmentRepository creates a go-repository-bun repository for enrollments.
func NewEnrollmentRepository(db *bun.DB) repository.Repository[*Enrollment] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Enrollment]{
		NewRecord:          func() *Enrollment { return &Enrollment{} },
		GetID:              func(e *Enrollment) uuid.UUID { return e.ID },
		SetID:              func(e *Enrollment, id uuid.UUID) { e.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(e *Enrollment) string { return e.ID.String() },
	})
}
