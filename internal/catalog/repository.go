package catalog

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewCourseRepository creates a go-repository-bun repository for courses.
func NewCourseRepository(db *bun.DB) repository.Repository[*Course] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Course]{
		NewRecord:          func() *Course { return &Course{} },
		GetID:              func(c *Course) uuid.UUID { return c.ID },
		SetID:              func(c *Course, id uuid.UUID) { c.ID = id },
		GetIdentifier:      func() string { return "code" },
		GetIdentifierValue: func(c *Course) string { return c.Code },
	})
}

// NewLessonRepository creates a go-repository-bun repository for lessons.
func NewLessonRepository(db *bun.DB) repository.Repository[*Lesson] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Lesson]{
		NewRecord:          func() *Lesson { return &Lesson{} },
		GetID:              func(l *Lesson) uuid.UUID { return l.ID },
		SetID:              func(l *Lesson, id uuid.UUID) { l.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(l *Lesson) string { return l.ID.String() },
	})
}
