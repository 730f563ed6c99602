package roster

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewStudentRepository creates a go-repository-bun repository for students.
func NewStudentRepository(db *bun.DB) repository.Repository[*Student] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Student]{
		NewRecord:          func() *Student { return &Student{} },
		GetID:              func(s *Student) uuid.UUID { return s.ID },
		SetID:              func(s *Student, id uuid.UUID) { s.ID = id },
		GetIdentifier:      func() string { return "email" },
		GetIdentifierValue: func(s *Student) string { return s.Email },
	})
}

// NewConsentRepository creates a go-repository-bun repository for privacy consents.
func NewConsentRepository(db *bun.DB) repository.Repository[*PrivacyConsent] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PrivacyConsent]{
		NewRecord:          func() *PrivacyConsent { return &PrivacyConsent{} },
		GetID:              func(c *PrivacyConsent) uuid.UUID { return c.ID },
		SetID:              func(c *PrivacyConsent, id uuid.UUID) { c.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(c *PrivacyConsent) string { return c.ID.String() },
	})
}
