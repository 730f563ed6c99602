package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// CourseUUID derives the id used when importing courses by code.
func CourseUUID(code string) uuid.UUID {
	return UUID("go-lms:course:" + strings.ToLower(strings.TrimSpace(code)))
}

// LessonUUID derives the id used when importing lessons from markdown files,
// keyed by course id and lesson slug so re-imports stay idempotent.
func LessonUUID(courseID uuid.UUID, slug string) uuid.UUID {
	return UUID("go-lms:lesson:" + courseID.String() + ":" + strings.ToLower(strings.TrimSpace(slug)))
}

// StudentUUID derives the id used when importing students by email.
func StudentUUID(email string) uuid.UUID {
	return UUID("go-lms:student:" + strings.ToLower(strings.TrimSpace(email)))
}
