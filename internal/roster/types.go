package roster

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-lms/internal/domain"
)

// Student is the roster entity enrollments and progress records reference.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID       uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Email    string    `bun:"email,notnull,unique" json:"email"`
	FullName string    `bun:"full_name,notnull" json:"full_name"`
	// GradeLevel is free-form ("7", "sophomore"); empty when unknown.
	GradeLevel string `bun:"grade_level" json:"grade_level,omitempty"`
	// BirthDate drives the guardian-consent rule for minors.
	BirthDate     *time.Time `bun:"birth_date" json:"birth_date,omitempty"`
	GuardianEmail *string    `bun:"guardian_email" json:"guardian_email,omitempty"`
	Active        bool       `bun:"active,notnull,default:true" json:"active"`
	DeletedAt     *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Consents []*PrivacyConsent `bun:"rel:has-many,join:id=student_id" json:"consents,omitempty"`
}

// PrivacyConsent records a grant or revocation for a single purpose. The most
// recent record per student and purpose wins.
type PrivacyConsent struct {
	bun.BaseModel `bun:"table:privacy_consents,alias:pc"`

	ID        uuid.UUID             `bun:",pk,type:uuid" json:"id"`
	StudentID uuid.UUID             `bun:"student_id,notnull,type:uuid" json:"student_id"`
	Purpose   domain.ConsentPurpose `bun:"purpose,notnull" json:"purpose"`
	Granted   bool                  `bun:"granted,notnull" json:"granted"`
	// GrantedBy identifies the actor: the student or a guardian.
	GrantedBy ConsentActor `bun:"granted_by,notnull" json:"granted_by"`
	GrantedAt time.Time    `bun:"granted_at,notnull" json:"granted_at"`
	RevokedAt *time.Time   `bun:"revoked_at" json:"revoked_at,omitempty"`
	CreatedAt time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Student *Student `bun:"rel:belongs-to,join:student_id=id" json:"student,omitempty"`
}

// ConsentActor names who granted or revoked a consent.
type ConsentActor string

const (
	ConsentActorStudent  ConsentActor = "student"
	ConsentActorGuardian ConsentActor = "guardian"
)

// consentKey formats a composite lookup key for student/purpose pairs.
func consentKey(studentID uuid.UUID, purpose domain.ConsentPurpose) string {
	return studentID.String() + ":" + string(purpose)
}
