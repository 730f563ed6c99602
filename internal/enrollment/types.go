package enrollment

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-lms/internal/domain"
)

// Enrollment binds a student to a course. At most one non-terminal enrollment
// may exist per student and course.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:e"`

	ID          uuid.UUID               `bun:",pk,type:uuid" json:"id"`
	StudentID   uuid.UUID               `bun:"student_id,notnull,type:uuid" json:"student_id"`
	CourseID    uuid.UUID               `bun:"course_id,notnull,type:uuid" json:"course_id"`
	Status      domain.EnrollmentStatus `bun:"status,notnull,default:'active'" json:"status"`
	EnrolledAt  time.Time               `bun:"enrolled_at,notnull" json:"enrolled_at"`
	CompletedAt *time.Time              `bun:"completed_at" json:"completed_at,omitempty"`
	DroppedAt   *time.Time              `bun:"dropped_at" json:"dropped_at,omitempty"`
	SuspendedAt *time.Time              `bun:"suspended_at" json:"suspended_at,omitempty"`
	// ExpiresAt bounds access; a scheduler job drops the enrollment when it passes.
	ExpiresAt *time.Time `bun:"expires_at" json:"expires_at,omitempty"`
	// FinalGrade is a 0-100 percentage recorded at or after completion.
	FinalGrade *float64  `bun:"final_grade" json:"final_grade,omitempty"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// pairKey formats a composite lookup key for student/course pairs.
func pairKey(studentID, courseID uuid.UUID) string {
	return studentID.String() + ":" + courseID.String()
}
