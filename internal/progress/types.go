package progress

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-lms/internal/domain"
)

// LessonProgress tracks a student's advancement through a single lesson
// within an enrollment.
type LessonProgress struct {
	bun.BaseModel `bun:"table:lesson_progress,alias:lp"`

	ID               uuid.UUID            `bun:"id,pk,type:uuid" json:"id"`
	EnrollmentID     uuid.UUID            `bun:"enrollment_id,notnull,type:uuid" json:"enrollment_id"`
	LessonID         uuid.UUID            `bun:"lesson_id,notnull,type:uuid" json:"lesson_id"`
	Status           domain.ProgressState `bun:"status,notnull,default:'not_started'" json:"status"`
	StartedAt        *time.Time           `bun:"started_at" json:"started_at,omitempty"`
	CompletedAt      *time.Time           `bun:"completed_at" json:"completed_at,omitempty"`
	TimeSpentSeconds int                  `bun:"time_spent_seconds,notnull,default:0" json:"time_spent_seconds"`
	CreatedAt        time.Time            `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time            `bun:"updated_at,notnull" json:"updated_at"`
}

// CourseSummary aggregates lesson progress for one enrollment.
type CourseSummary struct {
	EnrollmentID      uuid.UUID  `json:"enrollment_id"`
	CourseID          uuid.UUID  `json:"course_id"`
	TotalLessons      int        `json:"total_lessons"`
	RequiredLessons   int        `json:"required_lessons"`
	CompletedLessons  int        `json:"completed_lessons"`
	CompletedRequired int        `json:"completed_required"`
	PercentComplete   float64    `json:"percent_complete"`
	TimeSpentSeconds  int        `json:"time_spent_seconds"`
	LastActivityAt    *time.Time `json:"last_activity_at,omitempty"`
}

func pairKey(enrollmentID, lessonID uuid.UUID) string {
	return enrollmentID.String() + ":" + lessonID.String()
}
