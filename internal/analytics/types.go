package analytics

import (
	"time"

	"github.com/google/uuid"
)

// CourseOverview aggregates enrollment and outcome figures for one course.
type CourseOverview struct {
	CourseID             uuid.UUID `json:"course_id"`
	CourseCode           string    `json:"course_code"`
	Title                string    `json:"title"`
	TotalEnrollments     int       `json:"total_enrollments"`
	ActiveEnrollments    int       `json:"active_enrollments"`
	CompletedEnrollments int       `json:"completed_enrollments"`
	DroppedEnrollments   int       `json:"dropped_enrollments"`
	AverageProgress      float64   `json:"average_progress"`
	AverageScore         *float64  `json:"average_score,omitempty"`
	AtRiskCount          int       `json:"at_risk_count"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// StudentOverview aggregates one student's standing across enrollments.
type StudentOverview struct {
	StudentID        uuid.UUID  `json:"student_id"`
	ActiveCourses    int        `json:"active_courses"`
	CompletedCourses int        `json:"completed_courses"`
	AverageProgress  float64    `json:"average_progress"`
	AverageScore     *float64   `json:"average_score,omitempty"`
	LastActivityAt   *time.Time `json:"last_activity_at,omitempty"`
	AtRisk           bool       `json:"at_risk"`
	GeneratedAt      time.Time  `json:"generated_at"`
}

// At-risk reasons reported by AtRiskStudents.
const (
	RiskReasonLowProgress  = "low_progress"
	RiskReasonInactive     = "inactive"
	RiskReasonFailingScore = "failing_score"
)

// AtRiskStudent flags an active enrollment that needs intervention.
type AtRiskStudent struct {
	StudentID       uuid.UUID  `json:"student_id"`
	EnrollmentID    uuid.UUID  `json:"enrollment_id"`
	CourseID        uuid.UUID  `json:"course_id"`
	PercentComplete float64    `json:"percent_complete"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
	Reasons         []string   `json:"reasons"`
}

// WeeklyEngagement buckets course activity into calendar weeks starting on
// Monday UTC.
type WeeklyEngagement struct {
	WeekStart        time.Time `json:"week_start"`
	ActiveStudents   int       `json:"active_students"`
	LessonsCompleted int       `json:"lessons_completed"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
}
