package assessment

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-lms/internal/domain"
)

// AssessmentKind distinguishes auto-graded activities from manually graded
// assignments.
type AssessmentKind string

const (
	KindQuiz       AssessmentKind = "quiz"
	KindExam       AssessmentKind = "exam"
	KindAssignment AssessmentKind = "assignment"
)

// KnownKind reports whether k is a supported assessment kind.
func KnownKind(k AssessmentKind) bool {
	switch k {
	case KindQuiz, KindExam, KindAssignment:
		return true
	}
	return false
}

// ManuallyGraded reports whether attempts of this kind wait for an instructor
// score instead of the answer key.
func (k AssessmentKind) ManuallyGraded() bool {
	return k == KindAssignment
}

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
)

// KnownQuestionType reports whether t is a supported question kind.
func KnownQuestionType(t QuestionType) bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer:
		return true
	}
	return false
}

// Question is a single question. Answer holds the expected response for
// auto-graded kinds: the option text for multiple choice, "true"/"false" for
// true/false, free text for short answers. Assignment prompts leave it empty.
type Question struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Prompt  string       `json:"prompt"`
	Options []string     `json:"options,omitempty"`
	Answer  string       `json:"answer,omitempty"`
	Points  float64      `json:"points"`
}

// Assessment is a graded activity attached to a course, optionally scoped to
// a single lesson.
type Assessment struct {
	bun.BaseModel `bun:"table:assessments,alias:a"`

	ID               uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	CourseID         uuid.UUID      `bun:"course_id,notnull,type:uuid" json:"course_id"`
	LessonID         *uuid.UUID     `bun:"lesson_id,type:uuid" json:"lesson_id,omitempty"`
	Kind             AssessmentKind `bun:"kind,notnull,default:'quiz'" json:"kind"`
	Title            string         `bun:"title,notnull" json:"title"`
	Description      *string        `bun:"description" json:"description,omitempty"`
	Questions        []Question     `bun:"questions,type:jsonb" json:"questions"`
	PassingScore     float64        `bun:"passing_score,notnull" json:"passing_score"`
	MaxAttempts      int            `bun:"max_attempts,notnull" json:"max_attempts"`
	TimeLimitSeconds int            `bun:"time_limit_seconds,notnull,default:0" json:"time_limit_seconds"`
	Weight           float64        `bun:"weight,notnull,default:1" json:"weight"`
	AvailableFrom    *time.Time     `bun:"available_from" json:"available_from,omitempty"`
	AvailableUntil   *time.Time     `bun:"available_until" json:"available_until,omitempty"`
	Status           domain.Status  `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt        time.Time      `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time      `bun:"updated_at,notnull" json:"updated_at"`
}

// TotalPoints sums the point value of every question.
func (a *Assessment) TotalPoints() float64 {
	var total float64
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}

// AvailableAt reports whether attempts may start at t, honouring the
// optional availability window.
func (a *Assessment) AvailableAt(t time.Time) bool {
	if a.AvailableFrom != nil && t.Before(*a.AvailableFrom) {
		return false
	}
	if a.AvailableUntil != nil && t.After(*a.AvailableUntil) {
		return false
	}
	return true
}

// Attempt is one student pass through an assessment.
type Attempt struct {
	bun.BaseModel `bun:"table:assessment_attempts,alias:aa"`

	ID            uuid.UUID            `bun:"id,pk,type:uuid" json:"id"`
	AssessmentID  uuid.UUID            `bun:"assessment_id,notnull,type:uuid" json:"assessment_id"`
	EnrollmentID  uuid.UUID            `bun:"enrollment_id,notnull,type:uuid" json:"enrollment_id"`
	AttemptNumber int                  `bun:"attempt_number,notnull" json:"attempt_number"`
	Status        domain.AttemptStatus `bun:"status,notnull,default:'in_progress'" json:"status"`
	Answers       map[string]string    `bun:"answers,type:jsonb" json:"answers,omitempty"`
	Score         *float64             `bun:"score" json:"score,omitempty"`
	Passed        *bool                `bun:"passed" json:"passed,omitempty"`
	GradedBy      *uuid.UUID           `bun:"graded_by,type:uuid" json:"graded_by,omitempty"`
	StartedAt     time.Time            `bun:"started_at,notnull" json:"started_at"`
	ExpiresAt     *time.Time           `bun:"expires_at" json:"expires_at,omitempty"`
	SubmittedAt   *time.Time           `bun:"submitted_at" json:"submitted_at,omitempty"`
	GradedAt      *time.Time           `bun:"graded_at" json:"graded_at,omitempty"`
	CreatedAt     time.Time            `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time            `bun:"updated_at,notnull" json:"updated_at"`
}
