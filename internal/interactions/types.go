package interactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AIInteraction is one prompt/response exchange between a student and the
// AI tutor. Records are retained only for the configured window.
type AIInteraction struct {
	bun.BaseModel `bun:"table:ai_interactions,alias:ai"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	StudentID    uuid.UUID  `bun:"student_id,notnull,type:uuid" json:"student_id"`
	EnrollmentID *uuid.UUID `bun:"enrollment_id,type:uuid" json:"enrollment_id,omitempty"`
	LessonID     *uuid.UUID `bun:"lesson_id,type:uuid" json:"lesson_id,omitempty"`
	SessionID    string     `bun:"session_id" json:"session_id,omitempty"`
	Prompt       string     `bun:"prompt,notnull" json:"prompt"`
	Response     string     `bun:"response,notnull" json:"response"`
	Model        string     `bun:"model" json:"model,omitempty"`
	// Token counts as reported by the provider; zero when unknown.
	TokensPrompt   int            `bun:"tokens_prompt,notnull,default:0" json:"tokens_prompt"`
	TokensResponse int            `bun:"tokens_response,notnull,default:0" json:"tokens_response"`
	Flagged        bool           `bun:"flagged,notnull,default:false" json:"flagged"`
	FlagReason     string         `bun:"flag_reason" json:"flag_reason,omitempty"`
	Metadata       map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	OccurredAt     time.Time      `bun:"occurred_at,notnull" json:"occurred_at"`
	CreatedAt      time.Time      `bun:"created_at,notnull" json:"created_at"`
}
