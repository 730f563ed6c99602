// Package assessmentcmd exposes assessment grading operations as go-command messages.
package assessmentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/commands"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

const gradeAttemptMessageType = "lms.assessment.grade"

// GradeAttemptCommand records a manual score on a submitted attempt.
type GradeAttemptCommand struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	Score     float64   `json:"score"`
	GradedBy  uuid.UUID `json:"graded_by"`
}

// Type implements command.Message.
func (GradeAttemptCommand) Type() string { return gradeAttemptMessageType }

// Validate ensures the attempt reference and score are usable.
func (m GradeAttemptCommand) Validate() error {
	errs := validation.Errors{}
	if m.AttemptID == uuid.Nil {
		errs["attempt_id"] = validation.NewError("lms.assessment.grade.attempt_id_required", "attempt_id is required")
	}
	if m.Score < 0 || m.Score > 100 {
		errs["score"] = validation.NewError("lms.assessment.grade.score_range", "score must be between 0 and 100")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GradeAttemptHandler grades attempts via the assessment service.
type GradeAttemptHandler struct {
	inner *commands.Handler[GradeAttemptCommand]
}

// NewGradeAttemptHandler constructs a handler wired to the provided assessment service.
func NewGradeAttemptHandler(service assessment.Service, logger interfaces.Logger, opts ...commands.HandlerOption[GradeAttemptCommand]) *GradeAttemptHandler {
	exec := func(ctx context.Context, msg GradeAttemptCommand) error {
		_, err := service.GradeAttempt(ctx, assessment.GradeAttemptInput{
			AttemptID: msg.AttemptID,
			Score:     msg.Score,
			GradedBy:  msg.GradedBy,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[GradeAttemptCommand]{
		commands.WithLogger[GradeAttemptCommand](logger),
		commands.WithOperation[GradeAttemptCommand]("assessment.grade"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GradeAttemptHandler{
		inner: commands.NewHandler[GradeAttemptCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[GradeAttemptCommand].Execute.
func (h *GradeAttemptHandler) Execute(ctx context.Context, msg GradeAttemptCommand) error {
	return h.inner.Execute(ctx, msg)
}
