package enrollmentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/commands"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

const setFinalGradeMessageType = "lms.enrollment.grade"

// SetFinalGradeCommand records the final grade for an enrollment.
type SetFinalGradeCommand struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	Grade        float64   `json:"grade"`
}

// Type implements command.Message.
func (SetFinalGradeCommand) Type() string { return setFinalGradeMessageType }

// Validate checks the enrollment reference and grade range.
func (m SetFinalGradeCommand) Validate() error {
	errs := validation.Errors{}
	if m.EnrollmentID == uuid.Nil {
		errs["enrollment_id"] = validation.NewError("lms.enrollment.grade.enrollment_id_required", "enrollment_id is required")
	}
	if m.Grade < 0 || m.Grade > 100 {
		errs["grade"] = validation.NewError("lms.enrollment.grade.grade_out_of_range", "grade must be between 0 and 100")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetFinalGradeHandler records final grades via the enrollment service.
type SetFinalGradeHandler struct {
	inner *commands.Handler[SetFinalGradeCommand]
}

// NewSetFinalGradeHandler constructs a handler wired to the provided enrollment service.
func NewSetFinalGradeHandler(service enrollment.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SetFinalGradeCommand]) *SetFinalGradeHandler {
	exec := func(ctx context.Context, msg SetFinalGradeCommand) error {
		_, err := service.SetFinalGrade(ctx, msg.EnrollmentID, msg.Grade)
		return err
	}

	handlerOpts := []commands.HandlerOption[SetFinalGradeCommand]{
		commands.WithLogger[SetFinalGradeCommand](logger),
		commands.WithOperation[SetFinalGradeCommand]("enrollment.grade"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SetFinalGradeHandler{
		inner: commands.NewHandler[SetFinalGradeCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SetFinalGradeCommand].Execute.
func (h *SetFinalGradeHandler) Execute(ctx context.Context, msg SetFinalGradeCommand) error {
	return h.inner.Execute(ctx, msg)
}
