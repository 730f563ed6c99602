package enrollmentcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/commands"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

const dropEnrollmentMessageType = "lms.enrollment.drop"

// DropEnrollmentCommand withdraws a student from a course.
type DropEnrollmentCommand struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
}

// Type implements command.Message.
func (DropEnrollmentCommand) Type() string { return dropEnrollmentMessageType }

// Validate ensures the target enrollment is identified.
func (m DropEnrollmentCommand) Validate() error {
	errs := validation.Errors{}
	if m.EnrollmentID == uuid.Nil {
		errs["enrollment_id"] = validation.NewError("lms.enrollment.drop.enrollment_id_required", "enrollment_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DropEnrollmentHandler drops enrollments via the enrollment service.
type DropEnrollmentHandler struct {
	inner *commands.Handler[DropEnrollmentCommand]
}

// NewDropEnrollmentHandler constructs a handler wired to the provided enrollment service.
func NewDropEnrollmentHandler(service enrollment.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DropEnrollmentCommand]) *DropEnrollmentHandler {
	exec := func(ctx context.Context, msg DropEnrollmentCommand) error {
		_, err := service.Drop(ctx, msg.EnrollmentID)
		return err
	}

	handlerOpts := []commands.HandlerOption[DropEnrollmentCommand]{
		commands.WithLogger[DropEnrollmentCommand](logger),
		commands.WithOperation[DropEnrollmentCommand]("enrollment.drop"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DropEnrollmentHandler{
		inner: commands.NewHandler[DropEnrollmentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DropEnrollmentCommand].Execute.
func (h *DropEnrollmentHandler) Execute(ctx context.Context, msg DropEnrollmentCommand) error {
	return h.inner.Execute(ctx, msg)
}
