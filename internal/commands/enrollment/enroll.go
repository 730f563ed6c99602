// Package enrollmentcmd exposes enrollment lifecycle operations as go-command messages.
package enrollmentcmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/commands"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

const enrollStudentMessageType = "lms.enrollment.enroll"

// EnrollStudentCommand enrolls a student in a course, optionally bounding access.
type EnrollStudentCommand struct {
	StudentID uuid.UUID  `json:"student_id"`
	CourseID  uuid.UUID  `json:"course_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Type implements command.Message.
func (EnrollStudentCommand) Type() string { return enrollStudentMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m EnrollStudentCommand) Validate() error {
	errs := validation.Errors{}
	if m.StudentID == uuid.Nil {
		errs["student_id"] = validation.NewError("lms.enrollment.enroll.student_id_required", "student_id is required")
	}
	if m.CourseID == uuid.Nil {
		errs["course_id"] = validation.NewError("lms.enrollment.enroll.course_id_required", "course_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EnrollStudentHandler enrolls students via the enrollment service.
type EnrollStudentHandler struct {
	inner *commands.Handler[EnrollStudentCommand]
}

// NewEnrollStudentHandler constructs a handler wired to the provided enrollment service.
func NewEnrollStudentHandler(service enrollment.Service, logger interfaces.Logger, opts ...commands.HandlerOption[EnrollStudentCommand]) *EnrollStudentHandler {
	exec := func(ctx context.Context, msg EnrollStudentCommand) error {
		_, err := service.Enroll(ctx, enrollment.EnrollInput{
			StudentID: msg.StudentID,
			CourseID:  msg.CourseID,
			ExpiresAt: msg.ExpiresAt,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[EnrollStudentCommand]{
		commands.WithLogger[EnrollStudentCommand](logger),
		commands.WithOperation[EnrollStudentCommand]("enrollment.enroll"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &EnrollStudentHandler{
		inner: commands.NewHandler[EnrollStudentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[EnrollStudentCommand].Execute.
func (h *EnrollStudentHandler) Execute(ctx context.Context, msg EnrollStudentCommand) error {
	return h.inner.Execute(ctx, msg)
}
