// Package catalogcmd exposes course lifecycle operations as go-command messages.
package catalogcmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/commands"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

const publishCourseMessageType = "lms.catalog.publish"

// PublishCourseCommand publishes a course immediately or at a future instant.
type PublishCourseCommand struct {
	CourseID uuid.UUID  `json:"course_id"`
	At       *time.Time `json:"at,omitempty"`
}

// Type implements command.Message.
func (PublishCourseCommand) Type() string { return publishCourseMessageType }

// Validate ensures the target course is identified.
func (m PublishCourseCommand) Validate() error {
	errs := validation.Errors{}
	if m.CourseID == uuid.Nil {
		errs["course_id"] = validation.NewError("lms.catalog.publish.course_id_required", "course_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishCourseHandler publishes courses via the catalog service.
type PublishCourseHandler struct {
	inner *commands.Handler[PublishCourseCommand]
}

// NewPublishCourseHandler constructs a handler wired to the provided catalog service.
func NewPublishCourseHandler(service catalog.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishCourseCommand]) *PublishCourseHandler {
	exec := func(ctx context.Context, msg PublishCourseCommand) error {
		_, err := service.PublishCourse(ctx, catalog.PublishCourseInput{
			CourseID: msg.CourseID,
			At:       msg.At,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishCourseCommand]{
		commands.WithLogger[PublishCourseCommand](logger),
		commands.WithOperation[PublishCourseCommand]("catalog.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishCourseHandler{
		inner: commands.NewHandler[PublishCourseCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishCourseCommand].Execute.
func (h *PublishCourseHandler) Execute(ctx context.Context, msg PublishCourseCommand) error {
	return h.inner.Execute(ctx, msg)
}
