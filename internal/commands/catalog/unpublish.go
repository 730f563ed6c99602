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

const unpublishCourseMessageType = "lms.catalog.unpublish"

// UnpublishCourseCommand retires a published course immediately or at a future instant.
type UnpublishCourseCommand struct {
	CourseID uuid.UUID  `json:"course_id"`
	At       *time.Time `json:"at,omitempty"`
}

// Type implements command.Message.
func (UnpublishCourseCommand) Type() string { return unpublishCourseMessageType }

// Validate ensures the target course is identified.
func (m UnpublishCourseCommand) Validate() error {
	errs := validation.Errors{}
	if m.CourseID == uuid.Nil {
		errs["course_id"] = validation.NewError("lms.catalog.unpublish.course_id_required", "course_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UnpublishCourseHandler retires courses via the catalog service.
type UnpublishCourseHandler struct {
	inner *commands.Handler[UnpublishCourseCommand]
}

// NewUnpublishCourseHandler constructs a handler wired to the provided catalog service.
func NewUnpublishCourseHandler(service catalog.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UnpublishCourseCommand]) *UnpublishCourseHandler {
	exec := func(ctx context.Context, msg UnpublishCourseCommand) error {
		_, err := service.UnpublishCourse(ctx, catalog.UnpublishCourseInput{
			CourseID: msg.CourseID,
			At:       msg.At,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[UnpublishCourseCommand]{
		commands.WithLogger[UnpublishCourseCommand](logger),
		commands.WithOperation[UnpublishCourseCommand]("catalog.unpublish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UnpublishCourseHandler{
		inner: commands.NewHandler[UnpublishCourseCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UnpublishCourseCommand].Execute.
func (h *UnpublishCourseHandler) Execute(ctx context.Context, msg UnpublishCourseCommand) error {
	return h.inner.Execute(ctx, msg)
}
