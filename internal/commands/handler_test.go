package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/google/uuid"
)

type reminderMessage struct {
	EnrollmentID uuid.UUID
}

func (reminderMessage) Type() string { return "lms.enrollment.reminder" }

func (m reminderMessage) Validate() error {
	if m.EnrollmentID == uuid.Nil {
		return errors.New("enrollment id is required")
	}
	return nil
}

func validReminder() reminderMessage {
	return reminderMessage{EnrollmentID: uuid.New()}
}

func TestHandlerExecuteSuccess(t *testing.T) {
	var seen uuid.UUID
	h := NewHandler[reminderMessage](func(ctx context.Context, msg reminderMessage) error {
		seen = msg.EnrollmentID
		return nil
	})

	msg := validReminder()
	if err := h.Execute(context.Background(), msg); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if seen != msg.EnrollmentID {
		t.Fatalf("expected handler to receive %s, got %s", msg.EnrollmentID, seen)
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[reminderMessage](func(ctx context.Context, msg reminderMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), reminderMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[reminderMessage](func(ctx context.Context, msg reminderMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, validReminder())
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[reminderMessage](func(ctx context.Context, msg reminderMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), validReminder())
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[reminderMessage](func(ctx context.Context, msg reminderMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[reminderMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), validReminder())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}
