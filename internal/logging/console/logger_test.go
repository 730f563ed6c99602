package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/internal/logging/console"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("lms.enrollment")
	logger = logger.(interfaces.FieldsLogger).WithFields(map[string]any{"module": "lms.enrollment"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"correlation_id": "req-1234",
	})
	logger = logger.WithContext(ctx)

	enrollmentID := uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999")
	logger.Info("enrollment.created",
		"enrollment_id", enrollmentID,
		"expires_at", time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
	)

	got := strings.TrimSpace(buf.String())
	want := "2026-03-14T15:09:26.535897Z INFO enrollment.created correlation_id=req-1234 enrollment_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 expires_at=2026-03-15T08:00:00Z logger=lms.enrollment module=lms.enrollment"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("lms.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
	if strings.Contains(lines[0], "ignored.debug") {
		t.Fatalf("unexpected debug log present: %s", lines[0])
	}
}
