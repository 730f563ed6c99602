package interactionscmd_test

import (
	"context"
	"testing"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-lms/internal/commands"
	interactionscmd "github.com/goliatone/go-lms/internal/commands/interactions"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/roster"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fixture struct {
	interactions interactions.Service
	students     roster.Service
	clock        *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{now: testNow.AddDate(0, 0, -40)}
	students := roster.NewService(
		roster.NewMemoryStudentRepository(),
		roster.NewMemoryConsentRepository(),
		roster.WithClock(clock.Now),
	)
	svc := interactions.NewService(
		interactions.NewMemoryRepository(),
		students,
		interactions.WithClock(clock.Now),
		interactions.WithRetentionDays(30),
	)

	return &fixture{interactions: svc, students: students, clock: clock}
}

func (f *fixture) mustStudent(t *testing.T) *roster.Student {
	t.Helper()
	ctx := context.Background()

	student, err := f.students.RegisterStudent(ctx, roster.RegisterStudentInput{
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	if _, err := f.students.GrantConsent(ctx, roster.GrantConsentInput{
		StudentID: student.ID,
		Purpose:   domain.ConsentAITutor,
		GrantedBy: roster.ConsentActorStudent,
	}); err != nil {
		t.Fatalf("grant consent: %v", err)
	}
	return student
}

func (f *fixture) mustRecord(t *testing.T, student *roster.Student, prompt string) {
	t.Helper()

	if _, err := f.interactions.Record(context.Background(), interactions.RecordInput{
		StudentID: student.ID,
		SessionID: "sess-1",
		Prompt:    prompt,
		Response:  "Answer.",
		Model:     "tutor-v2",
	}); err != nil {
		t.Fatalf("record interaction: %v", err)
	}
}

func TestPurgeInteractionsHandlerRemovesExpired(t *testing.T) {
	f := newFixture(t)
	student := f.mustStudent(t)

	// One record 40 days back, one inside the 30 day window.
	f.mustRecord(t, student, "What is a goroutine?")
	f.clock.now = testNow
	f.mustRecord(t, student, "What is a channel?")

	handler := interactionscmd.NewPurgeInteractionsHandler(f.interactions, commands.CommandLogger(nil, "interactions"))
	if err := handler.Execute(context.Background(), interactionscmd.PurgeInteractionsCommand{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	remaining, total, err := f.interactions.ListByStudent(context.Background(), student.ID, interactions.ListOptions{})
	if err != nil {
		t.Fatalf("list by student: %v", err)
	}
	if total != 1 || len(remaining) != 1 {
		t.Fatalf("expected 1 remaining interaction, got %d", total)
	}
	if remaining[0].Prompt != "What is a channel?" {
		t.Fatalf("expected recent interaction to survive, got %q", remaining[0].Prompt)
	}
}

func TestPurgeInteractionsHandlerCronDefaults(t *testing.T) {
	f := newFixture(t)

	handler := interactionscmd.NewPurgeInteractionsHandler(f.interactions, nil)
	if got := handler.CronOptions().Expression; got != "@daily" {
		t.Fatalf("expected @daily expression, got %q", got)
	}

	handler = interactionscmd.NewPurgeInteractionsHandler(f.interactions, nil,
		interactionscmd.PurgeWithCronExpression("@hourly"),
		interactionscmd.PurgeWithCronConfig(command.HandlerConfig{Expression: "0 3 * * *"}),
		interactionscmd.PurgeWithCronExpression(" "),
	)
	if got := handler.CronOptions().Expression; got != "0 3 * * *" {
		t.Fatalf("expected overridden expression, got %q", got)
	}

	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("cron handler: %v", err)
	}
}
