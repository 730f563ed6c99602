package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-lms/pkg/interfaces"
	"github.com/google/uuid"
)

func TestInMemorySchedulerReplacesJobsByKey(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	counter := 0
	sched := NewInMemory(
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("job-%d", counter)
		}),
	)

	courseID := uuid.New()
	key := CoursePublishJobKey(courseID)

	first, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:   key,
		Type:  JobTypeCoursePublish,
		RunAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	second, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:   key,
		Type:  JobTypeCoursePublish,
		RunAt: now.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	if _, err := sched.Get(context.Background(), first.ID); !errors.Is(err, interfaces.ErrJobNotFound) {
		t.Fatalf("expected first job to be replaced, got %v", err)
	}

	stored, err := sched.GetByKey(context.Background(), key)
	if err != nil {
		t.Fatalf("GetByKey returned error: %v", err)
	}
	if stored.ID != second.ID {
		t.Fatalf("expected %s, got %s", second.ID, stored.ID)
	}
}

func TestInMemorySchedulerKeepsKeyForSettledJobs(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	sched := NewInMemory(WithClock(func() time.Time { return now }))

	key := EnrollmentExpireJobKey(uuid.New())
	job, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:   key,
		Type:  JobTypeEnrollmentExpire,
		RunAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	if err := sched.CancelByKey(context.Background(), key); err != nil {
		t.Fatalf("CancelByKey returned error: %v", err)
	}

	stored, err := sched.GetByKey(context.Background(), key)
	if err != nil {
		t.Fatalf("expected canceled job to stay resolvable by key, got %v", err)
	}
	if stored.ID != job.ID || stored.Status != interfaces.JobStatusCanceled {
		t.Fatalf("expected canceled %s, got %s %s", job.ID, stored.ID, stored.Status)
	}

	replacement, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:   key,
		Type:  JobTypeEnrollmentExpire,
		RunAt: now.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}
	stored, err = sched.GetByKey(context.Background(), key)
	if err != nil {
		t.Fatalf("GetByKey returned error: %v", err)
	}
	if stored.ID != replacement.ID {
		t.Fatalf("expected re-enqueue to replace the settled job, got %s", stored.ID)
	}
}

func TestInMemorySchedulerListDueOrdersByRunAt(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	sched := NewInMemory(WithClock(func() time.Time { return now }))

	late, _ := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  JobTypeEnrollmentExpire,
		RunAt: now.Add(30 * time.Minute),
	})
	early, _ := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  JobTypeEnrollmentExpire,
		RunAt: now.Add(10 * time.Minute),
	})
	sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:  JobTypeEnrollmentExpire,
		RunAt: now.Add(2 * time.Hour),
	})

	due, err := sched.ListDue(context.Background(), now.Add(time.Hour), 0)
	if err != nil {
		t.Fatalf("ListDue returned error: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due jobs, got %d", len(due))
	}
	if due[0].ID != early.ID || due[1].ID != late.ID {
		t.Fatalf("unexpected ordering: %s, %s", due[0].ID, due[1].ID)
	}
}

func TestInMemorySchedulerMarkFailedRequeuesUntilMaxAttempts(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	sched := NewInMemory(WithClock(func() time.Time { return now }))

	job, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Type:        JobTypeInteractionPurge,
		RunAt:       now,
		MaxAttempts: 2,
	})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	if err := sched.MarkFailed(context.Background(), job.ID, errors.New("boom")); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}
	stored, _ := sched.Get(context.Background(), job.ID)
	if stored.Status != interfaces.JobStatusPending {
		t.Fatalf("expected pending after first failure, got %s", stored.Status)
	}

	if err := sched.MarkFailed(context.Background(), job.ID, errors.New("boom")); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}
	stored, _ = sched.Get(context.Background(), job.ID)
	if stored.Status != interfaces.JobStatusFailed {
		t.Fatalf("expected failed after exhausting attempts, got %s", stored.Status)
	}
	if stored.LastError != "boom" {
		t.Fatalf("expected last error to be recorded, got %q", stored.LastError)
	}
}
