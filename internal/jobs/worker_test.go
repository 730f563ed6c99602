package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/jobs"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/internal/scheduler"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	worker       *jobs.Worker
	audit        *jobs.InMemoryAuditRecorder
	scheduler    interfaces.Scheduler
	courses      catalog.Service
	students     roster.Service
	enrollments  enrollment.Service
	assessments  assessment.Service
	interactions interactions.Service
	clock        *fakeClock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{now: testNow}
	sched := scheduler.NewInMemory(scheduler.WithClock(clock.Now))
	courses := catalog.NewService(
		catalog.NewMemoryCourseRepository(),
		catalog.NewMemoryLessonRepository(),
		catalog.WithClock(clock.Now),
		catalog.WithScheduler(sched),
	)
	students := roster.NewService(
		roster.NewMemoryStudentRepository(),
		roster.NewMemoryConsentRepository(),
		roster.WithClock(clock.Now),
	)
	enrollments := enrollment.NewService(
		enrollment.NewMemoryRepository(),
		courses,
		students,
		enrollment.WithClock(clock.Now),
		enrollment.WithScheduler(sched),
	)
	assessments := assessment.NewService(
		assessment.NewMemoryAssessmentRepository(),
		assessment.NewMemoryAttemptRepository(),
		courses,
		enrollments,
		assessment.WithClock(clock.Now),
		assessment.WithScheduler(sched),
		assessment.WithAttemptRetention(30),
	)
	interactionSvc := interactions.NewService(
		interactions.NewMemoryRepository(),
		students,
		interactions.WithClock(clock.Now),
		interactions.WithRetentionDays(30),
		interactions.WithConsentRequired(false),
	)

	audit := jobs.NewInMemoryAuditRecorder()
	worker := jobs.NewWorker(sched, courses, enrollments, assessments, interactionSvc,
		jobs.WithClock(clock.Now),
		jobs.WithAuditRecorder(audit),
	)

	return &fixture{
		worker:       worker,
		audit:        audit,
		scheduler:    sched,
		courses:      courses,
		students:     students,
		enrollments:  enrollments,
		assessments:  assessments,
		interactions: interactionSvc,
		clock:        clock,
	}
}

func (f *fixture) mustPublishedCourse(t *testing.T, code string) *catalog.Course {
	t.Helper()
	ctx := context.Background()

	course, err := f.courses.CreateCourse(ctx, catalog.CreateCourseInput{Code: code, Title: "Course"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if _, err := f.courses.AddLesson(ctx, catalog.AddLessonInput{
		CourseID: course.ID, Slug: "intro", Title: "Intro", Body: "Body.",
	}); err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	course, err = f.courses.PublishCourse(ctx, catalog.PublishCourseInput{CourseID: course.ID})
	if err != nil {
		t.Fatalf("publish course: %v", err)
	}
	return course
}

func TestProcessAppliesScheduledCoursePublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course, err := f.courses.CreateCourse(ctx, catalog.CreateCourseInput{Code: "go-101", Title: "Go"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if _, err := f.courses.AddLesson(ctx, catalog.AddLessonInput{
		CourseID: course.ID, Slug: "intro", Title: "Intro", Body: "Body.",
	}); err != nil {
		t.Fatalf("add lesson: %v", err)
	}

	publishAt := testNow.Add(time.Hour)
	scheduled, err := f.courses.PublishCourse(ctx, catalog.PublishCourseInput{CourseID: course.ID, At: &publishAt})
	if err != nil {
		t.Fatalf("schedule publish: %v", err)
	}
	if scheduled.Status != domain.StatusScheduled {
		t.Fatalf("expected scheduled status, got %s", scheduled.Status)
	}

	// Nothing is due yet.
	if err := f.worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	current, err := f.courses.GetCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if current.Status != domain.StatusScheduled {
		t.Fatalf("expected course to stay scheduled, got %s", current.Status)
	}

	f.clock.now = publishAt.Add(time.Minute)
	if err := f.worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	current, err = f.courses.GetCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if current.Status != domain.StatusPublished {
		t.Fatalf("expected published course, got %s", current.Status)
	}

	events := f.audit.Events()
	if len(events) != 1 || events[0].Action != "publish" || events[0].EntityType != "course" {
		t.Fatalf("unexpected audit trail: %+v", events)
	}
}

func TestProcessExpiresEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course := f.mustPublishedCourse(t, "go-101")
	student, err := f.students.RegisterStudent(ctx, roster.RegisterStudentInput{
		Email: "ada@example.com", FullName: "Ada",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}

	expiresAt := testNow.Add(time.Hour)
	enr, err := f.enrollments.Enroll(ctx, enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	f.clock.now = expiresAt.Add(time.Minute)
	if err := f.worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	current, err := f.enrollments.Get(ctx, enr.ID)
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if current.Status != domain.EnrollmentDropped {
		t.Fatalf("expected dropped enrollment, got %s", current.Status)
	}
}

func TestProcessExpiresAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course := f.mustPublishedCourse(t, "go-101")
	student, err := f.students.RegisterStudent(ctx, roster.RegisterStudentInput{
		Email: "ada@example.com", FullName: "Ada",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	enr, err := f.enrollments.Enroll(ctx, enrollment.EnrollInput{StudentID: student.ID, CourseID: course.ID})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	quiz, err := f.assessments.CreateAssessment(ctx, assessment.CreateAssessmentInput{
		CourseID: course.ID,
		Title:    "Quiz",
		Questions: []assessment.Question{
			{ID: "q1", Type: assessment.QuestionShortAnswer, Prompt: "?", Answer: "x", Points: 1},
		},
		TimeLimitSeconds: 60,
	})
	if err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	if _, err := f.assessments.PublishAssessment(ctx, quiz.ID); err != nil {
		t.Fatalf("publish assessment: %v", err)
	}
	attempt, err := f.assessments.StartAttempt(ctx, assessment.StartAttemptInput{
		AssessmentID: quiz.ID,
		EnrollmentID: enr.ID,
	})
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	f.clock.now = testNow.Add(5 * time.Minute)
	if err := f.worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	current, err := f.assessments.GetAttempt(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if current.Status != domain.AttemptExpired {
		t.Fatalf("expected expired attempt, got %s", current.Status)
	}
}

func TestProcessPurgesExpiredAttempts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	course := f.mustPublishedCourse(t, "go-101")
	student, err := f.students.RegisterStudent(ctx, roster.RegisterStudentInput{
		Email: "ada@example.com", FullName: "Ada",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	enr, err := f.enrollments.Enroll(ctx, enrollment.EnrollInput{StudentID: student.ID, CourseID: course.ID})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	quiz, err := f.assessments.CreateAssessment(ctx, assessment.CreateAssessmentInput{
		CourseID: course.ID,
		Title:    "Quiz",
		Questions: []assessment.Question{
			{ID: "q1", Type: assessment.QuestionShortAnswer, Prompt: "?", Answer: "x", Points: 1},
		},
		TimeLimitSeconds: 60,
	})
	if err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	if _, err := f.assessments.PublishAssessment(ctx, quiz.ID); err != nil {
		t.Fatalf("publish assessment: %v", err)
	}
	attempt, err := f.assessments.StartAttempt(ctx, assessment.StartAttemptInput{
		AssessmentID: quiz.ID,
		EnrollmentID: enr.ID,
	})
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}

	// Let the expiry job run so the attempt lands in the expired status.
	f.clock.now = testNow.Add(5 * time.Minute)
	if err := f.worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	f.clock.now = testNow.AddDate(0, 0, 45)
	if _, err := f.scheduler.Enqueue(ctx, interfaces.JobSpec{
		Key:   scheduler.AttemptPurgeJobKey(),
		Type:  scheduler.JobTypeAttemptPurge,
		RunAt: f.clock.now,
	}); err != nil {
		t.Fatalf("enqueue purge: %v", err)
	}
	if err := f.worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	if _, err := f.assessments.GetAttempt(ctx, attempt.ID); err == nil {
		t.Fatal("expected purged attempt to be gone")
	}

	events := f.audit.ByAction("purge")
	if len(events) != 1 || events[0].EntityType != "assessment_attempt" {
		t.Fatalf("unexpected audit trail: %+v", f.audit.Events())
	}
	if events[0].Metadata["purged"] != 1 {
		t.Fatalf("expected purge count metadata, got %v", events[0].Metadata["purged"])
	}
}

func TestProcessPurgesInteractions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student, err := f.students.RegisterStudent(ctx, roster.RegisterStudentInput{
		Email: "ada@example.com", FullName: "Ada",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	if _, err := f.interactions.Record(ctx, interactions.RecordInput{
		StudentID: student.ID,
		Prompt:    "Old question",
		Response:  "Answer.",
	}); err != nil {
		t.Fatalf("record interaction: %v", err)
	}

	f.clock.now = testNow.AddDate(0, 0, 45)
	if _, err := f.scheduler.Enqueue(ctx, interfaces.JobSpec{
		Key:   scheduler.InteractionPurgeJobKey(),
		Type:  scheduler.JobTypeInteractionPurge,
		RunAt: f.clock.now,
	}); err != nil {
		t.Fatalf("enqueue purge: %v", err)
	}

	if err := f.worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	_, total, err := f.interactions.ListByStudent(ctx, student.ID, interactions.ListOptions{})
	if err != nil {
		t.Fatalf("list interactions: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected empty interaction log, got %d", total)
	}

	events := f.audit.ByAction("purge")
	if len(events) != 1 {
		t.Fatalf("unexpected audit trail: %+v", f.audit.Events())
	}
	if events[0].Metadata["purged"] != 1 {
		t.Fatalf("expected purge count metadata, got %v", events[0].Metadata["purged"])
	}
}

func TestProcessMarksFailedJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job, err := f.scheduler.Enqueue(ctx, interfaces.JobSpec{
		Key:     "course:bogus:publish",
		Type:    scheduler.JobTypeCoursePublish,
		RunAt:   testNow,
		Payload: map[string]any{"course_id": "not-a-uuid"},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := f.worker.Process(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}

	stored, err := f.scheduler.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Attempt != 1 || stored.LastError == "" {
		t.Fatalf("expected failed attempt recorded, got %+v", stored)
	}
}
