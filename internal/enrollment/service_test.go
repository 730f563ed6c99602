package enrollment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/internal/scheduler"
	"github.com/goliatone/go-lms/pkg/activity"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	enrollments enrollment.Service
	repo        enrollment.Repository
	courses     catalog.Service
	students    roster.Service
	scheduler   interfaces.Scheduler
	hook        *activity.CaptureHook
}

func newFixture(t *testing.T, opts ...enrollment.ServiceOption) *fixture {
	t.Helper()

	courses := catalog.NewService(
		catalog.NewMemoryCourseRepository(),
		catalog.NewMemoryLessonRepository(),
		catalog.WithClock(func() time.Time { return testNow }),
	)
	students := roster.NewService(
		roster.NewMemoryStudentRepository(),
		roster.NewMemoryConsentRepository(),
		roster.WithClock(func() time.Time { return testNow }),
	)

	sched := scheduler.NewInMemory(scheduler.WithClock(func() time.Time { return testNow }))
	hook := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{
		Enabled: true,
		Clock:   func() time.Time { return testNow },
	})

	base := []enrollment.ServiceOption{
		enrollment.WithClock(func() time.Time { return testNow }),
		enrollment.WithScheduler(sched),
		enrollment.WithActivityEmitter(emitter),
	}

	repo := enrollment.NewMemoryRepository()
	svc := enrollment.NewService(repo, courses, students, append(base, opts...)...)

	return &fixture{
		enrollments: svc,
		repo:        repo,
		courses:     courses,
		students:    students,
		scheduler:   sched,
		hook:        hook,
	}
}

func (f *fixture) mustCourse(t *testing.T, code string, capacity int) *catalog.Course {
	t.Helper()

	course, err := f.courses.CreateCourse(context.Background(), catalog.CreateCourseInput{
		Code:     code,
		Title:    "Course " + code,
		Capacity: capacity,
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if _, err := f.courses.AddLesson(context.Background(), catalog.AddLessonInput{
		CourseID: course.ID,
		Slug:     "intro",
		Title:    "Intro",
		Body:     "Welcome.",
	}); err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	course, err = f.courses.PublishCourse(context.Background(), catalog.PublishCourseInput{CourseID: course.ID})
	if err != nil {
		t.Fatalf("publish course: %v", err)
	}
	return course
}

func (f *fixture) mustStudent(t *testing.T, email string) *roster.Student {
	t.Helper()

	student, err := f.students.RegisterStudent(context.Background(), roster.RegisterStudentInput{
		Email:    email,
		FullName: "Student " + email,
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	return student
}

func (f *fixture) mustEnroll(t *testing.T, studentID, courseID uuid.UUID) *enrollment.Enrollment {
	t.Helper()

	record, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: studentID,
		CourseID:  courseID,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	return record
}

func TestEnrollCreatesActiveEnrollment(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	record := f.mustEnroll(t, student.ID, course.ID)

	if record.Status != domain.EnrollmentActive {
		t.Fatalf("expected active status, got %s", record.Status)
	}
	if !record.EnrolledAt.Equal(testNow) {
		t.Fatalf("expected enrolled_at %s, got %s", testNow, record.EnrolledAt)
	}
	if len(f.hook.Events) == 0 || f.hook.Events[len(f.hook.Events)-1].Verb != "enroll" {
		t.Fatalf("expected enroll activity event, got %+v", f.hook.Events)
	}
}

func TestEnrollRejectsUnpublishedCourse(t *testing.T) {
	f := newFixture(t)
	student := f.mustStudent(t, "ada@example.com")

	course, err := f.courses.CreateCourse(context.Background(), catalog.CreateCourseInput{
		Code:  "draft-101",
		Title: "Draft Course",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	_, err = f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if !errors.Is(err, enrollment.ErrCourseNotOpen) {
		t.Fatalf("expected ErrCourseNotOpen, got %v", err)
	}
}

func TestEnrollRejectsInactiveStudent(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	if _, err := f.students.DeactivateStudent(context.Background(), student.ID); err != nil {
		t.Fatalf("deactivate student: %v", err)
	}

	_, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if !errors.Is(err, enrollment.ErrStudentInactive) {
		t.Fatalf("expected ErrStudentInactive, got %v", err)
	}
}

func TestEnrollRejectsDuplicateOpenEnrollment(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	f.mustEnroll(t, student.ID, course.ID)

	_, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if !errors.Is(err, enrollment.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
}

func TestEnrollAllowsReEnrollAfterDrop(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	first := f.mustEnroll(t, student.ID, course.ID)
	if _, err := f.enrollments.Drop(context.Background(), first.ID); err != nil {
		t.Fatalf("drop: %v", err)
	}

	second := f.mustEnroll(t, student.ID, course.ID)
	if second.ID == first.ID {
		t.Fatal("expected a new enrollment record")
	}
}

func TestEnrollEnforcesCapacity(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 1)
	first := f.mustStudent(t, "ada@example.com")
	second := f.mustStudent(t, "grace@example.com")

	f.mustEnroll(t, first.ID, course.ID)

	_, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: second.ID,
		CourseID:  course.ID,
	})
	if !errors.Is(err, enrollment.ErrCourseFull) {
		t.Fatalf("expected ErrCourseFull, got %v", err)
	}
}

func TestEnrollWithExpirySchedulesJob(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	expiresAt := testNow.Add(30 * 24 * time.Hour)
	record, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	job, err := f.scheduler.GetByKey(context.Background(), scheduler.EnrollmentExpireJobKey(record.ID))
	if err != nil {
		t.Fatalf("expected expiry job, got %v", err)
	}
	if job.Type != scheduler.JobTypeEnrollmentExpire {
		t.Fatalf("expected job type %s, got %s", scheduler.JobTypeEnrollmentExpire, job.Type)
	}
	if !job.RunAt.Equal(expiresAt) {
		t.Fatalf("expected run_at %s, got %s", expiresAt, job.RunAt)
	}
}

func TestEnrollRejectsPastExpiry(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	expiresAt := testNow.Add(-time.Hour)
	_, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
		ExpiresAt: &expiresAt,
	})
	if !errors.Is(err, enrollment.ErrExpiryInPast) {
		t.Fatalf("expected ErrExpiryInPast, got %v", err)
	}
}

func TestDropCancelsExpiryJob(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	expiresAt := testNow.Add(24 * time.Hour)
	record, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	dropped, err := f.enrollments.Drop(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if dropped.Status != domain.EnrollmentDropped {
		t.Fatalf("expected dropped status, got %s", dropped.Status)
	}
	if dropped.DroppedAt == nil || !dropped.DroppedAt.Equal(testNow) {
		t.Fatalf("expected dropped_at %s, got %v", testNow, dropped.DroppedAt)
	}

	job, err := f.scheduler.GetByKey(context.Background(), scheduler.EnrollmentExpireJobKey(record.ID))
	if err != nil {
		t.Fatalf("expected canceled job to remain visible, got %v", err)
	}
	if job.Status != interfaces.JobStatusCanceled {
		t.Fatalf("expected canceled job, got %s", job.Status)
	}
}

func TestDropRejectsTerminalEnrollment(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	record := f.mustEnroll(t, student.ID, course.ID)
	if _, err := f.enrollments.Drop(context.Background(), record.ID); err != nil {
		t.Fatalf("drop: %v", err)
	}

	_, err := f.enrollments.Drop(context.Background(), record.ID)
	if !errors.Is(err, enrollment.ErrTerminalState) {
		t.Fatalf("expected ErrTerminalState, got %v", err)
	}
}

func TestSuspendAndResume(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	record := f.mustEnroll(t, student.ID, course.ID)

	suspended, err := f.enrollments.Suspend(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if suspended.Status != domain.EnrollmentSuspended {
		t.Fatalf("expected suspended status, got %s", suspended.Status)
	}
	if suspended.SuspendedAt == nil {
		t.Fatal("expected suspended_at to be set")
	}

	if _, err := f.enrollments.Suspend(context.Background(), record.ID); !errors.Is(err, enrollment.ErrNotActive) {
		t.Fatalf("expected ErrNotActive on double suspend, got %v", err)
	}

	resumed, err := f.enrollments.Resume(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.Status != domain.EnrollmentActive {
		t.Fatalf("expected active status, got %s", resumed.Status)
	}
	if resumed.SuspendedAt != nil {
		t.Fatal("expected suspended_at to be cleared")
	}
}

func TestResumeRejectsActiveEnrollment(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	record := f.mustEnroll(t, student.ID, course.ID)

	_, err := f.enrollments.Resume(context.Background(), record.ID)
	if !errors.Is(err, enrollment.ErrNotSuspended) {
		t.Fatalf("expected ErrNotSuspended, got %v", err)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	record := f.mustEnroll(t, student.ID, course.ID)

	completed, err := f.enrollments.Complete(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.EnrollmentCompleted {
		t.Fatalf("expected completed status, got %s", completed.Status)
	}
	if completed.CompletedAt == nil || !completed.CompletedAt.Equal(testNow) {
		t.Fatalf("expected completed_at %s, got %v", testNow, completed.CompletedAt)
	}

	again, err := f.enrollments.Complete(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if again.Status != domain.EnrollmentCompleted {
		t.Fatalf("expected completed status, got %s", again.Status)
	}
}

func TestSetFinalGrade(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	record := f.mustEnroll(t, student.ID, course.ID)

	graded, err := f.enrollments.SetFinalGrade(context.Background(), record.ID, 92.5)
	if err != nil {
		t.Fatalf("set final grade: %v", err)
	}
	if graded.FinalGrade == nil || *graded.FinalGrade != 92.5 {
		t.Fatalf("expected final grade 92.5, got %v", graded.FinalGrade)
	}

	if _, err := f.enrollments.SetFinalGrade(context.Background(), record.ID, 101); !errors.Is(err, enrollment.ErrGradeInvalid) {
		t.Fatalf("expected ErrGradeInvalid, got %v", err)
	}

	if _, err := f.enrollments.Drop(context.Background(), record.ID); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := f.enrollments.SetFinalGrade(context.Background(), record.ID, 50); !errors.Is(err, enrollment.ErrEnrollmentDropped) {
		t.Fatalf("expected ErrEnrollmentDropped, got %v", err)
	}
}

func TestExpireDropsOverdueEnrollment(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	expiresAt := testNow.Add(time.Hour)
	record, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if _, err := f.enrollments.Expire(context.Background(), record.ID); !errors.Is(err, enrollment.ErrExpiryNotDue) {
		t.Fatalf("expected ErrExpiryNotDue before expiry, got %v", err)
	}

	later := enrollment.NewService(f.repo, f.courses, f.students,
		enrollment.WithClock(func() time.Time { return testNow.Add(2 * time.Hour) }),
	)
	expired, err := later.Expire(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired.Status != domain.EnrollmentDropped {
		t.Fatalf("expected dropped status after expiry, got %s", expired.Status)
	}
	if expired.DroppedAt == nil {
		t.Fatal("expected dropped_at to be set")
	}

	again, err := later.Expire(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("second expire: %v", err)
	}
	if again.Status != domain.EnrollmentDropped {
		t.Fatalf("expected expiry to stay terminal, got %s", again.Status)
	}
}

func TestGetActiveReturnsOpenEnrollment(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	student := f.mustStudent(t, "ada@example.com")

	record := f.mustEnroll(t, student.ID, course.ID)

	found, err := f.enrollments.GetActive(context.Background(), student.ID, course.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if found.ID != record.ID {
		t.Fatalf("expected enrollment %s, got %s", record.ID, found.ID)
	}

	if _, err := f.enrollments.Drop(context.Background(), record.ID); err != nil {
		t.Fatalf("drop: %v", err)
	}

	_, err = f.enrollments.GetActive(context.Background(), student.ID, course.ID)
	var nf *enrollment.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError after drop, got %v", err)
	}
}

func TestListByCourseFiltersStatus(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t, "go-101", 0)
	ada := f.mustStudent(t, "ada@example.com")
	grace := f.mustStudent(t, "grace@example.com")

	first := f.mustEnroll(t, ada.ID, course.ID)
	f.mustEnroll(t, grace.ID, course.ID)

	if _, err := f.enrollments.Drop(context.Background(), first.ID); err != nil {
		t.Fatalf("drop: %v", err)
	}

	active, total, err := f.enrollments.ListByCourse(context.Background(), course.ID, enrollment.ListOptions{
		Status: domain.EnrollmentActive,
	})
	if err != nil {
		t.Fatalf("list by course: %v", err)
	}
	if total != 1 || len(active) != 1 {
		t.Fatalf("expected one active enrollment, got total=%d len=%d", total, len(active))
	}
	if active[0].StudentID != grace.ID {
		t.Fatalf("expected grace's enrollment, got student %s", active[0].StudentID)
	}
}
