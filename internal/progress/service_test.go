package progress_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	progress    progress.Service
	enrollments enrollment.Service
	courses     catalog.Service
	students    roster.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := func() time.Time { return testNow }
	courses := catalog.NewService(
		catalog.NewMemoryCourseRepository(),
		catalog.NewMemoryLessonRepository(),
		catalog.WithClock(clock),
	)
	students := roster.NewService(
		roster.NewMemoryStudentRepository(),
		roster.NewMemoryConsentRepository(),
		roster.WithClock(clock),
	)
	enrollments := enrollment.NewService(
		enrollment.NewMemoryRepository(),
		courses,
		students,
		enrollment.WithClock(clock),
	)
	svc := progress.NewService(
		progress.NewMemoryRepository(),
		enrollments,
		courses,
		progress.WithClock(clock),
	)

	return &fixture{
		progress:    svc,
		enrollments: enrollments,
		courses:     courses,
		students:    students,
	}
}

type courseFixture struct {
	course     *catalog.Course
	lessons    []*catalog.Lesson
	enrollment *enrollment.Enrollment
}

// seedCourse builds a published course with the given lessons and enrolls a
// fresh student. Each entry in required controls the matching lesson's flag.
func (f *fixture) seedCourse(t *testing.T, code string, required []bool) *courseFixture {
	t.Helper()
	ctx := context.Background()

	course, err := f.courses.CreateCourse(ctx, catalog.CreateCourseInput{
		Code:  code,
		Title: "Course " + code,
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	lessons := make([]*catalog.Lesson, 0, len(required))
	for i, req := range required {
		flag := req
		lesson, err := f.courses.AddLesson(ctx, catalog.AddLessonInput{
			CourseID: course.ID,
			Slug:     "lesson-" + string(rune('a'+i)),
			Title:    "Lesson",
			Body:     "Body.",
			Required: &flag,
		})
		if err != nil {
			t.Fatalf("add lesson: %v", err)
		}
		lessons = append(lessons, lesson)
	}

	course, err = f.courses.PublishCourse(ctx, catalog.PublishCourseInput{CourseID: course.ID})
	if err != nil {
		t.Fatalf("publish course: %v", err)
	}

	student, err := f.students.RegisterStudent(ctx, roster.RegisterStudentInput{
		Email:    code + "@example.com",
		FullName: "Student",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}

	enr, err := f.enrollments.Enroll(ctx, enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	return &courseFixture{course: course, lessons: lessons, enrollment: enr}
}

func TestStartLessonCreatesInProgressRecord(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true})

	record, err := f.progress.StartLesson(context.Background(), progress.StartLessonInput{
		EnrollmentID: cf.enrollment.ID,
		LessonID:     cf.lessons[0].ID,
	})
	if err != nil {
		t.Fatalf("start lesson: %v", err)
	}
	if record.Status != domain.ProgressInProgress {
		t.Fatalf("expected in_progress, got %s", record.Status)
	}
	if record.StartedAt == nil || !record.StartedAt.Equal(testNow) {
		t.Fatalf("expected started_at %s, got %v", testNow, record.StartedAt)
	}

	again, err := f.progress.StartLesson(context.Background(), progress.StartLessonInput{
		EnrollmentID: cf.enrollment.ID,
		LessonID:     cf.lessons[0].ID,
	})
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if again.ID != record.ID {
		t.Fatal("expected starting twice to reuse the record")
	}
}

func TestStartLessonRejectsForeignLesson(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true})
	other := f.seedCourse(t, "go-201", []bool{true})

	_, err := f.progress.StartLesson(context.Background(), progress.StartLessonInput{
		EnrollmentID: cf.enrollment.ID,
		LessonID:     other.lessons[0].ID,
	})
	if !errors.Is(err, progress.ErrLessonNotInCourse) {
		t.Fatalf("expected ErrLessonNotInCourse, got %v", err)
	}
}

func TestStartLessonRejectsSuspendedEnrollment(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true})

	if _, err := f.enrollments.Suspend(context.Background(), cf.enrollment.ID); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	_, err := f.progress.StartLesson(context.Background(), progress.StartLessonInput{
		EnrollmentID: cf.enrollment.ID,
		LessonID:     cf.lessons[0].ID,
	})
	if !errors.Is(err, progress.ErrEnrollmentNotActive) {
		t.Fatalf("expected ErrEnrollmentNotActive, got %v", err)
	}
}

func TestCompleteLessonWithoutStartTracksBoth(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true, true})

	record, err := f.progress.CompleteLesson(context.Background(), progress.CompleteLessonInput{
		EnrollmentID:     cf.enrollment.ID,
		LessonID:         cf.lessons[0].ID,
		TimeSpentSeconds: 90,
	})
	if err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	if record.Status != domain.ProgressCompleted {
		t.Fatalf("expected completed, got %s", record.Status)
	}
	if record.StartedAt == nil || record.CompletedAt == nil {
		t.Fatal("expected both started_at and completed_at")
	}
	if record.TimeSpentSeconds != 90 {
		t.Fatalf("expected 90 seconds tracked, got %d", record.TimeSpentSeconds)
	}
}

func TestCompleteLessonIsIdempotent(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true, true})

	first, err := f.progress.CompleteLesson(context.Background(), progress.CompleteLessonInput{
		EnrollmentID: cf.enrollment.ID,
		LessonID:     cf.lessons[0].ID,
	})
	if err != nil {
		t.Fatalf("complete lesson: %v", err)
	}

	again, err := f.progress.CompleteLesson(context.Background(), progress.CompleteLessonInput{
		EnrollmentID:     cf.enrollment.ID,
		LessonID:         cf.lessons[0].ID,
		TimeSpentSeconds: 600,
	})
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if again.TimeSpentSeconds != first.TimeSpentSeconds {
		t.Fatal("expected repeat completion to leave the record untouched")
	}
}

func TestRecordTimeAccumulates(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true})

	if _, err := f.progress.RecordTime(context.Background(), progress.RecordTimeInput{
		EnrollmentID:     cf.enrollment.ID,
		LessonID:         cf.lessons[0].ID,
		TimeSpentSeconds: 60,
	}); !errors.Is(err, progress.ErrLessonNotStarted) {
		t.Fatalf("expected ErrLessonNotStarted, got %v", err)
	}

	if _, err := f.progress.StartLesson(context.Background(), progress.StartLessonInput{
		EnrollmentID: cf.enrollment.ID,
		LessonID:     cf.lessons[0].ID,
	}); err != nil {
		t.Fatalf("start lesson: %v", err)
	}

	if _, err := f.progress.RecordTime(context.Background(), progress.RecordTimeInput{
		EnrollmentID:     cf.enrollment.ID,
		LessonID:         cf.lessons[0].ID,
		TimeSpentSeconds: 60,
	}); err != nil {
		t.Fatalf("record time: %v", err)
	}
	record, err := f.progress.RecordTime(context.Background(), progress.RecordTimeInput{
		EnrollmentID:     cf.enrollment.ID,
		LessonID:         cf.lessons[0].ID,
		TimeSpentSeconds: 45,
	})
	if err != nil {
		t.Fatalf("record time: %v", err)
	}
	if record.TimeSpentSeconds != 105 {
		t.Fatalf("expected 105 seconds, got %d", record.TimeSpentSeconds)
	}
}

func TestRecordTimeRejectsNegative(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true})

	_, err := f.progress.RecordTime(context.Background(), progress.RecordTimeInput{
		EnrollmentID:     cf.enrollment.ID,
		LessonID:         cf.lessons[0].ID,
		TimeSpentSeconds: -1,
	})
	if !errors.Is(err, progress.ErrTimeSpentInvalid) {
		t.Fatalf("expected ErrTimeSpentInvalid, got %v", err)
	}
}

func TestSummaryCountsRequiredLessonsOnly(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true, true, false})

	if _, err := f.progress.CompleteLesson(context.Background(), progress.CompleteLessonInput{
		EnrollmentID:     cf.enrollment.ID,
		LessonID:         cf.lessons[0].ID,
		TimeSpentSeconds: 120,
	}); err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	if _, err := f.progress.CompleteLesson(context.Background(), progress.CompleteLessonInput{
		EnrollmentID:     cf.enrollment.ID,
		LessonID:         cf.lessons[2].ID,
		TimeSpentSeconds: 30,
	}); err != nil {
		t.Fatalf("complete optional lesson: %v", err)
	}

	summary, err := f.progress.Summary(context.Background(), cf.enrollment.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalLessons != 3 || summary.RequiredLessons != 2 {
		t.Fatalf("unexpected lesson counts: %+v", summary)
	}
	if summary.CompletedLessons != 2 || summary.CompletedRequired != 1 {
		t.Fatalf("unexpected completion counts: %+v", summary)
	}
	if summary.PercentComplete != 50 {
		t.Fatalf("expected 50%% complete, got %v", summary.PercentComplete)
	}
	if summary.TimeSpentSeconds != 150 {
		t.Fatalf("expected 150 seconds total, got %d", summary.TimeSpentSeconds)
	}
	if summary.LastActivityAt == nil {
		t.Fatal("expected last activity to be set")
	}
}

func TestCompletingRequiredLessonsCompletesEnrollment(t *testing.T) {
	f := newFixture(t)
	cf := f.seedCourse(t, "go-101", []bool{true, true, false})
	ctx := context.Background()

	if _, err := f.progress.CompleteLesson(ctx, progress.CompleteLessonInput{
		EnrollmentID: cf.enrollment.ID,
		LessonID:     cf.lessons[0].ID,
	}); err != nil {
		t.Fatalf("complete first lesson: %v", err)
	}

	enr, err := f.enrollments.Get(ctx, cf.enrollment.ID)
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if enr.Status != domain.EnrollmentActive {
		t.Fatalf("expected enrollment to stay active, got %s", enr.Status)
	}

	if _, err := f.progress.CompleteLesson(ctx, progress.CompleteLessonInput{
		EnrollmentID: cf.enrollment.ID,
		LessonID:     cf.lessons[1].ID,
	}); err != nil {
		t.Fatalf("complete second lesson: %v", err)
	}

	enr, err = f.enrollments.Get(ctx, cf.enrollment.ID)
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if enr.Status != domain.EnrollmentCompleted {
		t.Fatalf("expected completed enrollment, got %s", enr.Status)
	}
	if enr.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
}
