package enrollmentcmd_test

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/commands"
	enrollmentcmd "github.com/goliatone/go-lms/internal/commands/enrollment"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/roster"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	catalog     catalog.Service
	students    roster.Service
	enrollments enrollment.Service
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

	return &fixture{catalog: courses, students: students, enrollments: enrollments}
}

func (f *fixture) mustCourse(t *testing.T) *catalog.Course {
	t.Helper()

	course, err := f.catalog.CreateCourse(context.Background(), catalog.CreateCourseInput{
		Code:  "go-101",
		Title: "Go Fundamentals",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if _, err := f.catalog.AddLesson(context.Background(), catalog.AddLessonInput{
		CourseID: course.ID,
		Slug:     "intro",
		Title:    "Intro",
		Body:     "Welcome.",
	}); err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	course, err = f.catalog.PublishCourse(context.Background(), catalog.PublishCourseInput{CourseID: course.ID})
	if err != nil {
		t.Fatalf("publish course: %v", err)
	}
	return course
}

func (f *fixture) mustStudent(t *testing.T) *roster.Student {
	t.Helper()

	student, err := f.students.RegisterStudent(context.Background(), roster.RegisterStudentInput{
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	return student
}

func TestEnrollStudentHandlerEnrolls(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t)
	student := f.mustStudent(t)

	handler := enrollmentcmd.NewEnrollStudentHandler(f.enrollments, commands.CommandLogger(nil, "enrollment"))
	err := handler.Execute(context.Background(), enrollmentcmd.EnrollStudentCommand{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	record, err := f.enrollments.GetActive(context.Background(), student.ID, course.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if record.Status != domain.EnrollmentActive {
		t.Fatalf("expected active enrollment, got %s", record.Status)
	}
}

func TestEnrollStudentHandlerValidationError(t *testing.T) {
	f := newFixture(t)

	handler := enrollmentcmd.NewEnrollStudentHandler(f.enrollments, nil)
	err := handler.Execute(context.Background(), enrollmentcmd.EnrollStudentCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestEnrollStudentHandlerWrapsServiceError(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t)

	handler := enrollmentcmd.NewEnrollStudentHandler(f.enrollments, nil)
	err := handler.Execute(context.Background(), enrollmentcmd.EnrollStudentCommand{
		StudentID: uuid.New(),
		CourseID:  course.ID,
	})
	if err == nil {
		t.Fatal("expected error for unknown student")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestDropEnrollmentHandlerDrops(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t)
	student := f.mustStudent(t)

	record, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	handler := enrollmentcmd.NewDropEnrollmentHandler(f.enrollments, nil)
	if err := handler.Execute(context.Background(), enrollmentcmd.DropEnrollmentCommand{EnrollmentID: record.ID}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	dropped, err := f.enrollments.Get(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dropped.Status != domain.EnrollmentDropped {
		t.Fatalf("expected dropped enrollment, got %s", dropped.Status)
	}
}

func TestSetFinalGradeHandlerRecordsGrade(t *testing.T) {
	f := newFixture(t)
	course := f.mustCourse(t)
	student := f.mustStudent(t)

	record, err := f.enrollments.Enroll(context.Background(), enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	handler := enrollmentcmd.NewSetFinalGradeHandler(f.enrollments, nil)
	if err := handler.Execute(context.Background(), enrollmentcmd.SetFinalGradeCommand{
		EnrollmentID: record.ID,
		Grade:        88.5,
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	graded, err := f.enrollments.Get(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if graded.FinalGrade == nil || *graded.FinalGrade != 88.5 {
		t.Fatalf("expected final grade 88.5, got %v", graded.FinalGrade)
	}
}

func TestSetFinalGradeHandlerRejectsOutOfRange(t *testing.T) {
	f := newFixture(t)

	handler := enrollmentcmd.NewSetFinalGradeHandler(f.enrollments, nil)
	err := handler.Execute(context.Background(), enrollmentcmd.SetFinalGradeCommand{
		EnrollmentID: uuid.New(),
		Grade:        120,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
