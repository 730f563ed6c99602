package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/export"
	"github.com/goliatone/go-lms/internal/links"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/internal/runtimeconfig"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	exporter    *export.Service
	courses     catalog.Service
	students    roster.Service
	enrollments enrollment.Service
	progress    progress.Service
	assessments assessment.Service
}

func newFixture(t *testing.T, opts ...export.Option) *fixture {
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
	progressSvc := progress.NewService(
		progress.NewMemoryRepository(),
		enrollments,
		courses,
		progress.WithClock(clock),
	)
	assessments := assessment.NewService(
		assessment.NewMemoryAssessmentRepository(),
		assessment.NewMemoryAttemptRepository(),
		courses,
		enrollments,
		assessment.WithClock(clock),
	)

	exporter := export.NewService(courses, students, enrollments, progressSvc, assessments, opts...)

	return &fixture{
		exporter:    exporter,
		courses:     courses,
		students:    students,
		enrollments: enrollments,
		progress:    progressSvc,
		assessments: assessments,
	}
}

func (f *fixture) seedCourse(t *testing.T) (*catalog.Course, []*catalog.Lesson) {
	t.Helper()
	ctx := context.Background()

	course, err := f.courses.CreateCourse(ctx, catalog.CreateCourseInput{
		Code:  "go-101",
		Title: "Introduction to Go",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	lessons := make([]*catalog.Lesson, 0, 2)
	for _, slug := range []string{"lesson-a", "lesson-b"} {
		lesson, err := f.courses.AddLesson(ctx, catalog.AddLessonInput{
			CourseID: course.ID,
			Slug:     slug,
			Title:    "Lesson " + slug,
			Body:     "Body.",
		})
		if err != nil {
			t.Fatalf("add lesson: %v", err)
		}
		lessons = append(lessons, lesson)
	}

	if _, err := f.courses.PublishCourse(ctx, catalog.PublishCourseInput{CourseID: course.ID}); err != nil {
		t.Fatalf("publish course: %v", err)
	}
	return course, lessons
}

func (f *fixture) enroll(t *testing.T, email, name string, courseID uuid.UUID) *enrollment.Enrollment {
	t.Helper()
	ctx := context.Background()

	student, err := f.students.RegisterStudent(ctx, roster.RegisterStudentInput{
		Email:      email,
		FullName:   name,
		GradeLevel: "7",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	record, err := f.enrollments.Enroll(ctx, enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  courseID,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	return record
}

func portalLinks(t *testing.T) *links.Builder {
	t.Helper()
	builder, err := links.FromRuntime(runtimeconfig.NavigationConfig{
		RouteConfig: &urlkit.Config{
			Groups: []urlkit.GroupConfig{
				{
					Name:    "portal",
					BaseURL: "https://lms.example.com",
					Paths: map[string]string{
						"course":  "/courses/:course_id",
						"lesson":  "/courses/:course_id/lessons/:lesson_id",
						"student": "/students/:student_id",
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("links.FromRuntime: %v", err)
	}
	return builder
}

func TestGradebookExportsStudentRows(t *testing.T) {
	f := newFixture(t, export.WithLinkBuilder(portalLinks(t)))
	ctx := context.Background()

	course, lessons := f.seedCourse(t)
	ada := f.enroll(t, "ada@example.com", "Ada Lovelace", course.ID)
	f.enroll(t, "grace@example.com", "Grace Hopper", course.ID)

	if _, err := f.progress.CompleteLesson(ctx, progress.CompleteLessonInput{
		EnrollmentID:     ada.ID,
		LessonID:         lessons[0].ID,
		TimeSpentSeconds: 120,
	}); err != nil {
		t.Fatalf("complete lesson: %v", err)
	}

	quiz, err := f.assessments.CreateAssessment(ctx, assessment.CreateAssessmentInput{
		CourseID: course.ID,
		Title:    "Module Quiz",
		Questions: []assessment.Question{
			{ID: "q1", Type: assessment.QuestionTrueFalse, Prompt: "Go has generics", Answer: "true", Points: 1},
		},
	})
	if err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	if _, err := f.assessments.PublishAssessment(ctx, quiz.ID); err != nil {
		t.Fatalf("publish assessment: %v", err)
	}
	attempt, err := f.assessments.StartAttempt(ctx, assessment.StartAttemptInput{
		AssessmentID: quiz.ID,
		EnrollmentID: ada.ID,
	})
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	if _, err := f.assessments.SubmitAttempt(ctx, assessment.SubmitAttemptInput{
		AttemptID: attempt.ID,
		Answers:   map[string]string{"q1": "true"},
	}); err != nil {
		t.Fatalf("submit attempt: %v", err)
	}
	if _, err := f.enrollments.SetFinalGrade(ctx, ada.ID, 95); err != nil {
		t.Fatalf("set final grade: %v", err)
	}

	file, err := f.exporter.Gradebook(ctx, course.ID)
	if err != nil {
		t.Fatalf("Gradebook returned error: %v", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet != "Gradebook" {
		t.Fatalf("expected default sheet name, got %q", sheet)
	}

	header, err := file.GetCellValue(sheet, "G1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != "Module Quiz (Best %)" {
		t.Fatalf("expected assessment column header, got %q", header)
	}

	name, _ := file.GetCellValue(sheet, "A2")
	if name != "Ada Lovelace" {
		t.Fatalf("expected Ada in row 2, got %q", name)
	}
	grade, _ := file.GetCellValue(sheet, "C2")
	if grade != "7" {
		t.Fatalf("expected grade level column, got %q", grade)
	}
	percent, _ := file.GetCellValue(sheet, "E2")
	if percent != "50" {
		t.Fatalf("expected 50 percent progress, got %q", percent)
	}
	best, _ := file.GetCellValue(sheet, "G2")
	if best != "100" {
		t.Fatalf("expected best score 100, got %q", best)
	}
	final, _ := file.GetCellValue(sheet, "H2")
	if final != "95" {
		t.Fatalf("expected final grade 95, got %q", final)
	}
	emptyBest, _ := file.GetCellValue(sheet, "G3")
	if emptyBest != "" {
		t.Fatalf("expected blank best score without graded attempts, got %q", emptyBest)
	}

	hasLink, link, err := file.GetCellHyperLink(sheet, "A2")
	if err != nil {
		t.Fatalf("read hyperlink: %v", err)
	}
	if !hasLink || link != "https://lms.example.com/students/"+ada.StudentID.String() {
		t.Fatalf("expected student portal hyperlink, got %q", link)
	}
}

func TestWriteGradebookRoundTrip(t *testing.T) {
	f := newFixture(t, export.WithSheetName("Grades 2026"))
	course, _ := f.seedCourse(t)
	f.enroll(t, "ada@example.com", "Ada Lovelace", course.ID)

	var buf bytes.Buffer
	if err := f.exporter.WriteGradebook(context.Background(), course.ID, &buf); err != nil {
		t.Fatalf("WriteGradebook returned error: %v", err)
	}

	file, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer file.Close()

	if file.GetSheetName(0) != "Grades 2026" {
		t.Fatalf("expected configured sheet name, got %q", file.GetSheetName(0))
	}
	email, _ := file.GetCellValue("Grades 2026", "B2")
	if email != "ada@example.com" {
		t.Fatalf("expected student email in round trip, got %q", email)
	}
}
