package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"

	lms "github.com/goliatone/go-lms"
	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	enrollmentcmd "github.com/goliatone/go-lms/internal/commands/enrollment"
	interactionscmd "github.com/goliatone/go-lms/internal/commands/interactions"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
)

func main() {
	ctx := context.Background()

	cfg := lms.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = time.Minute
	cfg.Features.Scheduling = true
	cfg.Features.Assessments = true
	cfg.Features.Analytics = true
	cfg.Features.AIInteractions = true
	cfg.Features.Export = true
	cfg.Export.Enabled = true
	cfg.Export.OutputDir = os.TempDir()

	cfg.Navigation.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "portal",
				BaseURL: "https://learn.example.com",
				Paths: map[string]string{
					"course":  "/courses/:course",
					"lesson":  "/courses/:course/lessons/:lesson",
					"student": "/students/:student",
				},
			},
		},
	}
	cfg.Navigation.URLKit = lms.URLKitResolverConfig{
		DefaultGroup: "portal",
		CourseRoute:  "course",
		LessonRoute:  "lesson",
		StudentRoute: "student",
		CourseParam:  "course",
		LessonParam:  "lesson",
		StudentParam: "student",
	}

	module, err := lms.New(cfg)
	if err != nil {
		log.Fatalf("initialise lms: %v", err)
	}

	course := mustCourse(ctx, module)
	student := mustStudent(ctx, module)
	record := mustEnrollment(ctx, module, student.ID, course.ID)

	runLessons(ctx, module, record)
	runAssessment(ctx, module, course.ID, record.ID)
	runTutorSession(ctx, module, student.ID, record.ID)
	runAnalytics(ctx, module, course.ID, student.ID)
	runRetention(module)
	runExport(ctx, module, course.ID, cfg.Export.OutputDir)
}

func mustCourse(ctx context.Context, module *lms.Module) *catalog.Course {
	course, err := module.Catalog().CreateCourse(ctx, catalog.CreateCourseInput{
		Code:  "go-101",
		Title: "Go Fundamentals",
		Tags:  []string{"programming", "go"},
	})
	if err != nil {
		log.Fatalf("create course: %v", err)
	}

	for _, lesson := range []catalog.AddLessonInput{
		{CourseID: course.ID, Slug: "hello", Title: "Hello, Go", Body: "# Hello\n\nYour first program.", DurationMinutes: 20},
		{CourseID: course.ID, Slug: "types", Title: "Types and Structs", Body: "# Types\n\nValues have types.", DurationMinutes: 35},
		{CourseID: course.ID, Slug: "channels", Title: "Channels", Body: "# Channels\n\nShare memory by communicating.", DurationMinutes: 45},
	} {
		if _, err := module.Catalog().AddLesson(ctx, lesson); err != nil {
			log.Fatalf("add lesson %s: %v", lesson.Slug, err)
		}
	}

	if _, err := module.Catalog().PublishCourse(ctx, catalog.PublishCourseInput{CourseID: course.ID}); err != nil {
		log.Fatalf("publish course: %v", err)
	}
	fmt.Printf("published course %s (%s)\n", course.Title, course.Code)

	if builder := module.Links(); builder != nil {
		if url, err := builder.CourseURL(course.ID); err == nil {
			fmt.Printf("portal URL: %s\n", url)
		}
	}
	return course
}

func mustStudent(ctx context.Context, module *lms.Module) *roster.Student {
	student, err := module.Roster().RegisterStudent(ctx, roster.RegisterStudentInput{
		Email:      "ada@example.com",
		FullName:   "Ada Lovelace",
		GradeLevel: "10",
	})
	if err != nil {
		log.Fatalf("register student: %v", err)
	}

	for _, purpose := range []domain.ConsentPurpose{domain.ConsentAnalytics, domain.ConsentAITutor} {
		if _, err := module.Roster().GrantConsent(ctx, roster.GrantConsentInput{
			StudentID: student.ID,
			Purpose:   purpose,
			GrantedBy: roster.ConsentActorStudent,
		}); err != nil {
			log.Fatalf("grant %s consent: %v", purpose, err)
		}
	}
	fmt.Printf("registered %s with analytics and AI tutor consent\n", student.FullName)
	return student
}

func mustEnrollment(ctx context.Context, module *lms.Module, studentID, courseID uuid.UUID) *enrollment.Enrollment {
	logger := module.Container().LoggerProvider().GetLogger("example")
	handler := enrollmentcmd.NewEnrollStudentHandler(module.Enrollments(), logger)
	if err := handler.Execute(ctx, enrollmentcmd.EnrollStudentCommand{
		StudentID: studentID,
		CourseID:  courseID,
	}); err != nil {
		log.Fatalf("enroll: %v", err)
	}
	record, err := module.Enrollments().GetActive(ctx, studentID, courseID)
	if err != nil {
		log.Fatalf("load enrollment: %v", err)
	}
	fmt.Printf("enrolled as %s\n", record.Status)
	return record
}

func runLessons(ctx context.Context, module *lms.Module, record *enrollment.Enrollment) {
	lessons, err := module.Catalog().ListLessons(ctx, record.CourseID)
	if err != nil {
		log.Fatalf("list lessons: %v", err)
	}
	for i, lesson := range lessons {
		if _, err := module.Progress().StartLesson(ctx, progress.StartLessonInput{
			EnrollmentID: record.ID,
			LessonID:     lesson.ID,
		}); err != nil {
			log.Fatalf("start lesson %s: %v", lesson.Slug, err)
		}
		// leave the last lesson in progress
		if i == len(lessons)-1 {
			if _, err := module.Progress().RecordTime(ctx, progress.RecordTimeInput{
				EnrollmentID:     record.ID,
				LessonID:         lesson.ID,
				TimeSpentSeconds: 300,
			}); err != nil {
				log.Fatalf("record time: %v", err)
			}
			continue
		}
		if _, err := module.Progress().CompleteLesson(ctx, progress.CompleteLessonInput{
			EnrollmentID:     record.ID,
			LessonID:         lesson.ID,
			TimeSpentSeconds: lesson.DurationMinutes * 60,
		}); err != nil {
			log.Fatalf("complete lesson %s: %v", lesson.Slug, err)
		}
	}

	summary, err := module.Progress().Summary(ctx, record.ID)
	if err != nil {
		log.Fatalf("summary: %v", err)
	}
	fmt.Printf("progress: %d/%d lessons, %.0f%% complete, %ds studied\n",
		summary.CompletedLessons, summary.TotalLessons, summary.PercentComplete, summary.TimeSpentSeconds)
}

func runAssessment(ctx context.Context, module *lms.Module, courseID, enrollmentID uuid.UUID) {
	quiz, err := module.Assessments().CreateAssessment(ctx, assessment.CreateAssessmentInput{
		CourseID: courseID,
		Title:    "Fundamentals Checkpoint",
		Questions: []assessment.Question{
			{ID: "q1", Type: assessment.QuestionTrueFalse, Prompt: "Go compiles to native code", Answer: "true", Points: 1},
			{ID: "q2", Type: assessment.QuestionMultipleChoice, Prompt: "Which keyword starts a goroutine?", Options: []string{"go", "run", "spawn"}, Answer: "go", Points: 1},
		},
	})
	if err != nil {
		log.Fatalf("create assessment: %v", err)
	}
	if _, err := module.Assessments().PublishAssessment(ctx, quiz.ID); err != nil {
		log.Fatalf("publish assessment: %v", err)
	}

	attempt, err := module.Assessments().StartAttempt(ctx, assessment.StartAttemptInput{
		AssessmentID: quiz.ID,
		EnrollmentID: enrollmentID,
	})
	if err != nil {
		log.Fatalf("start attempt: %v", err)
	}
	graded, err := module.Assessments().SubmitAttempt(ctx, assessment.SubmitAttemptInput{
		AttemptID: attempt.ID,
		Answers:   map[string]string{"q1": "true", "q2": "go"},
	})
	if err != nil {
		log.Fatalf("submit attempt: %v", err)
	}
	fmt.Printf("quiz graded: score %.0f%%, passed %v\n", *graded.Score, *graded.Passed)
}

func runTutorSession(ctx context.Context, module *lms.Module, studentID, enrollmentID uuid.UUID) {
	record, err := module.Interactions().Record(ctx, interactions.RecordInput{
		StudentID:    studentID,
		EnrollmentID: &enrollmentID,
		SessionID:    "demo-session",
		Prompt:       "Why do unbuffered channels block?",
		Response:     "Both sender and receiver must be ready before the exchange happens.",
		Model:        "tutor-large",
	})
	if err != nil {
		log.Fatalf("record interaction: %v", err)
	}
	fmt.Printf("AI tutor exchange logged at %s\n", record.OccurredAt.Format(time.RFC3339))
}

func runRetention(module *lms.Module) {
	logger := module.Container().LoggerProvider().GetLogger("example")
	handler := interactionscmd.NewPurgeInteractionsHandler(module.Interactions(), logger)
	if err := handler.CronHandler()(); err != nil {
		log.Fatalf("purge interactions: %v", err)
	}
	fmt.Printf("retention purge scheduled via %q\n", handler.CronOptions().Expression)
}

func runAnalytics(ctx context.Context, module *lms.Module, courseID, studentID uuid.UUID) {
	overview, err := module.Analytics().CourseOverview(ctx, courseID)
	if err != nil {
		log.Fatalf("course overview: %v", err)
	}
	fmt.Printf("course overview: %d enrolled, %.0f%% average progress, %d at risk\n",
		overview.TotalEnrollments, overview.AverageProgress, overview.AtRiskCount)

	student, err := module.Analytics().StudentOverview(ctx, studentID)
	if err != nil {
		log.Fatalf("student overview: %v", err)
	}
	fmt.Printf("student overview: %d active courses, at risk: %v\n", student.ActiveCourses, student.AtRisk)
}

func runExport(ctx context.Context, module *lms.Module, courseID uuid.UUID, outputDir string) {
	exporter := module.Export()
	if exporter == nil {
		return
	}
	path := filepath.Join(outputDir, "gradebook.xlsx")
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("create gradebook file: %v", err)
	}
	defer file.Close()
	if err := exporter.WriteGradebook(ctx, courseID, file); err != nil {
		log.Fatalf("write gradebook: %v", err)
	}
	fmt.Printf("gradebook exported to %s\n", path)
}
