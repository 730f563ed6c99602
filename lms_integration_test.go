package lms_test

import (
	"context"
	"testing"
	"time"

	"github.com/uptrace/bun"

	lms "github.com/goliatone/go-lms"
	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/di"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/pkg/testsupport"
)

func TestModule_StudentJourneyWithBun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := lms.NewSQLiteDB(sqlDB)
	registerJourneyModels(t, bunDB)

	cfg := lms.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = 50 * time.Millisecond
	cfg.Features.Scheduling = true
	cfg.Features.Assessments = true
	cfg.Features.Analytics = true
	cfg.Features.AIInteractions = true

	module, err := lms.New(cfg, di.WithBunDB(bunDB))
	if err != nil {
		t.Fatalf("new lms module: %v", err)
	}

	course, err := module.Catalog().CreateCourse(ctx, catalog.CreateCourseInput{
		Code:  "go-201",
		Title: "Concurrent Go",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	lesson, err := module.Catalog().AddLesson(ctx, catalog.AddLessonInput{
		CourseID: course.ID,
		Slug:     "channels",
		Title:    "Channels",
		Body:     "# Channels\n\nShare memory by communicating.",
	})
	if err != nil {
		t.Fatalf("add lesson: %v", err)
	}
	if lesson.BodyHTML == "" {
		t.Fatalf("expected rendered lesson body")
	}
	if _, err := module.Catalog().PublishCourse(ctx, catalog.PublishCourseInput{CourseID: course.ID}); err != nil {
		t.Fatalf("publish course: %v", err)
	}

	student, err := module.Roster().RegisterStudent(ctx, roster.RegisterStudentInput{
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}

	record, err := module.Enrollments().Enroll(ctx, enrollment.EnrollInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if record.Status != domain.EnrollmentActive {
		t.Fatalf("expected active enrollment got %q", record.Status)
	}

	if _, err := module.Progress().StartLesson(ctx, progress.StartLessonInput{
		EnrollmentID: record.ID,
		LessonID:     lesson.ID,
	}); err != nil {
		t.Fatalf("start lesson: %v", err)
	}
	if _, err := module.Progress().CompleteLesson(ctx, progress.CompleteLessonInput{
		EnrollmentID:     record.ID,
		LessonID:         lesson.ID,
		TimeSpentSeconds: 600,
	}); err != nil {
		t.Fatalf("complete lesson: %v", err)
	}
	summary, err := module.Progress().Summary(ctx, record.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.PercentComplete != 100 {
		t.Fatalf("expected 100%% complete got %v", summary.PercentComplete)
	}

	quiz, err := module.Assessments().CreateAssessment(ctx, assessment.CreateAssessmentInput{
		CourseID: course.ID,
		Title:    "Checkpoint",
		Questions: []assessment.Question{
			{ID: "q1", Type: assessment.QuestionTrueFalse, Prompt: "Channels block by default", Answer: "true", Points: 1},
		},
	})
	if err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	if _, err := module.Assessments().PublishAssessment(ctx, quiz.ID); err != nil {
		t.Fatalf("publish assessment: %v", err)
	}
	attempt, err := module.Assessments().StartAttempt(ctx, assessment.StartAttemptInput{
		AssessmentID: quiz.ID,
		EnrollmentID: record.ID,
	})
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	graded, err := module.Assessments().SubmitAttempt(ctx, assessment.SubmitAttemptInput{
		AttemptID: attempt.ID,
		Answers:   map[string]string{"q1": "true"},
	})
	if err != nil {
		t.Fatalf("submit attempt: %v", err)
	}
	if graded.Status != domain.AttemptGraded || graded.Passed == nil || !*graded.Passed {
		t.Fatalf("expected passing graded attempt got %+v", graded)
	}

	if _, err := module.Roster().GrantConsent(ctx, roster.GrantConsentInput{
		StudentID: student.ID,
		Purpose:   domain.ConsentAITutor,
		GrantedBy: roster.ConsentActorStudent,
	}); err != nil {
		t.Fatalf("grant ai consent: %v", err)
	}
	if _, err := module.Interactions().Record(ctx, interactions.RecordInput{
		StudentID: student.ID,
		Prompt:    "Why do unbuffered channels block?",
		Response:  "Both sides must be ready before the exchange happens.",
	}); err != nil {
		t.Fatalf("record interaction: %v", err)
	}

	overview, err := module.Analytics().CourseOverview(ctx, course.ID)
	if err != nil {
		t.Fatalf("course overview: %v", err)
	}
	if overview.TotalEnrollments != 1 {
		t.Fatalf("expected 1 enrollment got %d", overview.TotalEnrollments)
	}
}

func TestModule_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := lms.DefaultConfig()
	cfg.Retention.InteractionDays = -1
	if _, err := lms.New(cfg); err == nil {
		t.Fatalf("expected config validation error")
	}
}

func TestModule_AdminAPIServesWiredServices(t *testing.T) {
	t.Parallel()
	module, err := lms.New(lms.DefaultConfig())
	if err != nil {
		t.Fatalf("new lms module: %v", err)
	}
	api := module.AdminAPI()
	if api == nil {
		t.Fatalf("expected admin api")
	}
}

func registerJourneyModels(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()
	models := []any{
		(*roster.Student)(nil),
		(*roster.PrivacyConsent)(nil),
		(*catalog.Course)(nil),
		(*catalog.Lesson)(nil),
		(*enrollment.Enrollment)(nil),
		(*progress.LessonProgress)(nil),
		(*assessment.Assessment)(nil),
		(*assessment.Attempt)(nil),
		(*interactions.AIInteraction)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
}
