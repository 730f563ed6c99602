package markdown_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/identity"
	"github.com/goliatone/go-lms/internal/markdown"
)

var testNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func newCatalog(opts ...catalog.ServiceOption) catalog.Service {
	base := []catalog.ServiceOption{
		catalog.WithClock(func() time.Time { return testNow }),
		catalog.WithCourseIDDeriver(identity.CourseUUID),
		catalog.WithLessonIDDeriver(identity.LessonUUID),
		catalog.WithRenderer(markdown.NewRenderer(nil)),
	}
	return catalog.NewService(
		catalog.NewMemoryCourseRepository(),
		catalog.NewMemoryLessonRepository(),
		append(base, opts...)...,
	)
}

func newImporter(courses catalog.Service) *markdown.Importer {
	return markdown.NewImporter(markdown.ImporterConfig{Courses: courses})
}

func lessonDoc(course, slug, title, body string, position int) *markdown.Document {
	return &markdown.Document{
		FilePath: course + "/" + slug + ".md",
		FrontMatter: markdown.FrontMatter{
			Course:          course,
			CourseTitle:     "Algebra Fundamentals",
			Slug:            slug,
			Title:           title,
			Position:        position,
			DurationMinutes: 20,
		},
		Body: []byte(body),
	}
}

func TestImportDocumentsCreatesCourseAndLessons(t *testing.T) {
	courses := newCatalog()
	importer := newImporter(courses)

	docs := []*markdown.Document{
		lessonDoc("algebra-101", "variables", "Variables", "# Variables", 1),
		lessonDoc("algebra-101", "linear-equations", "Linear Equations", "# Linear Equations", 2),
	}

	result, err := importer.ImportDocuments(context.Background(), docs, markdown.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDocuments returned error: %v", err)
	}

	if len(result.CreatedCourseIDs) != 1 {
		t.Fatalf("expected one course created, got %d", len(result.CreatedCourseIDs))
	}
	if result.CreatedCourseIDs[0] != identity.CourseUUID("algebra-101") {
		t.Fatalf("expected deterministic course id, got %s", result.CreatedCourseIDs[0])
	}
	if len(result.CreatedLessonIDs) != 2 {
		t.Fatalf("expected two lessons created, got %d", len(result.CreatedLessonIDs))
	}

	course, err := courses.GetCourseByCode(context.Background(), "algebra-101")
	if err != nil {
		t.Fatalf("GetCourseByCode returned error: %v", err)
	}
	if course.Title != "Algebra Fundamentals" {
		t.Fatalf("expected course title from frontmatter, got %q", course.Title)
	}

	lessons, err := courses.ListLessons(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("ListLessons returned error: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("expected two lessons, got %d", len(lessons))
	}
	if lessons[0].Slug != "variables" || lessons[1].Slug != "linear-equations" {
		t.Fatalf("expected lessons in frontmatter position order, got %q then %q", lessons[0].Slug, lessons[1].Slug)
	}
	if lessons[0].ID != identity.LessonUUID(course.ID, "variables") {
		t.Fatalf("expected deterministic lesson id, got %s", lessons[0].ID)
	}
	if lessons[0].BodyHTML == "" {
		t.Fatalf("expected lesson body to be rendered on import")
	}
}

func TestReimportSkipsUnchangedLessons(t *testing.T) {
	courses := newCatalog()
	importer := newImporter(courses)

	docs := []*markdown.Document{
		lessonDoc("algebra-101", "variables", "Variables", "# Variables", 1),
	}

	if _, err := importer.ImportDocuments(context.Background(), docs, markdown.ImportOptions{}); err != nil {
		t.Fatalf("first import returned error: %v", err)
	}

	result, err := importer.ImportDocuments(context.Background(), docs, markdown.ImportOptions{})
	if err != nil {
		t.Fatalf("second import returned error: %v", err)
	}

	if len(result.CreatedCourseIDs) != 0 || len(result.CreatedLessonIDs) != 0 || len(result.UpdatedLessonIDs) != 0 {
		t.Fatalf("expected a no-op re-import, got %+v", result)
	}
	if len(result.SkippedLessonIDs) != 1 {
		t.Fatalf("expected one skipped lesson, got %d", len(result.SkippedLessonIDs))
	}
}

func TestReimportUpdatesChangedBody(t *testing.T) {
	courses := newCatalog()
	importer := newImporter(courses)

	original := []*markdown.Document{
		lessonDoc("algebra-101", "variables", "Variables", "# Variables", 1),
	}
	if _, err := importer.ImportDocuments(context.Background(), original, markdown.ImportOptions{}); err != nil {
		t.Fatalf("first import returned error: %v", err)
	}

	revised := []*markdown.Document{
		lessonDoc("algebra-101", "variables", "Variables", "# Variables\n\nNow with examples.", 1),
	}
	result, err := importer.ImportDocuments(context.Background(), revised, markdown.ImportOptions{})
	if err != nil {
		t.Fatalf("second import returned error: %v", err)
	}

	if len(result.UpdatedLessonIDs) != 1 {
		t.Fatalf("expected one updated lesson, got %+v", result)
	}

	course := mustCourse(t, courses, "algebra-101")
	lesson, err := courses.GetLessonBySlug(context.Background(), course.ID, "variables")
	if err != nil {
		t.Fatalf("GetLessonBySlug returned error: %v", err)
	}
	if lesson.Body != "# Variables\n\nNow with examples." {
		t.Fatalf("expected lesson body to be replaced, got %q", lesson.Body)
	}
}

func TestImportDocumentRequiresSlugAndCourse(t *testing.T) {
	importer := newImporter(newCatalog())

	doc := lessonDoc("algebra-101", "variables", "Variables", "# Variables", 1)
	doc.FrontMatter.Slug = ""
	if _, err := importer.ImportDocument(context.Background(), doc, markdown.ImportOptions{}); !errors.Is(err, markdown.ErrLessonSlugMissing) {
		t.Fatalf("expected ErrLessonSlugMissing, got %v", err)
	}

	doc = lessonDoc("", "variables", "Variables", "# Variables", 1)
	if _, err := importer.ImportDocument(context.Background(), doc, markdown.ImportOptions{}); !errors.Is(err, markdown.ErrCourseCodeMissing) {
		t.Fatalf("expected ErrCourseCodeMissing, got %v", err)
	}
}

func TestDryRunLeavesCatalogUntouched(t *testing.T) {
	courses := newCatalog()
	importer := newImporter(courses)

	docs := []*markdown.Document{
		lessonDoc("algebra-101", "variables", "Variables", "# Variables", 1),
	}

	if _, err := importer.ImportDocuments(context.Background(), docs, markdown.ImportOptions{DryRun: true}); err != nil {
		t.Fatalf("dry-run import returned error: %v", err)
	}

	if _, err := courses.GetCourseByCode(context.Background(), "algebra-101"); err == nil {
		t.Fatalf("expected dry run to leave the catalog empty")
	}
}

func TestSyncRemovesOrphanedLessons(t *testing.T) {
	courses := newCatalog()
	importer := newImporter(courses)

	docs := []*markdown.Document{
		lessonDoc("algebra-101", "variables", "Variables", "# Variables", 1),
		lessonDoc("algebra-101", "linear-equations", "Linear Equations", "# Linear Equations", 2),
	}
	if _, err := importer.ImportDocuments(context.Background(), docs, markdown.ImportOptions{}); err != nil {
		t.Fatalf("seed import returned error: %v", err)
	}

	result, err := importer.SyncDocuments(context.Background(), docs[:1], markdown.SyncOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("SyncDocuments returned error: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected one lesson removed, got %d", result.Deleted)
	}

	course := mustCourse(t, courses, "algebra-101")
	lessons, err := courses.ListLessons(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("ListLessons returned error: %v", err)
	}
	if len(lessons) != 1 || lessons[0].Slug != "variables" {
		t.Fatalf("expected only the variables lesson to survive, got %#v", lessons)
	}
}

func TestImportPublishesCourseFromFrontmatterStatus(t *testing.T) {
	courses := newCatalog()
	importer := newImporter(courses)

	doc := lessonDoc("algebra-101", "variables", "Variables", "# Variables", 1)
	doc.FrontMatter.Status = "published"

	if _, err := importer.ImportDocument(context.Background(), doc, markdown.ImportOptions{PublishCourses: true}); err != nil {
		t.Fatalf("ImportDocument returned error: %v", err)
	}

	course := mustCourse(t, courses, "algebra-101")
	if course.Status != domain.StatusPublished {
		t.Fatalf("expected course to be published, got %s", course.Status)
	}
}

func mustCourse(t *testing.T, courses catalog.Service, code string) *catalog.Course {
	t.Helper()
	course, err := courses.GetCourseByCode(context.Background(), code)
	if err != nil {
		t.Fatalf("GetCourseByCode(%s) returned error: %v", code, err)
	}
	return course
}
