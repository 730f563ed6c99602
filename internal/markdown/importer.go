package markdown

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/logging"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

var (
	ErrCatalogRequired    = errors.New("markdown importer: catalog service is required")
	ErrCourseCodeMissing  = errors.New("markdown importer: frontmatter course code is required")
	ErrLessonSlugMissing  = errors.New("markdown importer: frontmatter slug is required")
	ErrLessonTitleMissing = errors.New("markdown importer: frontmatter title is required")
)

// ImportOptions tune a single import run.
type ImportOptions struct {
	// DryRun reports what would change without touching the catalog.
	DryRun bool
	// PublishCourses publishes a course after import when any of its
	// documents carries a "published" status.
	PublishCourses bool
}

// SyncOptions extend imports with orphan removal.
type SyncOptions struct {
	ImportOptions
	// DeleteOrphaned removes catalog lessons with no backing document.
	DeleteOrphaned bool
}

// ImportResult summarises the catalog mutations performed by an import.
type ImportResult struct {
	CreatedCourseIDs []uuid.UUID
	CreatedLessonIDs []uuid.UUID
	UpdatedLessonIDs []uuid.UUID
	SkippedLessonIDs []uuid.UUID
	Errors           []error
}

// SyncResult aggregates counts across a full sync pass.
type SyncResult struct {
	CoursesCreated int
	Created        int
	Updated        int
	Skipped        int
	Deleted        int
	Errors         []error
}

// ImporterConfig encapsulates dependencies required to persist lesson documents.
type ImporterConfig struct {
	Courses catalog.Service
	Logger  interfaces.LoggerProvider
}

// Importer upserts lesson documents through the course catalog.
type Importer struct {
	courses catalog.Service
	logger  interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := logging.MarkdownLogger(cfg.Logger)
	return &Importer{
		courses: cfg.Courses,
		logger:  logger,
	}
}

// ImportDocument imports a single lesson document.
func (i *Importer) ImportDocument(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error) {
	if i.courses == nil {
		return nil, ErrCatalogRequired
	}
	acc := newImportAccumulator()
	if err := i.applyGroup(ctx, groupKey(doc), []*Document{doc}, opts, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments imports an arbitrary slice of documents, grouping them by course code.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*Document, opts ImportOptions) (*ImportResult, error) {
	if i.courses == nil {
		return nil, ErrCatalogRequired
	}

	acc := newImportAccumulator()
	for code, group := range groupByCourse(docs) {
		if err := i.applyGroup(ctx, code, sortDocuments(group), opts, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// SyncDocuments imports all provided documents and optionally removes lessons
// with no backing document.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*Document, opts SyncOptions) (*SyncResult, error) {
	if i.courses == nil {
		return nil, ErrCatalogRequired
	}

	grouped := groupByCourse(docs)
	acc := newSyncAccumulator()

	for code, group := range grouped {
		res := newImportAccumulator()
		if err := i.applyGroup(ctx, code, sortDocuments(group), opts.ImportOptions, res); err != nil {
			res.addError(err)
		}
		acc.merge(res.result())
	}

	if opts.DeleteOrphaned {
		for code, group := range grouped {
			if err := i.deleteOrphaned(ctx, code, group, opts, acc); err != nil {
				acc.addError(err)
			}
		}
	}

	return acc.result(), firstError(acc.errors)
}

func (i *Importer) applyGroup(ctx context.Context, code string, docs []*Document, opts ImportOptions, acc *importAccumulator) error {
	if code == "" {
		return ErrCourseCodeMissing
	}

	for _, doc := range docs {
		if err := validateDocument(doc); err != nil {
			return err
		}
	}

	course, err := i.ensureCourse(ctx, code, docs, opts, acc)
	if err != nil {
		return err
	}
	if course == nil {
		// Dry run against a missing course: every document would create.
		return nil
	}

	for _, doc := range docs {
		if err := i.upsertLesson(ctx, course, doc, opts, acc); err != nil {
			return err
		}
	}

	if opts.PublishCourses && selectStatus(docs) == string(domain.StatusPublished) && !opts.DryRun {
		if course.Status == domain.StatusDraft {
			if _, err := i.courses.PublishCourse(ctx, catalog.PublishCourseInput{CourseID: course.ID}); err != nil {
				return fmt.Errorf("markdown importer: publish course %s: %w", code, err)
			}
			i.logger.Info("import.course.published", "course_id", course.ID, "code", code)
		}
	}

	return nil
}

func (i *Importer) ensureCourse(ctx context.Context, code string, docs []*Document, opts ImportOptions, acc *importAccumulator) (*catalog.Course, error) {
	course, err := i.courses.GetCourseByCode(ctx, code)
	if err == nil {
		return course, nil
	}

	var nf *catalog.NotFoundError
	if !errors.As(err, &nf) {
		return nil, fmt.Errorf("markdown importer: course lookup %s: %w", code, err)
	}

	if opts.DryRun {
		return nil, nil
	}

	created, err := i.courses.CreateCourse(ctx, catalog.CreateCourseInput{
		Code:  code,
		Title: courseTitle(code, docs),
		Tags:  courseTags(docs),
	})
	if err != nil {
		return nil, fmt.Errorf("markdown importer: create course %s: %w", code, err)
	}
	acc.courseCreated(created.ID)
	i.logger.Info("import.course.created", "course_id", created.ID, "code", code)
	return created, nil
}

func (i *Importer) upsertLesson(ctx context.Context, course *catalog.Course, doc *Document, opts ImportOptions, acc *importAccumulator) error {
	slug := strings.TrimSpace(doc.FrontMatter.Slug)

	existing, err := i.courses.GetLessonBySlug(ctx, course.ID, slug)
	if err != nil {
		var nf *catalog.NotFoundError
		if !errors.As(err, &nf) {
			return fmt.Errorf("markdown importer: lesson lookup %s/%s: %w", course.Code, slug, err)
		}
		existing = nil
	}

	if existing == nil {
		if opts.DryRun {
			acc.skip(uuid.Nil)
			return nil
		}
		created, createErr := i.courses.AddLesson(ctx, catalog.AddLessonInput{
			CourseID:        course.ID,
			Slug:            slug,
			Title:           doc.FrontMatter.Title,
			Body:            string(doc.Body),
			Required:        doc.FrontMatter.Required,
			DurationMinutes: doc.FrontMatter.DurationMinutes,
		})
		if createErr != nil {
			return fmt.Errorf("markdown importer: add lesson %s/%s: %w", course.Code, slug, createErr)
		}
		acc.created(created.ID)
		i.logger.Debug("import.lesson.created", "lesson_id", created.ID, "slug", slug)
		return nil
	}

	update, changed := diffLesson(existing, doc)
	if !changed {
		acc.skip(existing.ID)
		return nil
	}

	if opts.DryRun {
		acc.skip(existing.ID)
		return nil
	}

	updated, updateErr := i.courses.UpdateLesson(ctx, update)
	if updateErr != nil {
		return fmt.Errorf("markdown importer: update lesson %s/%s: %w", course.Code, slug, updateErr)
	}
	acc.updated(updated.ID)
	i.logger.Debug("import.lesson.updated", "lesson_id", updated.ID, "slug", slug)
	return nil
}

func (i *Importer) deleteOrphaned(ctx context.Context, code string, docs []*Document, opts SyncOptions, acc *syncAccumulator) error {
	course, err := i.courses.GetCourseByCode(ctx, code)
	if err != nil {
		var nf *catalog.NotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("markdown importer: course lookup %s: %w", code, err)
	}

	lessons, err := i.courses.ListLessons(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("markdown importer: list lessons %s: %w", code, err)
	}

	docSlugs := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		docSlugs[strings.TrimSpace(doc.FrontMatter.Slug)] = struct{}{}
	}

	for _, lesson := range lessons {
		if _, ok := docSlugs[lesson.Slug]; ok {
			continue
		}
		if opts.DryRun {
			acc.deleted++
			continue
		}
		if err := i.courses.RemoveLesson(ctx, lesson.ID); err != nil {
			return fmt.Errorf("markdown importer: remove lesson %s/%s: %w", code, lesson.Slug, err)
		}
		acc.deleted++
		i.logger.Debug("import.lesson.removed", "lesson_id", lesson.ID, "slug", lesson.Slug)
	}

	return nil
}

func diffLesson(existing *catalog.Lesson, doc *Document) (catalog.UpdateLessonInput, bool) {
	update := catalog.UpdateLessonInput{LessonID: existing.ID}
	changed := false

	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title != "" && title != existing.Title {
		update.Title = &title
		changed = true
	}

	body := string(doc.Body)
	if body != existing.Body {
		update.Body = &body
		changed = true
	}

	if doc.FrontMatter.Required != nil && *doc.FrontMatter.Required != existing.Required {
		update.Required = doc.FrontMatter.Required
		changed = true
	}

	if doc.FrontMatter.DurationMinutes != existing.DurationMinutes && doc.FrontMatter.DurationMinutes > 0 {
		duration := doc.FrontMatter.DurationMinutes
		update.DurationMinutes = &duration
		changed = true
	}

	return update, changed
}

func validateDocument(doc *Document) error {
	if doc == nil {
		return errors.New("markdown importer: nil document")
	}
	if strings.TrimSpace(doc.FrontMatter.Slug) == "" {
		return ErrLessonSlugMissing
	}
	if strings.TrimSpace(doc.FrontMatter.Title) == "" {
		return ErrLessonTitleMissing
	}
	return nil
}

func groupKey(doc *Document) string {
	if doc == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(doc.FrontMatter.Course))
}

func groupByCourse(docs []*Document) map[string][]*Document {
	result := map[string][]*Document{}
	for _, doc := range docs {
		key := groupKey(doc)
		result[key] = append(result[key], doc)
	}
	return result
}

// sortDocuments orders documents by frontmatter position, then path, so
// appended lessons land in authoring order.
func sortDocuments(docs []*Document) []*Document {
	slices.SortFunc(docs, func(a, b *Document) int {
		if a == nil || b == nil {
			return 0
		}
		if a.FrontMatter.Position != b.FrontMatter.Position {
			return a.FrontMatter.Position - b.FrontMatter.Position
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})
	return docs
}

func courseTitle(code string, docs []*Document) string {
	for _, doc := range docs {
		if doc != nil && strings.TrimSpace(doc.FrontMatter.CourseTitle) != "" {
			return strings.TrimSpace(doc.FrontMatter.CourseTitle)
		}
	}
	return fallbackTitle(code)
}

func courseTags(docs []*Document) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, tag := range doc.FrontMatter.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

func fallbackTitle(code string) string {
	if code == "" {
		return "Untitled"
	}
	words := strings.FieldsFunc(code, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for idx, word := range words {
		if word == "" {
			continue
		}
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func selectStatus(docs []*Document) string {
	for _, doc := range docs {
		if doc != nil && strings.TrimSpace(doc.FrontMatter.Status) != "" {
			return strings.ToLower(strings.TrimSpace(doc.FrontMatter.Status))
		}
	}
	return string(domain.StatusDraft)
}

type importAccumulator struct {
	courseIDs  []uuid.UUID
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		courseIDs:  []uuid.UUID{},
		createdIDs: []uuid.UUID{},
		updatedIDs: []uuid.UUID{},
		skippedIDs: []uuid.UUID{},
		errors:     []error{},
	}
}

func (a *importAccumulator) courseCreated(id uuid.UUID) {
	if id != uuid.Nil {
		a.courseIDs = append(a.courseIDs, id)
	}
}

func (a *importAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *importAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *importAccumulator) skip(id uuid.UUID) {
	a.skippedIDs = append(a.skippedIDs, id)
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *ImportResult {
	return &ImportResult{
		CreatedCourseIDs: a.courseIDs,
		CreatedLessonIDs: a.createdIDs,
		UpdatedLessonIDs: a.updatedIDs,
		SkippedLessonIDs: a.skippedIDs,
		Errors:           a.errors,
	}
}

type syncAccumulator struct {
	coursesCreated int
	created        int
	updated        int
	skipped        int
	deleted        int
	errors         []error
}

func newSyncAccumulator() *syncAccumulator {
	return &syncAccumulator{errors: []error{}}
}

func (s *syncAccumulator) merge(res *ImportResult) {
	if res == nil {
		return
	}
	s.coursesCreated += len(res.CreatedCourseIDs)
	s.created += len(res.CreatedLessonIDs)
	s.updated += len(res.UpdatedLessonIDs)
	s.skipped += len(res.SkippedLessonIDs)
	s.errors = append(s.errors, res.Errors...)
}

func (s *syncAccumulator) addError(err error) {
	if err != nil {
		s.errors = append(s.errors, err)
	}
}

func (s *syncAccumulator) result() *SyncResult {
	return &SyncResult{
		CoursesCreated: s.coursesCreated,
		Created:        s.created,
		Updated:        s.updated,
		Skipped:        s.skipped,
		Deleted:        s.deleted,
		Errors:         s.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
