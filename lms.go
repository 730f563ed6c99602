package lms

import (
	"github.com/goliatone/go-lms/internal/analytics"
	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/di"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/export"
	lmshttp "github.com/goliatone/go-lms/internal/http"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/jobs"
	"github.com/goliatone/go-lms/internal/links"
	"github.com/goliatone/go-lms/internal/markdown"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/pkg/activity"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// CatalogService exports the course catalog contract for consumers of the lms package.
type CatalogService = catalog.Service

// RosterService exports the student roster contract.
type RosterService = roster.Service

// EnrollmentService exports the enrollment lifecycle contract.
type EnrollmentService = enrollment.Service

// ProgressService exports the lesson progress contract.
type ProgressService = progress.Service

// AssessmentService exports the assessment and attempt contract.
type AssessmentService = assessment.Service

// InteractionsService exports the AI tutor interaction log contract.
type InteractionsService = interactions.Service

// AnalyticsService exports the derived read model contract.
type AnalyticsService = analytics.Service

// ExportService exports the gradebook spreadsheet writer.
type ExportService = *export.Service

// MarkdownService exports the lesson markdown import helper.
type MarkdownService = *markdown.Service

// JobWorker exports the scheduled maintenance worker.
type JobWorker = *jobs.Worker

// LinkBuilder exports the portal URL resolver.
type LinkBuilder = *links.Builder

// AdminAPI exports the admin HTTP surface.
type AdminAPI = lmshttp.AdminAPI

// AdminOption exports the admin HTTP functional options.
type AdminOption = lmshttp.AdminOption

// Module represents the top level LMS runtime façade.
type Module struct {
	container *di.Container
}

// New constructs an LMS module using the provided configuration and optional
// DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Module{container: di.NewContainer(cfg, opts...)}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Catalog returns the configured course catalog service.
func (m *Module) Catalog() CatalogService {
	return m.container.CatalogService()
}

// Roster returns the configured student roster service.
func (m *Module) Roster() RosterService {
	return m.container.RosterService()
}

// Enrollments returns the configured enrollment service.
func (m *Module) Enrollments() EnrollmentService {
	return m.container.EnrollmentService()
}

// Progress returns the configured lesson progress service.
func (m *Module) Progress() ProgressService {
	return m.container.ProgressService()
}

// Assessments returns the configured assessment service.
func (m *Module) Assessments() AssessmentService {
	return m.container.AssessmentService()
}

// Interactions returns the configured AI interaction log service.
func (m *Module) Interactions() InteractionsService {
	return m.container.InteractionsService()
}

// Analytics returns the configured analytics read models.
func (m *Module) Analytics() AnalyticsService {
	return m.container.AnalyticsService()
}

// Export returns the gradebook export service.
func (m *Module) Export() ExportService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ExportService()
}

// Markdown returns the markdown import service when the feature is enabled.
func (m *Module) Markdown() (MarkdownService, error) {
	return m.container.MarkdownService()
}

// Jobs returns the scheduled maintenance worker.
func (m *Module) Jobs() JobWorker {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.JobWorker()
}

// Scheduler returns the scheduler used for publish and retention automation.
func (m *Module) Scheduler() interfaces.Scheduler {
	return m.container.Scheduler()
}

// ActivityEmitter returns the activity emitter used for audit hooks.
func (m *Module) ActivityEmitter() *activity.Emitter {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ActivityEmitter()
}

// Links returns the portal link builder when navigation is configured.
func (m *Module) Links() LinkBuilder {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LinkBuilder()
}

// AdminAPI builds an admin HTTP API wired to the module services.
func (m *Module) AdminAPI(opts ...AdminOption) *AdminAPI {
	base := []AdminOption{
		lmshttp.WithCatalogService(m.Catalog()),
		lmshttp.WithRosterService(m.Roster()),
		lmshttp.WithEnrollmentService(m.Enrollments()),
		lmshttp.WithProgressService(m.Progress()),
		lmshttp.WithAssessmentService(m.Assessments()),
		lmshttp.WithInteractionsService(m.Interactions()),
		lmshttp.WithAnalyticsService(m.Analytics()),
	}
	return lmshttp.NewAdminAPI(append(base, opts...)...)
}
