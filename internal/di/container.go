// Package di wires the LMS modules into a single dependency container.
// Memory-backed repositories are the default; WithBunDB swaps in the bun
// repositories and, when caching is enabled, the repository-cache wrappers.
package di

import (
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	cacheadapters "github.com/goliatone/go-lms/internal/adapters/cache"
	"github.com/goliatone/go-lms/internal/analytics"
	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/export"
	"github.com/goliatone/go-lms/internal/identity"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/jobs"
	"github.com/goliatone/go-lms/internal/links"
	"github.com/goliatone/go-lms/internal/logging/console"
	"github.com/goliatone/go-lms/internal/logging/gologger"
	"github.com/goliatone/go-lms/internal/markdown"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
	"github.com/goliatone/go-lms/internal/runtimeconfig"
	"github.com/goliatone/go-lms/internal/scheduler"
	"github.com/goliatone/go-lms/internal/validation"
	"github.com/goliatone/go-lms/pkg/activity"
	"github.com/goliatone/go-lms/pkg/interfaces"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	logger        interfaces.LoggerProvider
	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	cacheProvider interfaces.CacheProvider

	courseRepo      catalog.CourseRepository
	lessonRepo      catalog.LessonRepository
	studentRepo     roster.StudentRepository
	consentRepo     roster.ConsentRepository
	enrollmentRepo  enrollment.Repository
	progressRepo    progress.Repository
	assessmentRepo  assessment.AssessmentRepository
	attemptRepo     assessment.AttemptRepository
	interactionRepo interactions.Repository

	schedulerImpl interfaces.Scheduler
	activityHooks activity.Hooks
	emitter       *activity.Emitter
	linkBuilder   *links.Builder

	catalogSvc      catalog.Service
	rosterSvc       roster.Service
	enrollmentSvc   enrollment.Service
	progressSvc     progress.Service
	assessmentSvc   assessment.Service
	interactionsSvc interactions.Service
	analyticsSvc    analytics.Service
	markdownSvc     *markdown.Service
	markdownErr     error
	exportSvc       *export.Service
	worker          *jobs.Worker
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.logger = provider
	}
}

// WithBunDB switches repositories from memory to the bun-backed implementations.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCacheProvider overrides the cache used by the analytics read models.
func WithCacheProvider(provider interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.cacheProvider = provider
	}
}

// WithScheduler overrides the default in-memory scheduler.
func WithScheduler(sched interfaces.Scheduler) Option {
	return func(c *Container) {
		c.schedulerImpl = sched
	}
}

// WithActivityHooks registers hooks that receive domain activity events.
func WithActivityHooks(hooks ...activity.Hook) Option {
	return func(c *Container) {
		c.activityHooks = append(c.activityHooks, hooks...)
	}
}

// WithCatalogService overrides the default catalog service binding.
func WithCatalogService(svc catalog.Service) Option {
	return func(c *Container) {
		c.catalogSvc = svc
	}
}

// WithRosterService overrides the default roster service binding.
func WithRosterService(svc roster.Service) Option {
	return func(c *Container) {
		c.rosterSvc = svc
	}
}

// WithEnrollmentService overrides the default enrollment service binding.
func WithEnrollmentService(svc enrollment.Service) Option {
	return func(c *Container) {
		c.enrollmentSvc = svc
	}
}

// WithProgressService overrides the default progress service binding.
func WithProgressService(svc progress.Service) Option {
	return func(c *Container) {
		c.progressSvc = svc
	}
}

// WithAssessmentService overrides the default assessment service binding.
func WithAssessmentService(svc assessment.Service) Option {
	return func(c *Container) {
		c.assessmentSvc = svc
	}
}

// WithInteractionsService overrides the default AI interactions service binding.
func WithInteractionsService(svc interactions.Service) Option {
	return func(c *Container) {
		c.interactionsSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) *Container {
	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:          cfg,
		cacheTTL:        cacheTTL,
		courseRepo:      catalog.NewMemoryCourseRepository(),
		lessonRepo:      catalog.NewMemoryLessonRepository(),
		studentRepo:     roster.NewMemoryStudentRepository(),
		consentRepo:     roster.NewMemoryConsentRepository(),
		enrollmentRepo:  enrollment.NewMemoryRepository(),
		progressRepo:    progress.NewMemoryRepository(),
		assessmentRepo:  assessment.NewMemoryAssessmentRepository(),
		attemptRepo:     assessment.NewMemoryAttemptRepository(),
		interactionRepo: interactions.NewMemoryRepository(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureNavigation()
	c.configureScheduler()
	c.configureEmitter()
	c.configureServices()

	return c
}

func (c *Container) configureLogging() {
	if c.logger != nil {
		return
	}

	switch c.Config.Logging.Provider {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err == nil {
			c.logger = provider
			return
		}
	}
	c.logger = console.NewProvider(console.Options{})
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cacheCfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}

	if c.cacheProvider == nil {
		c.cacheProvider = cacheadapters.NewMemory()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	c.courseRepo = catalog.NewBunCourseRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.lessonRepo = catalog.NewBunLessonRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.studentRepo = roster.NewBunStudentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.consentRepo = roster.NewBunConsentRepository(c.bunDB)
	c.enrollmentRepo = enrollment.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.progressRepo = progress.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.assessmentRepo = assessment.NewBunAssessmentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.attemptRepo = assessment.NewBunAttemptRepository(c.bunDB)
	c.interactionRepo = interactions.NewBunRepository(c.bunDB)
}

func (c *Container) configureNavigation() {
	if c.linkBuilder != nil || c.Config.Navigation.RouteConfig == nil {
		return
	}

	builder, err := links.FromRuntime(c.Config.Navigation)
	if err != nil {
		return
	}
	c.linkBuilder = builder
}

func (c *Container) configureScheduler() {
	if c.schedulerImpl != nil {
		return
	}
	if !c.Config.Features.Scheduling {
		c.schedulerImpl = scheduler.NewNoOp()
		return
	}
	c.schedulerImpl = scheduler.NewInMemory()
}

func (c *Container) configureEmitter() {
	if c.emitter != nil {
		return
	}
	c.emitter = activity.NewEmitter(c.activityHooks, activity.Config{
		Enabled: len(c.activityHooks) > 0,
		Channel: "lms",
	})
}

func (c *Container) configureServices() {
	if c.catalogSvc == nil {
		c.catalogSvc = catalog.NewService(
			c.courseRepo,
			c.lessonRepo,
			catalog.WithLogger(c.logger),
			catalog.WithScheduler(c.schedulerImpl),
			catalog.WithRequireLessons(c.Config.Catalog.RequireLessons),
			catalog.WithDefaultCapacity(c.Config.Catalog.DefaultCapacity),
			catalog.WithCourseIDDeriver(identity.CourseUUID),
			catalog.WithLessonIDDeriver(identity.LessonUUID),
			catalog.WithRenderer(markdown.NewRenderer(markdown.NewGoldmarkParser(markdownParseOptions(c.Config.Markdown.Parser)))),
		)
	}

	if c.rosterSvc == nil {
		c.rosterSvc = roster.NewService(
			c.studentRepo,
			c.consentRepo,
			roster.WithLogger(c.logger),
			roster.WithMinimumSelfConsentAge(c.Config.Consent.MinimumSelfConsentAge),
			roster.WithActivityEmitter(c.emitter),
		)
	}

	if c.enrollmentSvc == nil {
		c.enrollmentSvc = enrollment.NewService(
			c.enrollmentRepo,
			c.catalogSvc,
			c.rosterSvc,
			enrollment.WithLogger(c.logger),
			enrollment.WithScheduler(c.schedulerImpl),
			enrollment.WithActivityEmitter(c.emitter),
		)
	}

	if c.progressSvc == nil {
		c.progressSvc = progress.NewService(
			c.progressRepo,
			c.enrollmentSvc,
			c.catalogSvc,
			progress.WithLogger(c.logger),
			progress.WithActivityEmitter(c.emitter),
		)
	}

	if c.assessmentSvc == nil {
		if !c.Config.Features.Assessments {
			c.assessmentSvc = assessment.NewNoOpService()
		} else {
			c.assessmentSvc = assessment.NewService(
				c.assessmentRepo,
				c.attemptRepo,
				c.catalogSvc,
				c.enrollmentSvc,
				assessment.WithLogger(c.logger),
				assessment.WithScheduler(c.schedulerImpl),
				assessment.WithActivityEmitter(c.emitter),
				assessment.WithQuestionValidator(validation.NewQuestionSchemaValidator()),
				assessment.WithGradingDefaults(
					c.Config.Grading.PassingScore,
					c.Config.Grading.MaxAttempts,
					c.Config.Grading.DefaultTimeLimit,
				),
				assessment.WithAttemptRetention(c.Config.Retention.AttemptDays),
			)
		}
	}

	if c.interactionsSvc == nil {
		if !c.Config.Features.AIInteractions {
			c.interactionsSvc = interactions.NewNoOpService()
		} else {
			c.interactionsSvc = interactions.NewService(
				c.interactionRepo,
				c.rosterSvc,
				interactions.WithLogger(c.logger),
				interactions.WithRetentionDays(c.Config.Retention.InteractionDays),
				interactions.WithConsentRequired(c.Config.Consent.RequireAIConsent),
			)
		}
	}

	if c.analyticsSvc == nil && !c.Config.Features.Analytics {
		c.analyticsSvc = analytics.NewNoOpService()
	}
	if c.analyticsSvc == nil {
		analyticsOpts := []analytics.ServiceOption{
			analytics.WithLogger(c.logger),
			analytics.WithAtRiskThresholds(
				c.Config.Analytics.AtRiskProgressThreshold,
				c.Config.Analytics.AtRiskInactivity,
			),
		}
		if c.cacheProvider != nil {
			analyticsOpts = append(analyticsOpts, analytics.WithCache(c.cacheProvider, c.Config.Analytics.OverviewTTL))
		}
		c.analyticsSvc = analytics.NewService(
			c.catalogSvc,
			c.rosterSvc,
			c.enrollmentSvc,
			c.progressSvc,
			c.assessmentSvc,
			analyticsOpts...,
		)
	}

	if c.exportSvc == nil && c.Config.Features.Export {
		exportOpts := []export.Option{
			export.WithLogger(c.logger),
		}
		if name := c.Config.Export.SheetName; name != "" {
			exportOpts = append(exportOpts, export.WithSheetName(name))
		}
		if c.linkBuilder != nil {
			exportOpts = append(exportOpts, export.WithLinkBuilder(c.linkBuilder))
		}
		c.exportSvc = export.NewService(
			c.catalogSvc,
			c.rosterSvc,
			c.enrollmentSvc,
			c.progressSvc,
			c.assessmentSvc,
			exportOpts...,
		)
	}

	if c.worker == nil {
		c.worker = jobs.NewWorker(
			c.schedulerImpl,
			c.catalogSvc,
			c.enrollmentSvc,
			c.assessmentSvc,
			c.interactionsSvc,
			jobs.WithLogger(c.logger),
			jobs.WithActivityEmitter(c.emitter),
		)
	}
}

func markdownParseOptions(cfg runtimeconfig.MarkdownParserConfig) markdown.ParseOptions {
	return markdown.ParseOptions{
		Extensions: cfg.Extensions,
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}

// LoggerProvider exposes the configured logging provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.logger
}

// Scheduler exposes the configured scheduler.
func (c *Container) Scheduler() interfaces.Scheduler {
	return c.schedulerImpl
}

// ActivityEmitter exposes the configured activity emitter.
func (c *Container) ActivityEmitter() *activity.Emitter {
	return c.emitter
}

// LinkBuilder exposes the portal URL builder. Nil when navigation is not configured.
func (c *Container) LinkBuilder() *links.Builder {
	return c.linkBuilder
}

// CatalogService returns the configured catalog service.
func (c *Container) CatalogService() catalog.Service {
	return c.catalogSvc
}

// RosterService returns the configured roster service.
func (c *Container) RosterService() roster.Service {
	return c.rosterSvc
}

// EnrollmentService returns the configured enrollment service.
func (c *Container) EnrollmentService() enrollment.Service {
	return c.enrollmentSvc
}

// ProgressService returns the configured progress service.
func (c *Container) ProgressService() progress.Service {
	return c.progressSvc
}

// AssessmentService returns the configured assessment service.
func (c *Container) AssessmentService() assessment.Service {
	return c.assessmentSvc
}

// InteractionsService returns the configured AI interactions service.
func (c *Container) InteractionsService() interactions.Service {
	return c.interactionsSvc
}

// AnalyticsService returns the configured analytics service.
func (c *Container) AnalyticsService() analytics.Service {
	return c.analyticsSvc
}

// ExportService returns the configured spreadsheet export service.
func (c *Container) ExportService() *export.Service {
	return c.exportSvc
}

// JobWorker returns the worker that drains scheduled jobs.
func (c *Container) JobWorker() *jobs.Worker {
	return c.worker
}

// MarkdownService lazily constructs the lesson ingestion service. It errors
// when markdown support is disabled or the content directory is unusable.
func (c *Container) MarkdownService() (*markdown.Service, error) {
	if c.markdownSvc != nil || c.markdownErr != nil {
		return c.markdownSvc, c.markdownErr
	}
	if !c.Config.Markdown.Enabled {
		c.markdownErr = markdown.ErrDisabled
		return nil, c.markdownErr
	}

	svc, err := markdown.NewService(
		markdown.ConfigFromRuntime(c.Config.Markdown),
		c.catalogSvc,
		c.logger,
	)
	if err != nil {
		c.markdownErr = err
		return nil, err
	}
	c.markdownSvc = svc
	return c.markdownSvc, nil
}
