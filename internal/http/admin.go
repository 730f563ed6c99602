package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-lms/internal/analytics"
	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
)

// AdminAPI registers admin endpoints for catalog, roster, enrollment,
// progress, assessment, AI interaction, and analytics operations.
type AdminAPI struct {
	basePath     string
	courses      catalog.Service
	students     roster.Service
	enrollments  enrollment.Service
	progress     progress.Service
	assessments  assessment.Service
	interactions interactions.Service
	analytics    analytics.Service
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: "/admin/api",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithCatalogService wires the course catalog service.
func WithCatalogService(service catalog.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.courses = service
		}
	}
}

// WithRosterService wires the student roster service.
func WithRosterService(service roster.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.students = service
		}
	}
}

// WithEnrollmentService wires the enrollment service.
func WithEnrollmentService(service enrollment.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.enrollments = service
		}
	}
}

// WithProgressService wires the lesson progress service.
func WithProgressService(service progress.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.progress = service
		}
	}
}

// WithAssessmentService wires the assessment service.
func WithAssessmentService(service assessment.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.assessments = service
		}
	}
}

// WithInteractionsService wires the AI interactions service.
func WithInteractionsService(service interactions.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.interactions = service
		}
	}
}

// WithAnalyticsService wires the analytics read models.
func WithAnalyticsService(service analytics.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.analytics = service
		}
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerCourseRoutes(mux, base)
	api.registerStudentRoutes(mux, base)
	api.registerEnrollmentRoutes(mux, base)
	api.registerProgressRoutes(mux, base)
	api.registerAssessmentRoutes(mux, base)
	api.registerInteractionRoutes(mux, base)
	api.registerAnalyticsRoutes(mux, base)

	return nil
}
