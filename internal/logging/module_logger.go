package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-lms/pkg/interfaces"
)

const (
	rootModule         = "lms"
	catalogModule      = "lms.catalog"
	rosterModule       = "lms.roster"
	enrollmentModule   = "lms.enrollment"
	progressModule     = "lms.progress"
	assessmentModule   = "lms.assessment"
	analyticsModule    = "lms.analytics"
	interactionsModule = "lms.interactions"
	schedulerModule    = "lms.scheduler"
	exportModule       = "lms.export"
	markdownModule     = "lms.markdown"
)

const (
	fieldMarkdownPath   = "markdown_path"
	fieldMarkdownCourse = "course_code"
	fieldMarkdownAction = "sync_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// CatalogLogger returns the logger namespace reserved for catalog services.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// RosterLogger returns the logger namespace reserved for roster services.
func RosterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rosterModule)
}

// EnrollmentLogger returns the logger namespace reserved for enrollment services.
func EnrollmentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, enrollmentModule)
}

// ProgressLogger returns the logger namespace reserved for progress services.
func ProgressLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, progressModule)
}

// AssessmentLogger returns the logger namespace reserved for assessment services.
func AssessmentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assessmentModule)
}

// AnalyticsLogger returns the logger namespace reserved for analytics services.
func AnalyticsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, analyticsModule)
}

// InteractionsLogger returns the logger namespace reserved for the AI interaction log.
func InteractionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, interactionsModule)
}

// SchedulerLogger returns the logger namespace reserved for scheduler workers.
func SchedulerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schedulerModule)
}

// ExportLogger returns the logger namespace reserved for spreadsheet workflows.
func ExportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, exportModule)
}

// MarkdownLogger returns the logger namespace reserved for lesson import workflows.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithMarkdownContext enriches the provided logger with common lesson-import
// fields such as file path, course code, and sync action. Empty values are ignored.
func WithMarkdownContext(logger interfaces.Logger, path, courseCode, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldMarkdownPath] = trimmed
	}
	if trimmed := strings.TrimSpace(courseCode); trimmed != "" {
		fields[fieldMarkdownCourse] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldMarkdownAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
