package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-lms/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if fields == nil {
		fields = map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "lms.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	// Ensure WithContext/WithFields do not panic.
	logger = logger.WithContext(context.Background())
	if fl, ok := logger.(interfaces.FieldsLogger); ok {
		logger = fl.WithFields(map[string]any{"foo": "bar"})
	}
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	logger := ModuleLogger(provider, enrollmentModule)

	if len(provider.requested) != 1 || provider.requested[0] != enrollmentModule {
		t.Fatalf("expected module %s, got %v", enrollmentModule, provider.requested)
	}

	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}

	if got, ok := rec.fields[0]["module"]; !ok || got != enrollmentModule {
		t.Fatalf("expected module field %s, got %v", enrollmentModule, rec.fields[0]["module"])
	}

	logger.Info("with provider")
}

func TestModuleLoggerDefaultsModuleName(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithMarkdownContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithMarkdownContext(rec, "lessons/intro.md", "", "create")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one fields application, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldMarkdownPath] != "lessons/intro.md" {
		t.Fatalf("unexpected path field: %v", fields[fieldMarkdownPath])
	}
	if _, ok := fields[fieldMarkdownCourse]; ok {
		t.Fatalf("expected empty course code to be skipped")
	}
	if fields[fieldMarkdownAction] != "create" {
		t.Fatalf("unexpected action field: %v", fields[fieldMarkdownAction])
	}
}
