package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "lms.logging.fields"

// ContextWithFields returns a context carrying structured logging fields.
// Fields already present on the context are kept; new keys win on conflict.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts annotated logging fields from the context. The
// returned map is a copy; callers may mutate it freely.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}

	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
