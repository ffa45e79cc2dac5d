package tracing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/looplj/anonhub/internal/contexts"
)

// GenerateTraceID generate trace id, format as ah-{{uuid}}.
func GenerateTraceID() string {
	id := uuid.New()
	return fmt.Sprintf("ah-%s", id.String())
}

// GenerateRunID generate pipeline run id, format as run-{{uuid}}.
func GenerateRunID() string {
	id := uuid.New()
	return fmt.Sprintf("run-%s", id.String())
}

// WithTraceID store trace id to context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return contexts.WithTraceID(ctx, traceID)
}

// GetTraceID get trace id from context.
func GetTraceID(ctx context.Context) (string, bool) {
	return contexts.GetTraceID(ctx)
}

// WithRunID store pipeline run id to context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return contexts.WithRunID(ctx, runID)
}

// GetRunID get pipeline run id from context.
func GetRunID(ctx context.Context) (string, bool) {
	return contexts.GetRunID(ctx)
}

// WithOperationName store operation name to context.
func WithOperationName(ctx context.Context, name string) context.Context {
	return contexts.WithOperationName(ctx, name)
}

// GetOperationName get operation name from context.
func GetOperationName(ctx context.Context) (string, bool) {
	return contexts.GetOperationName(ctx)
}
