package port

import (
	"context"
	"time"
)

// Span is the tracing handle the core works with, independent of the tracer.
type Span interface {
	End()
	SetAttributes(attrs map[string]interface{})
	SetStatus(code string, message string)
	RecordError(err error)
}

// Telemetry lets the core emit traces, logs and metrics without knowing the implementation.
type Telemetry interface {
	StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, Span)
	StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, Span)

	RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error)
	RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{})

	RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error)

	RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{})
	RecordOwnerValidation(ctx context.Context, ownerID string, outcome string)

	RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{})
}
