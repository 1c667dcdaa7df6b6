package telemetry

import (
	"context"
	"time"

	"bookingapp/internal/core/port"
)

// NoOpProbe implements Telemetry with no operations, for tests or when telemetry is disabled.
type NoOpProbe struct{}

func NewNoOpProbe() port.Telemetry {
	return &NoOpProbe{}
}

type NoOpSpan struct{}

func (s *NoOpSpan) End()                                       {}
func (s *NoOpSpan) SetAttributes(attrs map[string]interface{}) {}
func (s *NoOpSpan) SetStatus(code string, message string)      {}
func (s *NoOpSpan) RecordError(err error)                      {}

func (p *NoOpProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	return ctx, &NoOpSpan{}
}

func (p *NoOpProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	return ctx, &NoOpSpan{}
}

func (p *NoOpProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
}

func (p *NoOpProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
}

func (p *NoOpProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
}

func (p *NoOpProbe) RecordOwnerValidation(ctx context.Context, ownerID string, outcome string) {}

func (p *NoOpProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
}

// Operation measures one repository or service call and reports it on End.
type Operation struct {
	probe     port.Telemetry
	ctx       context.Context
	span      port.Span
	startTime time.Time
	scope     string
	name      string
	component string
}

// StartRepositoryOperation opens a repository span and starts the clock.
func StartRepositoryOperation(probe port.Telemetry, ctx context.Context, operation, entity string, attrs map[string]interface{}) (context.Context, *Operation) {
	ctx, span := probe.StartRepositorySpan(ctx, operation, entity, attrs)

	return ctx, &Operation{
		probe:     probe,
		ctx:       ctx,
		span:      span,
		startTime: time.Now(),
		scope:     entity,
		name:      operation,
		component: "repository",
	}
}

func StartServiceOperation(probe port.Telemetry, ctx context.Context, service, operation string, attrs map[string]interface{}) (context.Context, *Operation) {
	ctx, span := probe.StartServiceSpan(ctx, service, operation, attrs)

	return ctx, &Operation{
		probe:     probe,
		ctx:       ctx,
		span:      span,
		startTime: time.Now(),
		scope:     service,
		name:      operation,
		component: "service",
	}
}

func (op *Operation) SetAttributes(attrs map[string]interface{}) {
	op.span.SetAttributes(attrs)
}

// End records the outcome and closes the span. It returns err unchanged.
func (op *Operation) End(err error) error {
	duration := time.Since(op.startTime)

	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus("error", err.Error())
	} else {
		op.span.SetStatus("ok", "")
	}

	if op.component == "repository" {
		op.probe.RecordRepositoryOperation(op.ctx, op.name, op.scope, duration, err)
	} else {
		op.probe.RecordServiceOperation(op.ctx, op.scope, op.name, duration, err)
	}

	op.span.End()

	return err
}
