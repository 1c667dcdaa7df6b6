package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/port"
	"bookingapp/pkg/tracing"
)

const tracerName = "bookingapp"

// OTELProbe implements Telemetry using OpenTelemetry, otelzap and the Prometheus app metrics.
type OTELProbe struct {
	logger  *otelzap.Logger
	metrics *tracing.AppMetrics
}

func NewOTELProbe(logger *otelzap.Logger, metrics *tracing.AppMetrics) port.Telemetry {
	return &OTELProbe{
		logger:  logger,
		metrics: metrics,
	}
}

// OTelSpan wraps an OpenTelemetry span behind port.Span.
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code

	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}

	s.span.SetStatus(statusCode, message)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			out = append(out, attribute.String(key, v))
		case int:
			out = append(out, attribute.Int(key, v))
		case int64:
			out = append(out, attribute.Int64(key, v))
		case float64:
			out = append(out, attribute.Float64(key, v))
		case bool:
			out = append(out, attribute.Bool(key, v))
		case fmt.Stringer:
			out = append(out, attribute.String(key, v.String()))
		default:
			out = append(out, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return out
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := append([]attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := append([]attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity)
	}

	if err == nil || domain.KindOf(err) != domain.KindInternal {
		return
	}

	p.logger.Ctx(ctx).Error("Repository operation failed",
		zap.String("operation", operation),
		zap.String("entity", entity),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
}

func (p *OTELProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
	argTypes := make([]string, len(args))

	for i := range args {
		argTypes[i] = fmt.Sprintf("%T", args[i])
	}

	p.logger.Ctx(ctx).Debug("Executing repository query",
		zap.String("operation", operation),
		zap.String("entity", entity),
		zap.String("query", query),
		zap.Strings("args_types", argTypes),
	)
}

func (p *OTELProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("service", service),
		zap.String("operation", operation),
		zap.Duration("duration", duration),
	}

	if err == nil {
		p.logger.Ctx(ctx).Debug("Service operation completed", fields...)
		return
	}

	fields = append(fields, zap.Error(err), zap.String("error_kind", domain.KindOf(err).String()))

	switch domain.KindOf(err) {
	case domain.KindInternal, domain.KindDependency, domain.KindUnavailable:
		p.logger.Ctx(ctx).Error("Service operation failed", fields...)
	default:
		p.logger.Ctx(ctx).Info("Service operation rejected", fields...)
	}
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(event, trace.WithAttributes(append(toAttributes(metadata),
		attribute.String("entity", entity),
		attribute.String("entity_id", entityID),
	)...))

	if p.metrics != nil {
		switch entity {
		case "property":
			p.metrics.RecordPropertyOperation(ctx, event)
		case "user":
			p.metrics.RecordUserOperation(ctx, event)
		}
	}

	p.logger.Ctx(ctx).Info("Business event recorded",
		zap.String("event", event),
		zap.String("entity", entity),
		zap.String("entity_id", entityID),
		zap.Any("metadata", metadata),
	)
}

func (p *OTELProbe) RecordOwnerValidation(ctx context.Context, ownerID string, outcome string) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("owner.id", ownerID),
		attribute.String("owner.validation", outcome),
	)

	if p.metrics != nil {
		p.metrics.RecordOwnerValidation(ctx, outcome)
	}

	p.logger.Ctx(ctx).Info("Owner validated",
		zap.String("owner_id", ownerID),
		zap.String("outcome", outcome),
	)
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	p.logger.Ctx(ctx).Error("Operation error recorded",
		zap.String("operation", operation),
		zap.Error(err),
		zap.Any("metadata", metadata),
	)
}
