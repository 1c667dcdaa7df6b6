package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bookingapp/internal/core/domain"
	. "bookingapp/pkg/tracing"
)

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))

	if err != nil {
		return uuid.Nil, domain.NewValidationError(map[string]string{
			name: fmt.Sprintf("%s must be a valid UUID", name),
		})
	}

	return id, nil
}

func queryBool(c *gin.Context, name string) (bool, error) {
	value, err := strconv.ParseBool(c.Query(name))

	if err != nil {
		return false, domain.NewValidationError(map[string]string{
			name: fmt.Sprintf("%s must be true or false", name),
		})
	}

	return value, nil
}

func startSpan(c *gin.Context, name string) trace.Span {
	ctx, span := CreateChildSpan(c.Request.Context(), name, []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	c.Request = c.Request.WithContext(ctx)

	return span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		AddSpanError(span, err)
	}

	span.End()
}
