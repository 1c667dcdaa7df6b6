package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"

	"bookingapp/internal/adapter/http/validation"
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/model/response"
)

const ProblemContentType = "application/problem+json"

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindOwnerNotFound, domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Problem translates any error returned by a service into the problem
// document sent to clients. It is the only place where error kinds become
// status codes.
func Problem(err error, path string) response.ProblemDetail {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	problem := response.ProblemDetail{
		Type:      "about:blank",
		Title:     http.StatusText(status),
		Status:    status,
		Instance:  path,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}

	var domainErr *domain.Error

	switch {
	case kind == domain.KindValidation:
		problem.Title = "Validation Error"
		problem.Detail = "Invalid request parameters"

		if errors.As(err, &domainErr) {
			problem.InvalidParams = domainErr.Fields
		}
	case kind == domain.KindInternal:
		problem.Detail = "An unexpected error occurred"
	case errors.As(err, &domainErr):
		problem.Detail = domainErr.Message
	}

	return problem
}

func SendError(c *gin.Context, err error) {
	problem := Problem(err, c.Request.URL.Path)

	if problem.Status >= http.StatusInternalServerError {
		c.Error(err)
	}

	body, _ := json.Marshal(problem)
	c.Data(problem.Status, ProblemContentType, body)
}

// BindError converts a request decoding failure into a validation error.
// Errors that already carry a kind, such as an unknown property type, pass
// through unchanged.
func BindError(err error, field string) error {
	if domain.KindOf(err) == domain.KindValidation {
		return err
	}

	var typeErr *json.UnmarshalTypeError

	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			field = typeErr.Field
		}

		return domain.NewValidationError(map[string]string{
			field: fmt.Sprintf("%s must be %s", field, describeType(typeErr.Type)),
		})
	}

	var fields map[string]string

	if validationFields := validation.FormatValidationErrors(err); len(validationFields) > 0 {
		fields = validationFields
	} else {
		fields = map[string]string{field: err.Error()}
	}

	return domain.NewValidationError(fields)
}

var priceType = reflect.TypeOf(request.Price{})

func describeType(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}

	if t == priceType {
		return "a decimal number"
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a valid value"
	}
}

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}
