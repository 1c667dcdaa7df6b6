package helper

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/model/response"
)

func TestProblem_StatusByKind(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", domain.NewPropertyNotFound(id), http.StatusNotFound},
		{"owner not found", domain.NewOwnerNotFound(id), http.StatusBadRequest},
		{"validation", domain.NewValidationError(map[string]string{"name": "name must not be blank"}), http.StatusBadRequest},
		{"conflict", domain.NewEmailConflict("a@example.com", nil), http.StatusConflict},
		{"unavailable", domain.NewUserServiceUnavailable(errors.New("refused")), http.StatusServiceUnavailable},
		{"dependency", domain.NewDependencyError(errors.New("bad body")), http.StatusInternalServerError},
		{"untagged", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problem := Problem(tc.err, "/api/v1/properties")

			assert.Equal(t, tc.status, problem.Status)
			assert.Equal(t, "/api/v1/properties", problem.Instance)
			assert.NotEmpty(t, problem.Timestamp)
		})
	}
}

func TestProblem_Details(t *testing.T) {
	RegisterTestingT(t)
	id := uuid.New()

	owner := Problem(domain.NewOwnerNotFound(id), "/")
	Expect(owner.Detail).To(Equal("Owner with id " + id.String() + " not found"))
	Expect(owner.InvalidParams).To(BeNil())

	invalid := Problem(domain.NewValidationError(map[string]string{"name": "name must not be blank"}), "/")
	Expect(invalid.Title).To(Equal("Validation Error"))
	Expect(invalid.Detail).To(Equal("Invalid request parameters"))
	Expect(invalid.InvalidParams).To(HaveKeyWithValue("name", "name must not be blank"))

	internal := Problem(errors.New("secret connection string"), "/")
	Expect(internal.Detail).ToNot(ContainSubstring("secret"))

	dependency := Problem(domain.NewDependencyError(errors.New("bad body")), "/")
	Expect(dependency.Detail).To(Equal("Error communicating with dependent service"))
}

func TestSendError_WritesProblemJSON(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/properties/x", nil)

	SendError(c, domain.NewPropertyNotFound(uuid.New()))

	Expect(w.Code).To(Equal(http.StatusNotFound))
	Expect(w.Header().Get("Content-Type")).To(Equal(ProblemContentType))

	var body response.ProblemDetail
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Instance).To(Equal("/api/v1/properties/x"))
	Expect(body.Status).To(Equal(http.StatusNotFound))
}

func TestBindError(t *testing.T) {
	RegisterTestingT(t)

	kind := domain.NewValidationError(map[string]string{"propertyType": "bad"})
	Expect(BindError(kind, "body")).To(BeIdenticalTo(kind))

	err := BindError(&json.UnmarshalTypeError{Field: "maxGuests", Value: "string", Type: reflect.TypeOf(0)}, "body")
	Expect(domain.KindOf(err)).To(Equal(domain.KindValidation))

	var domainErr *domain.Error
	Expect(errors.As(err, &domainErr)).To(BeTrue())
	Expect(domainErr.Fields).To(HaveKeyWithValue("maxGuests", "maxGuests must be an integer"))

	err = BindError(&json.UnmarshalTypeError{Field: "pricePerNight", Value: "value \"abc\"", Type: reflect.TypeOf(request.Price{})}, "body")
	Expect(errors.As(err, &domainErr)).To(BeTrue())
	Expect(domainErr.Fields).To(Equal(map[string]string{"pricePerNight": "pricePerNight must be a decimal number"}))
}
