package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"bookingapp/pkg/config"
	"bookingapp/pkg/tracing"
)

func TestSetupGinMiddleware_RecordsStatusLabel(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	metrics := tracing.NewAppMetrics(registry)

	router := gin.New()
	SetupGinMiddleware(router, "test", metrics, config.NewNopLogger())

	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	Expect(w.Code).To(Equal(http.StatusTeapot))
	Expect(w.Header().Get("X-RateLimit-Limit")).ToNot(BeEmpty())

	families, err := registry.Gather()
	Expect(err).ToNot(HaveOccurred())

	var status string

	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}

		for _, label := range family.GetMetric()[0].GetLabel() {
			if label.GetName() == "status" {
				status = label.GetValue()
			}
		}
	}

	Expect(status).To(Equal("418"))
}

func TestHTTPSEnforcer_Redirects(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	cfg.EnforceHTTPS = true
	cfg.RateLimitEnabled = false

	router := gin.New()
	SetupGinMiddlewareWithConfig(router, "test", nil, config.NewNopLogger(), cfg)
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "http://booking.example.com/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusMovedPermanently))
	Expect(w.Header().Get("Location")).To(Equal("https://booking.example.com/ping"))

	forwarded := httptest.NewRequest(http.MethodGet, "http://booking.example.com/ping", nil)
	forwarded.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, forwarded)

	Expect(w.Code).To(Equal(http.StatusOK))
}
