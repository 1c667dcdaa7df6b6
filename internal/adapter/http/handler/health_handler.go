package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookingapp/internal/core/model/response"
)

// DatabasePing reports whether the store is reachable.
type DatabasePing func(ctx context.Context) error

type HealthHandler struct {
	service string
	ping    DatabasePing
}

func NewHealthHandler(service string, ping DatabasePing) *HealthHandler {
	return &HealthHandler{service: service, ping: ping}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	health := response.HealthResponse{
		Status:   "UP",
		Service:  h.service,
		Database: "UP",
	}

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			health.Status = "DOWN"
			health.Database = "DOWN"

			c.Error(err)
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
	}

	c.JSON(http.StatusOK, health)
}
