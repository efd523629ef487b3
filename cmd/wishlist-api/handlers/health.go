package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/common/logger"
)

// HealthChecker reports whether the service's dependencies are reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler serves the liveness probe
type HealthHandler struct {
	service string
	checker HealthChecker
	log     *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service string, checker HealthChecker, log *logger.Logger) *HealthHandler {
	return &HealthHandler{service: service, checker: checker, log: log}
}

// Health pings the database and Redis
// GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	if err := h.checker.Health(c.Request().Context()); err != nil {
		h.log.WithContext(c.Request().Context()).Warn("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": h.service,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
	})
}
