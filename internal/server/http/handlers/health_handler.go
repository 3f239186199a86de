package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restaurant/internal/server/http/dto"
	"github.com/polkiloo/restaurant/internal/server/http/middleware"
)

const (
	healthyMessage   = "OK"
	unhealthyMessage = "Service unavailable."
)

// HealthHandler reports service readiness.
type HealthHandler struct {
	facade HealthFacade
	logger *slog.Logger
}

// NewHealthHandler creates HealthHandler instance.
func NewHealthHandler(facade HealthFacade, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{facade: facade, logger: logger}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.facade.HealthCheck(c.Request.Context()); err != nil {
		middleware.LoggerFrom(c.Request.Context(), h.logger).Warn("health check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Message: unhealthyMessage})
		return
	}
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: healthyMessage})
}
