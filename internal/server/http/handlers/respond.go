package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/metrics"
	"github.com/polkiloo/restaurant/internal/server/http/dto"
	"github.com/polkiloo/restaurant/internal/server/http/middleware"
)

// routeMessages holds the fixed texts a route answers with.
// An empty unauthorized text means authentication failures fall back to failure.
type routeMessages struct {
	route        string
	invalid      string
	unauthorized string
	success      string
	failure      string
}

type responder struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func (r responder) ok(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Message: message})
}

func (r responder) fail(c *gin.Context, msgs routeMessages, err error) {
	kind := domainErrors.KindOf(err)
	status, message := http.StatusInternalServerError, msgs.failure
	switch {
	case kind == domainErrors.KindValidation:
		status, message = http.StatusBadRequest, msgs.invalid
	case kind == domainErrors.KindAuthentication && msgs.unauthorized != "":
		status, message = http.StatusUnauthorized, msgs.unauthorized
	}

	r.metrics.RequestError(msgs.route, kind)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	middleware.LoggerFrom(c.Request.Context(), r.logger).LogAttrs(c.Request.Context(), level, "request failed",
		slog.String("route", msgs.route),
		slog.String("kind", string(kind)),
		slog.Int("status", status),
		slog.Any("error", err),
	)

	c.JSON(status, dto.Response{Success: false, Message: message})
}

// invalidBody wraps a decoding error so it maps to a validation failure.
func invalidBody(err error) error {
	return domainErrors.MissingFields(err)
}
