package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restaurant/internal/config"
	"github.com/polkiloo/restaurant/internal/metrics"
	"github.com/polkiloo/restaurant/internal/server/http/handlers"
	"github.com/polkiloo/restaurant/internal/server/http/middleware"
)

const maxBodyBytes = 1 << 20

// Setup configures gin router with handlers and middleware.
// Forwarding headers are honoured only from cfg.TrustedProxies.
func Setup(facade handlers.RestaurantFacade, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID(logger))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.DecompressRequest(maxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	authHandler := handlers.NewAuthHandler(facade, m, logger)
	orderHandler := handlers.NewOrderHandler(facade, m, logger)
	healthHandler := handlers.NewHealthHandler(facade, logger)

	var loginLimiter *middleware.ClientRateLimiter
	if cfg.LoginRateLimit > 0 {
		loginLimiter = middleware.NewClientRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)
	}

	engine.POST("/register", authHandler.Register)
	engine.POST("/login", middleware.RateLimit(loginLimiter), authHandler.Login)
	engine.POST("/submit-order", orderHandler.Submit)
	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	return engine, nil
}
