package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restaurant/internal/metrics"
	"github.com/polkiloo/restaurant/internal/server/http/dto"
)

var (
	registerMessages = routeMessages{
		route:   "/register",
		invalid: "All fields are required.",
		success: "User registered successfully!",
		failure: "User already exists or internal error.",
	}
	loginMessages = routeMessages{
		route:        "/login",
		invalid:      "Username and password required.",
		unauthorized: "Invalid username or password",
		success:      "Login successful!",
		failure:      "Internal server error",
	}
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
	responder
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, m *metrics.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{facade: facade, responder: responder{metrics: m, logger: logger}}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, registerMessages, invalidBody(err))
		return
	}

	if err := h.facade.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		h.fail(c, registerMessages, err)
		return
	}

	h.ok(c, registerMessages.success)
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, loginMessages, invalidBody(err))
		return
	}

	if err := h.facade.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		h.fail(c, loginMessages, err)
		return
	}

	h.ok(c, loginMessages.success)
}
