package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restaurant/internal/domain/model"
	"github.com/polkiloo/restaurant/internal/metrics"
	"github.com/polkiloo/restaurant/internal/server/http/dto"
)

var orderMessages = routeMessages{
	route:   "/submit-order",
	invalid: "Missing order details.",
	success: "Order placed successfully!",
	failure: "Error processing order.",
}

// OrderHandler accepts dish orders.
type OrderHandler struct {
	facade OrderFacade
	responder
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade OrderFacade, m *metrics.Metrics, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{facade: facade, responder: responder{metrics: m, logger: logger}}
}

// Submit handles POST /submit-order.
func (h *OrderHandler) Submit(c *gin.Context) {
	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, orderMessages, invalidBody(err))
		return
	}

	order := model.Order{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Quantity: int(req.Quantity),
		Dish:     req.Dish,
	}
	if err := h.facade.SubmitOrder(c.Request.Context(), order); err != nil {
		h.fail(c, orderMessages, err)
		return
	}

	h.ok(c, orderMessages.success)
}
