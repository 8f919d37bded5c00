package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookmarket-backend/internal/domains/payment/model"
	"bookmarket-backend/internal/domains/payment/service"
	"bookmarket-backend/internal/shared/middleware"
	"bookmarket-backend/internal/shared/response"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(service service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// CreateSession handles POST /create-checkout-session. Self-scoped; returns
// the provider redirect URL without touching any order.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.CreateSession(c.Request.Context(), middleware.BoundEmail(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
