package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/order/model"
	"bookmarket-backend/internal/domains/order/service"
	"bookmarket-backend/internal/shared/middleware"
	"bookmarket-backend/internal/shared/response"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders. Self-scoped; new orders start
// (pending, unpaid).
func (h *OrderHandler) Create(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	o, err := h.service.Create(c.Request.Context(), middleware.BoundEmail(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, o)
}

// GetDetail handles GET /orders/:id. Owner only; restricted field set.
func (h *OrderHandler) GetDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), middleware.BoundEmail(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// ListMine handles GET /my-orders/:email. Self-scoped.
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.service.ListMine(c.Request.Context(), middleware.BoundEmail(c), c.Param("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, orders)
}

// ListInvoices handles GET /my-invoices/:email. Self-scoped; paid orders only.
func (h *OrderHandler) ListInvoices(c *gin.Context) {
	orders, err := h.service.ListInvoices(c.Request.Context(), middleware.BoundEmail(c), c.Param("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, orders)
}

// ListForLibrarian handles GET /librarian-orders/:email (librarian+).
func (h *OrderHandler) ListForLibrarian(c *gin.Context) {
	orders, err := h.service.ListForLibrarian(c.Request.Context(), middleware.BoundEmail(c), c.Param("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, orders)
}

// UpdateStatus handles PATCH /orders/update-status/:id (librarian+).
// Fulfillment only; payment status is never touched here.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	o, err := h.service.UpdateFulfillment(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, o)
}

// Cancel handles PATCH /orders/cancel/:id. Purchaser only.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return
	}

	o, err := h.service.Cancel(c.Request.Context(), middleware.BoundEmail(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, o)
}

// PaymentSuccess handles PATCH /orders/payment-success/:id. Purchaser only.
func (h *OrderHandler) PaymentSuccess(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return
	}

	// An empty body is a valid confirmation without a session id.
	var req model.PaymentSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	o, err := h.service.ConfirmPayment(c.Request.Context(), middleware.BoundEmail(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, o)
}
