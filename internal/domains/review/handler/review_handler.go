package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/review/model"
	"bookmarket-backend/internal/domains/review/service"
	"bookmarket-backend/internal/shared/middleware"
	"bookmarket-backend/internal/shared/response"
)

type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(service service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /reviews. Self-scoped; requires a paid order for
// the book and at most one review per (book, user).
func (h *ReviewHandler) Create(c *gin.Context) {
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rv, err := h.service.Create(c.Request.Context(), middleware.BoundEmail(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rv)
}

// ListByBook handles GET /reviews/:bookId. Public.
func (h *ReviewHandler) ListByBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	reviews, err := h.service.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, reviews)
}

// Eligibility handles GET /user-can-review/:bookId/:email. Public.
func (h *ReviewHandler) Eligibility(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	result, err := h.service.Eligibility(c.Request.Context(), bookID, c.Param("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
