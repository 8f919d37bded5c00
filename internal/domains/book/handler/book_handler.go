package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/book/model"
	"bookmarket-backend/internal/domains/book/service"
	"bookmarket-backend/internal/shared/middleware"
	"bookmarket-backend/internal/shared/response"
	"bookmarket-backend/internal/shared/utils"
)

type BookHandler struct {
	service service.BookService
}

func NewBookHandler(service service.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /books. Public; only published books, filtered by
// search (title or author substring), category and minRating.
func (h *BookHandler) List(c *gin.Context) {
	page, size := utils.ParsePagination(c)

	filter := model.ListFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     page,
		Size:     size,
	}

	if v := c.Query("minRating"); v != "" {
		minRating, err := utils.ParseQueryDecimal(v)
		if err != nil {
			response.BadRequest(c, "Invalid minRating")
			return
		}
		filter.MinRating = minRating
	}

	result, err := h.service.ListPublished(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Books, &response.Meta{
		Page:  page,
		Size:  size,
		Total: result.Total,
	})
}

// Latest handles GET /latest-books. Public.
func (h *BookHandler) Latest(c *gin.Context) {
	books, err := h.service.Latest(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, books)
}

// GetByID handles GET /books/:id. Public.
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

// ListAll handles GET /books/all (admin), unpublished included.
func (h *BookHandler) ListAll(c *gin.Context) {
	books, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, books)
}

// Create handles POST /books (librarian+). The bound email becomes the owner.
func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), middleware.BoundEmail(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, b)
}

// Update handles PATCH /books/:id (owner librarian or admin).
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.Update(c.Request.Context(), middleware.BoundEmail(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

// UpdateStatus handles PATCH /books/status/:id (owner librarian or admin).
func (h *BookHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), middleware.BoundEmail(c), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

// Delete handles DELETE /books/delete/:id (admin). Removes the book and
// every order referencing it, and reports both.
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	result, err := h.service.Delete(c.Request.Context(), middleware.BoundEmail(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
