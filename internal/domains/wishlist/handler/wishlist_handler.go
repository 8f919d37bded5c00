package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/wishlist/model"
	"bookmarket-backend/internal/domains/wishlist/service"
	"bookmarket-backend/internal/shared/middleware"
	"bookmarket-backend/internal/shared/response"
)

type WishlistHandler struct {
	service service.WishlistService
}

func NewWishlistHandler(service service.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// Add handles POST /wishlist. Self-scoped.
func (h *WishlistHandler) Add(c *gin.Context) {
	var req model.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.service.Add(c.Request.Context(), middleware.BoundEmail(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

// List handles GET /wishlist/:email. Self-scoped.
func (h *WishlistHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), middleware.BoundEmail(c), c.Param("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// Remove handles DELETE /wishlist/:id. Only the item's owner may delete it.
func (h *WishlistHandler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid wishlist item id")
		return
	}

	if err := h.service.Remove(c.Request.Context(), middleware.BoundEmail(c), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
