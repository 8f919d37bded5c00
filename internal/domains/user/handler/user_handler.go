package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/user/service"
	"bookmarket-backend/internal/shared/authz"
	"bookmarket-backend/internal/shared/middleware"
	"bookmarket-backend/internal/shared/response"

	"bookmarket-backend/internal/domains/user/model"
)

// UserHandler is the thin HTTP layer over the user service.
type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /users. Public and idempotent: registering an
// existing email succeeds with insertedId null.
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusCreated
	if result.InsertedID == nil {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// GetRole handles GET /users/role/:email. Self-scoped: the path email must
// match the bound identity.
func (h *UserHandler) GetRole(c *gin.Context) {
	email := c.Param("email")
	if err := authz.RequireSelf(middleware.BoundEmail(c), email); err != nil {
		response.FromError(c, err)
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), email)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, role)
}

// ListUsers handles GET /users (admin).
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, users)
}

// MakeLibrarian handles PATCH /users/make-librarian/:id (admin).
func (h *UserHandler) MakeLibrarian(c *gin.Context) {
	h.changeRole(c, authz.RoleLibrarian)
}

// MakeAdmin handles PATCH /users/make-admin/:id (admin).
func (h *UserHandler) MakeAdmin(c *gin.Context) {
	h.changeRole(c, authz.RoleAdmin)
}

func (h *UserHandler) changeRole(c *gin.Context, role authz.Role) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user id")
		return
	}

	u, err := h.service.ChangeRole(c.Request.Context(), id, role)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, u)
}
