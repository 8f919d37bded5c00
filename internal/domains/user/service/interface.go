package service

import (
	"context"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/user/model"
	"bookmarket-backend/internal/shared/authz"
)

// UserService is the business-logic contract for the user domain.
type UserService interface {
	// Register creates the account on first sight of the email and is a
	// no-op success on repeats.
	Register(ctx context.Context, req model.RegisterRequest) (*model.RegisterResponse, error)
	GetRole(ctx context.Context, email string) (*model.RoleResponse, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role authz.Role) (*model.User, error)

	// RoleLookup adapts this service for the authorization policy.
	RoleLookup(ctx context.Context, email string) (authz.Role, error)
}
