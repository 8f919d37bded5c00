package repository

import (
	"context"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/user/model"
	"bookmarket-backend/internal/shared/authz"
)

// UserRepository is the persistence contract for user records.
type UserRepository interface {
	// Create inserts the user unless the email already exists; it returns
	// model.ErrUserExists in that case and leaves the stored record alone.
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role authz.Role) error
}
