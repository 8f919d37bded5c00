package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"bookmarket-backend/internal/shared/authz"
)

type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	Name          string     `json:"name" db:"name"`
	Role          authz.Role `json:"role" db:"role"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	RoleChangedAt *time.Time `json:"role_changed_at,omitempty" db:"role_changed_at"`
}

// DTOs

type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (req RegisterRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Name, validation.Length(0, 120)),
	)
}

// RegisterResponse reports the outcome of the idempotent registration.
// InsertedID is null when the email already had an account.
type RegisterResponse struct {
	InsertedID *uuid.UUID `json:"insertedId"`
	Message    string     `json:"message"`
}

type RoleResponse struct {
	Email string     `json:"email"`
	Role  authz.Role `json:"role"`
}
