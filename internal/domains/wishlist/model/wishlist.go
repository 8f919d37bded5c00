package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var (
	ErrAlreadyInWishlist = errors.New("book already in wishlist")
	ErrItemNotFound      = errors.New("wishlist item not found")
)

// WishlistItem pins one book for one user; the pair is unique.
type WishlistItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserEmail string    `json:"userEmail" db:"user_email"`
	BookID    uuid.UUID `json:"bookId" db:"book_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type AddRequest struct {
	Email  string    `json:"email"`
	BookID uuid.UUID `json:"bookId"`
}

func (r AddRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.BookID, validation.By(requireUUID)),
	)
}

func requireUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "is required")
	}
	return nil
}
