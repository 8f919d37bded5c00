package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// CheckoutRequest asks for a hosted payment page for one book.
type CheckoutRequest struct {
	BookID uuid.UUID `json:"bookId"`
	Email  string    `json:"email"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(requireUUID)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

func requireUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "is required")
	}
	return nil
}

// CheckoutResponse hands the client the provider redirect.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
