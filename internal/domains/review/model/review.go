package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var (
	ErrAlreadyReviewed = errors.New("user already reviewed this book")
	ErrReviewNotFound  = errors.New("review not found")
)

// Review is immutable once written; ratings feed the book's aggregate.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookID    uuid.UUID `json:"bookId" db:"book_id"`
	UserEmail string    `json:"userEmail" db:"user_email"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreateReviewRequest struct {
	BookID  uuid.UUID `json:"bookId"`
	Email   string    `json:"email"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(requireUUID)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Length(0, 2000)),
	)
}

func requireUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "is required")
	}
	return nil
}

// Eligibility reason tags.
const (
	ReasonNotOrdered      = "NOT_ORDERED"
	ReasonAlreadyReviewed = "ALREADY_REVIEWED"
)

// EligibilityResponse answers "may this user review this book"; when the
// user already reviewed it, the existing review rides along.
type EligibilityResponse struct {
	CanReview bool    `json:"canReview"`
	Reason    string  `json:"reason,omitempty"`
	Review    *Review `json:"review,omitempty"`
}
