package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookStatus controls catalog visibility. Only published books appear on the
// public listing endpoints.
type BookStatus string

const (
	BookStatusPublished   BookStatus = "published"
	BookStatusUnpublished BookStatus = "unpublished"
)

func (s BookStatus) IsValid() bool {
	switch s {
	case BookStatusPublished, BookStatusUnpublished:
		return true
	}
	return false
}

func (s BookStatus) String() string {
	return string(s)
}

type Book struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Author      string          `json:"author" db:"author"`
	Category    string          `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Status      BookStatus      `json:"status" db:"status"`
	OwnerEmail  string          `json:"ownerEmail" db:"owner_email"`
	Rating      decimal.Decimal `json:"rating" db:"rating"`
	ReviewCount int             `json:"reviewCount" db:"review_count"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

type CreateBookRequest struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Price       decimal.Decimal `json:"price"`
	Status      BookStatus      `json:"status"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Category, validation.Length(0, 255)),
		validation.Field(&r.Price, validation.By(validatePrice)),
	)
}

func validatePrice(value interface{}) error {
	price, ok := value.(decimal.Decimal)
	if !ok || price.IsNegative() {
		return validation.NewError("validation_price", "must be zero or positive")
	}
	return nil
}

// UpdateBookRequest carries a partial update; nil fields are left untouched.
type UpdateBookRequest struct {
	Title       *string          `json:"title"`
	Author      *string          `json:"author"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
	Price       *decimal.Decimal `json:"price"`
}

func (r UpdateBookRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return validation.NewError("validation_title", "title cannot be empty")
	}
	if r.Author != nil && *r.Author == "" {
		return validation.NewError("validation_author", "author cannot be empty")
	}
	if r.Price != nil && r.Price.IsNegative() {
		return validation.NewError("validation_price", "price must be zero or positive")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status BookStatus `json:"status"`
}

// ListFilter narrows the public catalog listing. Zero values mean "no
// constraint" except Status, which the service pins to published for
// public callers.
type ListFilter struct {
	Search    string
	Category  string
	MinRating *decimal.Decimal
	Status    BookStatus
	Page      int
	Size      int
}

type ListResult struct {
	Books []Book
	Total int64
}

// DeleteResult reports what a cascade delete removed.
type DeleteResult struct {
	BookDeleted   bool  `json:"bookDeleted"`
	OrdersDeleted int64 `json:"ordersDeleted"`
}
