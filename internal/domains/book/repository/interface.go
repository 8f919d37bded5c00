package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookmarket-backend/internal/domains/book/model"
)

// BookRepository is the persistence contract for the catalog.
type BookRepository interface {
	Create(ctx context.Context, b *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	// List applies the filter to both the page of rows and the total count.
	List(ctx context.Context, filter model.ListFilter) (*model.ListResult, error)
	// Latest returns the newest published books, capped at limit.
	Latest(ctx context.Context, limit int) ([]model.Book, error)
	ListAll(ctx context.Context) ([]model.Book, error)
	ListIDsByOwner(ctx context.Context, ownerEmail string) ([]uuid.UUID, error)
	// UpdateFields applies only the non-nil fields of the request.
	UpdateFields(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookStatus) error
	// UpdateRating overwrites the denormalized rating summary.
	UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, reviewCount int) error
	Delete(ctx context.Context, id uuid.UUID) error
}
