package service

import (
	"context"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/book/model"
)

// BookService is the business-logic contract for the catalog.
type BookService interface {
	// ListPublished serves the public catalog; it always pins the filter
	// to published books regardless of what the caller asked for.
	ListPublished(ctx context.Context, filter model.ListFilter) (*model.ListResult, error)
	Latest(ctx context.Context) ([]model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	ListAll(ctx context.Context) ([]model.Book, error)
	Create(ctx context.Context, ownerEmail string, req model.CreateBookRequest) (*model.Book, error)
	Update(ctx context.Context, actorEmail string, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)
	UpdateStatus(ctx context.Context, actorEmail string, id uuid.UUID, status model.BookStatus) (*model.Book, error)
	// Delete removes the book and every order that references it, and
	// reports what was removed.
	Delete(ctx context.Context, actorEmail string, id uuid.UUID) (*model.DeleteResult, error)
}
