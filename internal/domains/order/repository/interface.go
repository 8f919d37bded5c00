package repository

import (
	"context"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/order/model"
)

// OrderRepository is the persistence contract for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUserEmail(ctx context.Context, email string) ([]model.Order, error)
	// ListPaidByUserEmail returns the purchaser's invoice history.
	ListPaidByUserEmail(ctx context.Context, email string) ([]model.Order, error)
	// ListByBookIDs backs the librarian view: orders on a set of books.
	ListByBookIDs(ctx context.Context, bookIDs []uuid.UUID) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
	// MarkPaid moves the order to (processing, paid) and stamps paid_at.
	MarkPaid(ctx context.Context, id uuid.UUID, sessionID *string) error
	// Cancel moves the order to (cancelled, cancelled) regardless of its
	// current state.
	Cancel(ctx context.Context, id uuid.UUID) error
	// DeleteByBookID removes every order referencing the book and reports
	// how many were removed.
	DeleteByBookID(ctx context.Context, bookID uuid.UUID) (int64, error)
	// HasPaidOrder reports whether the user has a paid order for the book.
	HasPaidOrder(ctx context.Context, email string, bookID uuid.UUID) (bool, error)
}
