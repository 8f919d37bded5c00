package repository

import (
	"context"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/review/model"
)

// ReviewRepository is the persistence contract for reviews.
type ReviewRepository interface {
	// Create inserts the review; a second review by the same user for the
	// same book returns model.ErrAlreadyReviewed.
	Create(ctx context.Context, rv *model.Review) error
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error)
	GetByBookAndEmail(ctx context.Context, bookID uuid.UUID, email string) (*model.Review, error)
}
