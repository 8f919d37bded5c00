package repository

import (
	"context"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/wishlist/model"
)

// WishlistRepository is the persistence contract for wishlist items.
type WishlistRepository interface {
	// Add inserts the item; a duplicate (user, book) pair returns
	// model.ErrAlreadyInWishlist.
	Add(ctx context.Context, item *model.WishlistItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.WishlistItem, error)
	ListByUserEmail(ctx context.Context, email string) ([]model.WishlistItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
