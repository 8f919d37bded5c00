package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	bookmodel "bookmarket-backend/internal/domains/book/model"
	bookrepo "bookmarket-backend/internal/domains/book/repository"
	"bookmarket-backend/internal/domains/wishlist/model"
	"bookmarket-backend/internal/domains/wishlist/repository"
	"bookmarket-backend/internal/shared/apperror"
	"bookmarket-backend/internal/shared/authz"
)

// WishlistService is the business-logic contract for wishlists.
type WishlistService interface {
	Add(ctx context.Context, boundEmail string, req model.AddRequest) (*model.WishlistItem, error)
	List(ctx context.Context, boundEmail, email string) ([]model.WishlistItem, error)
	// Remove deletes the item only when it belongs to the caller.
	Remove(ctx context.Context, boundEmail string, id uuid.UUID) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	bookRepo     bookrepo.BookRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, bookRepo bookrepo.BookRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		bookRepo:     bookRepo,
	}
}

func (s *wishlistService) Add(ctx context.Context, boundEmail string, req model.AddRequest) (*model.WishlistItem, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.InvalidInputErr("Invalid wishlist request", err)
	}

	if err := authz.RequireSelf(boundEmail, req.Email); err != nil {
		return nil, err
	}

	if _, err := s.bookRepo.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, bookmodel.ErrBookNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, apperror.Upstream("Failed to get book", err)
	}

	item := &model.WishlistItem{
		ID:        uuid.New(),
		UserEmail: boundEmail,
		BookID:    req.BookID,
		CreatedAt: time.Now(),
	}

	if err := s.wishlistRepo.Add(ctx, item); err != nil {
		if errors.Is(err, model.ErrAlreadyInWishlist) {
			return nil, apperror.Conflict("ALREADY_IN_WISHLIST", "Book is already in your wishlist")
		}
		return nil, apperror.Upstream("Failed to add wishlist item", err)
	}

	return item, nil
}

func (s *wishlistService) List(ctx context.Context, boundEmail, email string) ([]model.WishlistItem, error) {
	if err := authz.RequireSelf(boundEmail, email); err != nil {
		return nil, err
	}

	items, err := s.wishlistRepo.ListByUserEmail(ctx, email)
	if err != nil {
		return nil, apperror.Upstream("Failed to list wishlist items", err)
	}

	return items, nil
}

func (s *wishlistService) Remove(ctx context.Context, boundEmail string, id uuid.UUID) error {
	item, err := s.wishlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrItemNotFound) {
			return apperror.NotFound("Wishlist item not found")
		}
		return apperror.Upstream("Failed to get wishlist item", err)
	}

	if err := authz.RequireSelf(boundEmail, item.UserEmail); err != nil {
		return err
	}

	if err := s.wishlistRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrItemNotFound) {
			return apperror.NotFound("Wishlist item not found")
		}
		return apperror.Upstream("Failed to delete wishlist item", err)
	}

	return nil
}
