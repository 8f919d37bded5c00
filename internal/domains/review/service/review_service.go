package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookmodel "bookmarket-backend/internal/domains/book/model"
	bookrepo "bookmarket-backend/internal/domains/book/repository"
	orderrepo "bookmarket-backend/internal/domains/order/repository"
	"bookmarket-backend/internal/domains/review/model"
	"bookmarket-backend/internal/domains/review/repository"
	"bookmarket-backend/internal/infrastructure/cache"
	"bookmarket-backend/internal/shared/apperror"
	"bookmarket-backend/internal/shared/authz"
)

const ratingLockTTL = 5 * time.Second

// ReviewService is the business-logic contract for reviews and the derived
// book rating.
type ReviewService interface {
	// Create inserts the review and recomputes the book's aggregate
	// rating and review count.
	Create(ctx context.Context, boundEmail string, req model.CreateReviewRequest) (*model.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error)
	// Eligibility reports whether the user may review the book, tagging
	// the reason when they may not.
	Eligibility(ctx context.Context, bookID uuid.UUID, email string) (*model.EligibilityResponse, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   bookrepo.BookRepository
	orderRepo  orderrepo.OrderRepository
	locker     cache.Locker
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo bookrepo.BookRepository, orderRepo orderrepo.OrderRepository, locker cache.Locker) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		orderRepo:  orderRepo,
		locker:     locker,
	}
}

func (s *reviewService) Create(ctx context.Context, boundEmail string, req model.CreateReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.InvalidInputErr("Invalid review", err)
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

	paid, err := s.orderRepo.HasPaidOrder(ctx, boundEmail, req.BookID)
	if err != nil {
		return nil, apperror.Upstream("Failed to check purchase history", err)
	}
	if !paid {
		return nil, apperror.Conflict(model.ReasonNotOrdered, "You can only review books you have purchased")
	}

	rv := &model.Review{
		ID:        uuid.New(),
		BookID:    req.BookID,
		UserEmail: boundEmail,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	// Insert and recompute under a per-book lock so concurrent reviews do
	// not overwrite each other's aggregate. The lock is best-effort; a
	// lost race costs a stale rating until the next insert, not data.
	lockKey := "reviews:book:" + req.BookID.String()
	var svcErr error
	err = s.locker.WithLock(ctx, lockKey, ratingLockTTL, func() error {
		if err := s.reviewRepo.Create(ctx, rv); err != nil {
			if errors.Is(err, model.ErrAlreadyReviewed) {
				svcErr = apperror.Conflict(model.ReasonAlreadyReviewed, "You have already reviewed this book")
				return nil
			}
			return err
		}
		return s.recomputeRating(ctx, req.BookID)
	})
	if svcErr != nil {
		return nil, svcErr
	}
	if err != nil {
		return nil, apperror.Upstream("Failed to create review", err)
	}

	return rv, nil
}

// recomputeRating rereads every review for the book and overwrites the
// denormalized aggregate: mean rating rounded to one decimal place, plus
// the count.
func (s *reviewService) recomputeRating(ctx context.Context, bookID uuid.UUID) error {
	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return err
	}

	count := len(reviews)
	rating := decimal.Zero
	if count > 0 {
		sum := decimal.Zero
		for _, rv := range reviews {
			sum = sum.Add(decimal.NewFromInt(int64(rv.Rating)))
		}
		rating = sum.Div(decimal.NewFromInt(int64(count))).Round(1)
	}

	return s.bookRepo.UpdateRating(ctx, bookID, rating, count)
}

func (s *reviewService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, apperror.Upstream("Failed to list reviews", err)
	}
	return reviews, nil
}

func (s *reviewService) Eligibility(ctx context.Context, bookID uuid.UUID, email string) (*model.EligibilityResponse, error) {
	existing, err := s.reviewRepo.GetByBookAndEmail(ctx, bookID, email)
	if err == nil {
		return &model.EligibilityResponse{
			CanReview: false,
			Reason:    model.ReasonAlreadyReviewed,
			Review:    existing,
		}, nil
	}
	if !errors.Is(err, model.ErrReviewNotFound) {
		return nil, apperror.Upstream("Failed to check existing review", err)
	}

	paid, err := s.orderRepo.HasPaidOrder(ctx, email, bookID)
	if err != nil {
		return nil, apperror.Upstream("Failed to check purchase history", err)
	}
	if !paid {
		return &model.EligibilityResponse{CanReview: false, Reason: model.ReasonNotOrdered}, nil
	}

	return &model.EligibilityResponse{CanReview: true}, nil
}
