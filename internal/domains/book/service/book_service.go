package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookmarket-backend/internal/domains/book/model"
	"bookmarket-backend/internal/domains/book/repository"
	orderrepo "bookmarket-backend/internal/domains/order/repository"
	"bookmarket-backend/internal/shared/apperror"
	"bookmarket-backend/internal/shared/authz"
	"bookmarket-backend/pkg/logger"
)

const latestBooksLimit = 6

type bookService struct {
	bookRepo   repository.BookRepository
	orderRepo  orderrepo.OrderRepository
	roleLookup authz.RoleLookup
}

func NewBookService(bookRepo repository.BookRepository, orderRepo orderrepo.OrderRepository, roleLookup authz.RoleLookup) BookService {
	return &bookService{
		bookRepo:   bookRepo,
		orderRepo:  orderRepo,
		roleLookup: roleLookup,
	}
}

func (s *bookService) ListPublished(ctx context.Context, filter model.ListFilter) (*model.ListResult, error) {
	// The public catalog never leaks unpublished books, even when the
	// caller sends an explicit status.
	filter.Status = model.BookStatusPublished

	result, err := s.bookRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Upstream("Failed to list books", err)
	}

	return result, nil
}

func (s *bookService) Latest(ctx context.Context) ([]model.Book, error) {
	books, err := s.bookRepo.Latest(ctx, latestBooksLimit)
	if err != nil {
		return nil, apperror.Upstream("Failed to list latest books", err)
	}
	return books, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	b, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, apperror.Upstream("Failed to get book", err)
	}
	return b, nil
}

func (s *bookService) ListAll(ctx context.Context) ([]model.Book, error) {
	books, err := s.bookRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Upstream("Failed to list all books", err)
	}
	return books, nil
}

func (s *bookService) Create(ctx context.Context, ownerEmail string, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.InvalidInputErr("Invalid book", err)
	}

	status := req.Status
	if status == "" {
		status = model.BookStatusPublished
	}
	if !status.IsValid() {
		return nil, apperror.InvalidInput("Status must be published or unpublished")
	}

	now := time.Now()
	b := &model.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Status:      status,
		OwnerEmail:  ownerEmail,
		Rating:      decimal.Zero,
		ReviewCount: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookRepo.Create(ctx, b); err != nil {
		return nil, apperror.Upstream("Failed to create book", err)
	}

	return b, nil
}

func (s *bookService) Update(ctx context.Context, actorEmail string, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.InvalidInputErr("Invalid book update", err)
	}

	if _, err := s.authorizeManage(ctx, actorEmail, id); err != nil {
		return nil, err
	}

	if err := s.bookRepo.UpdateFields(ctx, id, req); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, apperror.Upstream("Failed to update book", err)
	}

	return s.GetByID(ctx, id)
}

func (s *bookService) UpdateStatus(ctx context.Context, actorEmail string, id uuid.UUID, status model.BookStatus) (*model.Book, error) {
	if !status.IsValid() {
		return nil, apperror.InvalidInput("Status must be published or unpublished")
	}

	if _, err := s.authorizeManage(ctx, actorEmail, id); err != nil {
		return nil, err
	}

	if err := s.bookRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, apperror.Upstream("Failed to update book status", err)
	}

	return s.GetByID(ctx, id)
}

func (s *bookService) Delete(ctx context.Context, actorEmail string, id uuid.UUID) (*model.DeleteResult, error) {
	if _, err := s.authorizeManage(ctx, actorEmail, id); err != nil {
		return nil, err
	}

	// The book goes first; a missing id stops here and leaves orders
	// untouched. The two deletes are sequential, not transactional; a crash
	// between them leaves orphaned orders, which is an accepted failure
	// mode rather than one to hide.
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, apperror.Upstream("Failed to delete book", err)
	}

	ordersDeleted, err := s.orderRepo.DeleteByBookID(ctx, id)
	if err != nil {
		logger.Warn("book deleted but order cleanup failed; orphaned orders remain", map[string]interface{}{
			"book_id": id.String(),
			"error":   err.Error(),
		})
		return nil, apperror.Upstream("Failed to delete orders for book", err)
	}

	return &model.DeleteResult{BookDeleted: true, OrdersDeleted: ordersDeleted}, nil
}

// authorizeManage allows the book's owner or an admin to mutate it.
func (s *bookService) authorizeManage(ctx context.Context, actorEmail string, id uuid.UUID) (*model.Book, error) {
	b, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, apperror.Upstream("Failed to get book", err)
	}

	if authz.RequireSelf(actorEmail, b.OwnerEmail) == nil {
		return b, nil
	}

	role, err := s.roleLookup(ctx, actorEmail)
	if err != nil || role != authz.RoleAdmin {
		return nil, apperror.Forbidden("You do not own this book")
	}

	return b, nil
}
