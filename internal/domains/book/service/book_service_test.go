package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarket-backend/internal/domains/book/model"
	ordermodel "bookmarket-backend/internal/domains/order/model"
	"bookmarket-backend/internal/shared/apperror"
	"bookmarket-backend/internal/shared/authz"
)

// ----------------------------------------
// fakes
// ----------------------------------------

type fakeBookRepo struct {
	books map[uuid.UUID]*model.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uuid.UUID]*model.Book{}}
}

func (f *fakeBookRepo) Create(_ context.Context, b *model.Book) error {
	cp := *b
	f.books[b.ID] = &cp
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookRepo) List(_ context.Context, filter model.ListFilter) (*model.ListResult, error) {
	matched := []model.Book{}
	for _, b := range f.books {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(b.Title), s) && !strings.Contains(strings.ToLower(b.Author), s) {
				continue
			}
		}
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.MinRating != nil && b.Rating.LessThan(*filter.MinRating) {
			continue
		}
		matched = append(matched, *b)
	}

	total := int64(len(matched))
	start := filter.Page * filter.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Size
	if end > len(matched) {
		end = len(matched)
	}

	return &model.ListResult{Books: matched[start:end], Total: total}, nil
}

func (f *fakeBookRepo) Latest(_ context.Context, limit int) ([]model.Book, error) {
	books := []model.Book{}
	for _, b := range f.books {
		if b.Status == model.BookStatusPublished {
			books = append(books, *b)
		}
	}
	if len(books) > limit {
		books = books[:limit]
	}
	return books, nil
}

func (f *fakeBookRepo) ListAll(_ context.Context) ([]model.Book, error) {
	books := []model.Book{}
	for _, b := range f.books {
		books = append(books, *b)
	}
	return books, nil
}

func (f *fakeBookRepo) ListIDsByOwner(_ context.Context, ownerEmail string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for _, b := range f.books {
		if b.OwnerEmail == ownerEmail {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (f *fakeBookRepo) UpdateFields(_ context.Context, id uuid.UUID, req model.UpdateBookRequest) error {
	b, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Category != nil {
		b.Category = *req.Category
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.ImageURL != nil {
		b.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		b.Price = *req.Price
	}
	return nil
}

func (f *fakeBookRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.BookStatus) error {
	b, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookRepo) UpdateRating(_ context.Context, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	b, ok := f.books[id]
	if !ok {
		return model.ErrBookNotFound
	}
	b.Rating = rating
	b.ReviewCount = reviewCount
	return nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

// fakeOrderRepo only tracks what the cascade delete needs.
type fakeOrderRepo struct {
	ordersByBook map[uuid.UUID]int64
	deleteCalls  int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{ordersByBook: map[uuid.UUID]int64{}}
}

func (f *fakeOrderRepo) Create(context.Context, *ordermodel.Order) error { return nil }
func (f *fakeOrderRepo) GetByID(context.Context, uuid.UUID) (*ordermodel.Order, error) {
	return nil, ordermodel.ErrOrderNotFound
}
func (f *fakeOrderRepo) ListByUserEmail(context.Context, string) ([]ordermodel.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) ListPaidByUserEmail(context.Context, string) ([]ordermodel.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) ListByBookIDs(context.Context, []uuid.UUID) ([]ordermodel.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) ListAll(context.Context) ([]ordermodel.Order, error) { return nil, nil }
func (f *fakeOrderRepo) UpdateStatus(context.Context, uuid.UUID, ordermodel.OrderStatus) error {
	return nil
}
func (f *fakeOrderRepo) MarkPaid(context.Context, uuid.UUID, *string) error { return nil }
func (f *fakeOrderRepo) Cancel(context.Context, uuid.UUID) error            { return nil }
func (f *fakeOrderRepo) HasPaidOrder(context.Context, string, uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeOrderRepo) DeleteByBookID(_ context.Context, bookID uuid.UUID) (int64, error) {
	f.deleteCalls++
	n := f.ordersByBook[bookID]
	delete(f.ordersByBook, bookID)
	return n, nil
}

func roles(m map[string]authz.Role) authz.RoleLookup {
	return func(_ context.Context, email string) (authz.Role, error) {
		role, ok := m[email]
		if !ok {
			return "", errors.New("user not found")
		}
		return role, nil
	}
}

func seedBook(t *testing.T, repo *fakeBookRepo, owner string, status model.BookStatus) *model.Book {
	t.Helper()
	b := &model.Book{
		ID:         uuid.New(),
		Title:      "The Go Programming Language",
		Author:     "Donovan",
		Price:      decimal.RequireFromString("39.99"),
		Status:     status,
		OwnerEmail: owner,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

// ----------------------------------------
// tests
// ----------------------------------------

func TestListPublishedPinsStatus(t *testing.T) {
	bookRepo := newFakeBookRepo()
	seedBook(t, bookRepo, "lib@example.com", model.BookStatusPublished)
	seedBook(t, bookRepo, "lib@example.com", model.BookStatusUnpublished)

	svc := NewBookService(bookRepo, newFakeOrderRepo(), roles(nil))

	// Even a filter explicitly asking for unpublished books gets published.
	result, err := svc.ListPublished(context.Background(), model.ListFilter{
		Status: model.BookStatusUnpublished,
		Size:   10,
	})

	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
	require.Len(t, result.Books, 1)
	assert.Equal(t, model.BookStatusPublished, result.Books[0].Status)
}

func TestListPublishedCountMatchesFilter(t *testing.T) {
	bookRepo := newFakeBookRepo()
	for i := 0; i < 15; i++ {
		seedBook(t, bookRepo, "lib@example.com", model.BookStatusPublished)
	}

	svc := NewBookService(bookRepo, newFakeOrderRepo(), roles(nil))

	result, err := svc.ListPublished(context.Background(), model.ListFilter{Page: 1, Size: 10})

	require.NoError(t, err)
	assert.EqualValues(t, 15, result.Total, "total reflects the filter, not the page")
	assert.Len(t, result.Books, 5)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), newFakeOrderRepo(), roles(nil))

	_, err := svc.Create(context.Background(), "lib@example.com", model.CreateBookRequest{
		Title: "No Author",
		Price: decimal.RequireFromString("10"),
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidInput, apperror.From(err).Kind)
}

func TestCreateDefaultsToPublished(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), newFakeOrderRepo(), roles(nil))

	b, err := svc.Create(context.Background(), "lib@example.com", model.CreateBookRequest{
		Title:  "A Title",
		Author: "An Author",
		Price:  decimal.RequireFromString("12.50"),
	})

	require.NoError(t, err)
	assert.Equal(t, model.BookStatusPublished, b.Status)
	assert.Equal(t, "lib@example.com", b.OwnerEmail)
	assert.Equal(t, 0, b.ReviewCount)
	assert.True(t, b.Rating.IsZero())
}

func TestUpdateStatusRejectsUnknownEnum(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := seedBook(t, bookRepo, "lib@example.com", model.BookStatusPublished)

	svc := NewBookService(bookRepo, newFakeOrderRepo(), roles(map[string]authz.Role{
		"lib@example.com": authz.RoleLibrarian,
	}))

	_, err := svc.UpdateStatus(context.Background(), "lib@example.com", b.ID, model.BookStatus("archived"))

	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidInput, apperror.From(err).Kind)
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := seedBook(t, bookRepo, "owner@example.com", model.BookStatusPublished)

	svc := NewBookService(bookRepo, newFakeOrderRepo(), roles(map[string]authz.Role{
		"other@example.com": authz.RoleLibrarian,
	}))

	newTitle := "Hijacked"
	_, err := svc.Update(context.Background(), "other@example.com", b.ID, model.UpdateBookRequest{Title: &newTitle})

	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.From(err).Kind)
}

func TestUpdateAllowedForAdminNonOwner(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := seedBook(t, bookRepo, "owner@example.com", model.BookStatusPublished)

	svc := NewBookService(bookRepo, newFakeOrderRepo(), roles(map[string]authz.Role{
		"admin@example.com": authz.RoleAdmin,
	}))

	newTitle := "Corrected Title"
	updated, err := svc.Update(context.Background(), "admin@example.com", b.ID, model.UpdateBookRequest{Title: &newTitle})

	require.NoError(t, err)
	assert.Equal(t, "Corrected Title", updated.Title)
}

func TestDeleteCascadesToOrders(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := seedBook(t, bookRepo, "owner@example.com", model.BookStatusPublished)

	orderRepo := newFakeOrderRepo()
	orderRepo.ordersByBook[b.ID] = 3

	svc := NewBookService(bookRepo, orderRepo, roles(map[string]authz.Role{
		"admin@example.com": authz.RoleAdmin,
	}))

	result, err := svc.Delete(context.Background(), "admin@example.com", b.ID)

	require.NoError(t, err)
	assert.True(t, result.BookDeleted)
	assert.EqualValues(t, 3, result.OrdersDeleted)

	_, err = svc.GetByID(context.Background(), b.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)
}

func TestDeleteMissingBookLeavesOrdersAlone(t *testing.T) {
	orderRepo := newFakeOrderRepo()

	svc := NewBookService(newFakeBookRepo(), orderRepo, roles(map[string]authz.Role{
		"admin@example.com": authz.RoleAdmin,
	}))

	_, err := svc.Delete(context.Background(), "admin@example.com", uuid.New())

	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)
	assert.Zero(t, orderRepo.deleteCalls, "no order delete when the book does not exist")
}
