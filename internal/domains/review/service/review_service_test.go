package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "bookmarket-backend/internal/domains/book/model"
	ordermodel "bookmarket-backend/internal/domains/order/model"
	"bookmarket-backend/internal/domains/review/model"
	"bookmarket-backend/internal/infrastructure/cache"
	"bookmarket-backend/internal/shared/apperror"
)

// ----------------------------------------
// fakes
// ----------------------------------------

type fakeReviewRepo struct {
	reviews []model.Review
}

func (f *fakeReviewRepo) Create(_ context.Context, rv *model.Review) error {
	for _, existing := range f.reviews {
		if existing.BookID == rv.BookID && existing.UserEmail == rv.UserEmail {
			return model.ErrAlreadyReviewed
		}
	}
	f.reviews = append(f.reviews, *rv)
	return nil
}

func (f *fakeReviewRepo) ListByBook(_ context.Context, bookID uuid.UUID) ([]model.Review, error) {
	out := []model.Review{}
	for _, rv := range f.reviews {
		if rv.BookID == bookID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) GetByBookAndEmail(_ context.Context, bookID uuid.UUID, email string) (*model.Review, error) {
	for _, rv := range f.reviews {
		if rv.BookID == bookID && rv.UserEmail == email {
			cp := rv
			return &cp, nil
		}
	}
	return nil, model.ErrReviewNotFound
}

type fakeBookRepo struct {
	books map[uuid.UUID]*bookmodel.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uuid.UUID]*bookmodel.Book{}}
}

func (f *fakeBookRepo) add() *bookmodel.Book {
	b := &bookmodel.Book{
		ID:     uuid.New(),
		Title:  "Reviewed Book",
		Author: "Author",
		Price:  decimal.RequireFromString("15.00"),
		Status: bookmodel.BookStatusPublished,
	}
	f.books[b.ID] = b
	return b
}

func (f *fakeBookRepo) Create(_ context.Context, b *bookmodel.Book) error {
	f.books[b.ID] = b
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	return b, nil
}

func (f *fakeBookRepo) List(context.Context, bookmodel.ListFilter) (*bookmodel.ListResult, error) {
	return &bookmodel.ListResult{}, nil
}

func (f *fakeBookRepo) Latest(context.Context, int) ([]bookmodel.Book, error) { return nil, nil }

func (f *fakeBookRepo) ListAll(context.Context) ([]bookmodel.Book, error) { return nil, nil }

func (f *fakeBookRepo) ListIDsByOwner(context.Context, string) ([]uuid.UUID, error) {
	return nil, nil
}

func (f *fakeBookRepo) UpdateFields(context.Context, uuid.UUID, bookmodel.UpdateBookRequest) error {
	return nil
}

func (f *fakeBookRepo) UpdateStatus(context.Context, uuid.UUID, bookmodel.BookStatus) error {
	return nil
}

func (f *fakeBookRepo) UpdateRating(_ context.Context, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	b, ok := f.books[id]
	if !ok {
		return bookmodel.ErrBookNotFound
	}
	b.Rating = rating
	b.ReviewCount = reviewCount
	return nil
}

func (f *fakeBookRepo) Delete(context.Context, uuid.UUID) error { return nil }

// fakeOrderRepo answers only the paid-order eligibility question.
type fakeOrderRepo struct {
	paid map[string]map[uuid.UUID]bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{paid: map[string]map[uuid.UUID]bool{}}
}

func (f *fakeOrderRepo) markPaid(email string, bookID uuid.UUID) {
	if f.paid[email] == nil {
		f.paid[email] = map[uuid.UUID]bool{}
	}
	f.paid[email][bookID] = true
}

func (f *fakeOrderRepo) HasPaidOrder(_ context.Context, email string, bookID uuid.UUID) (bool, error) {
	return f.paid[email][bookID], nil
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
func (f *fakeOrderRepo) DeleteByBookID(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

type fixture struct {
	svc       ReviewService
	bookRepo  *fakeBookRepo
	orderRepo *fakeOrderRepo
	book      *bookmodel.Book
}

func newFixture() *fixture {
	bookRepo := newFakeBookRepo()
	orderRepo := newFakeOrderRepo()
	return &fixture{
		svc:       NewReviewService(&fakeReviewRepo{}, bookRepo, orderRepo, cache.NoopLocker{}),
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		book:      bookRepo.add(),
	}
}

func (fx *fixture) review(t *testing.T, email string, rating int) (*model.Review, error) {
	t.Helper()
	return fx.svc.Create(context.Background(), email, model.CreateReviewRequest{
		BookID: fx.book.ID,
		Email:  email,
		Rating: rating,
	})
}

// ----------------------------------------
// tests
// ----------------------------------------

func TestCreateRecomputesRatingSequentially(t *testing.T) {
	fx := newFixture()

	// mean after each insert: 4 -> 4.5 -> 4, count 1 -> 2 -> 3
	steps := []struct {
		email  string
		rating int
		mean   string
		count  int
	}{
		{"a@example.com", 4, "4", 1},
		{"b@example.com", 5, "4.5", 2},
		{"c@example.com", 3, "4", 3},
	}

	for _, step := range steps {
		fx.orderRepo.markPaid(step.email, fx.book.ID)

		_, err := fx.review(t, step.email, step.rating)
		require.NoError(t, err)

		b, err := fx.bookRepo.GetByID(context.Background(), fx.book.ID)
		require.NoError(t, err)
		assert.True(t, b.Rating.Equal(decimal.RequireFromString(step.mean)),
			"rating %s, want %s", b.Rating, step.mean)
		assert.Equal(t, step.count, b.ReviewCount)
	}
}

func TestCreateRoundsToOneDecimal(t *testing.T) {
	fx := newFixture()

	// 4, 4, 5 -> 4.333... -> 4.3
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		fx.orderRepo.markPaid(email, fx.book.ID)
		rating := 4
		if i == 2 {
			rating = 5
		}
		_, err := fx.review(t, email, rating)
		require.NoError(t, err)
	}

	b, err := fx.bookRepo.GetByID(context.Background(), fx.book.ID)
	require.NoError(t, err)
	assert.True(t, b.Rating.Equal(decimal.RequireFromString("4.3")), "rating %s", b.Rating)
}

func TestCreateRequiresPaidOrder(t *testing.T) {
	fx := newFixture()

	_, err := fx.review(t, "reader@example.com", 5)

	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, model.ReasonNotOrdered, appErr.Code)
}

func TestCreateRejectsSecondReview(t *testing.T) {
	fx := newFixture()
	fx.orderRepo.markPaid("reader@example.com", fx.book.ID)

	_, err := fx.review(t, "reader@example.com", 5)
	require.NoError(t, err)

	_, err = fx.review(t, "reader@example.com", 1)
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, model.ReasonAlreadyReviewed, appErr.Code)

	// The rejected attempt must not disturb the aggregate.
	b, err := fx.bookRepo.GetByID(context.Background(), fx.book.ID)
	require.NoError(t, err)
	assert.True(t, b.Rating.Equal(decimal.RequireFromString("5")))
	assert.Equal(t, 1, b.ReviewCount)
}

func TestCreateRejectsOutOfRangeRating(t *testing.T) {
	fx := newFixture()
	fx.orderRepo.markPaid("reader@example.com", fx.book.ID)

	for _, rating := range []int{0, 6, -1} {
		_, err := fx.review(t, "reader@example.com", rating)
		require.Error(t, err, "rating %d", rating)
		assert.Equal(t, apperror.KindInvalidInput, apperror.From(err).Kind)
	}
}

func TestCreateForbiddenForOtherEmail(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Create(context.Background(), "a@example.com", model.CreateReviewRequest{
		BookID: fx.book.ID,
		Email:  "b@example.com",
		Rating: 5,
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.From(err).Kind)
}

func TestCreateUnknownBook(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Create(context.Background(), "reader@example.com", model.CreateReviewRequest{
		BookID: uuid.New(),
		Email:  "reader@example.com",
		Rating: 5,
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)
}

func TestEligibilityNotOrdered(t *testing.T) {
	fx := newFixture()

	result, err := fx.svc.Eligibility(context.Background(), fx.book.ID, "reader@example.com")

	require.NoError(t, err)
	assert.False(t, result.CanReview)
	assert.Equal(t, model.ReasonNotOrdered, result.Reason)
	assert.Nil(t, result.Review)
}

func TestEligibilityAlreadyReviewedReturnsReview(t *testing.T) {
	fx := newFixture()
	fx.orderRepo.markPaid("reader@example.com", fx.book.ID)

	created, err := fx.review(t, "reader@example.com", 4)
	require.NoError(t, err)

	result, err := fx.svc.Eligibility(context.Background(), fx.book.ID, "reader@example.com")

	require.NoError(t, err)
	assert.False(t, result.CanReview)
	assert.Equal(t, model.ReasonAlreadyReviewed, result.Reason)
	require.NotNil(t, result.Review)
	assert.Equal(t, created.ID, result.Review.ID)
	assert.Equal(t, 4, result.Review.Rating)
}

func TestEligibilityCanReview(t *testing.T) {
	fx := newFixture()
	fx.orderRepo.markPaid("reader@example.com", fx.book.ID)

	result, err := fx.svc.Eligibility(context.Background(), fx.book.ID, "reader@example.com")

	require.NoError(t, err)
	assert.True(t, result.CanReview)
	assert.Empty(t, result.Reason)
}

func TestListByBook(t *testing.T) {
	fx := newFixture()
	fx.orderRepo.markPaid("a@example.com", fx.book.ID)
	fx.orderRepo.markPaid("b@example.com", fx.book.ID)

	_, err := fx.review(t, "a@example.com", 5)
	require.NoError(t, err)
	_, err = fx.review(t, "b@example.com", 3)
	require.NoError(t, err)

	reviews, err := fx.svc.ListByBook(context.Background(), fx.book.ID)

	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	for _, rv := range reviews {
		assert.WithinDuration(t, time.Now(), rv.CreatedAt, time.Minute)
	}
}
