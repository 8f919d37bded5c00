package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "bookmarket-backend/internal/domains/book/model"
	"bookmarket-backend/internal/domains/order/model"
	"bookmarket-backend/internal/domains/payment/gateway"
	gatewaymock "bookmarket-backend/internal/domains/payment/gateway/mock"
	"bookmarket-backend/internal/shared/apperror"
	"bookmarket-backend/internal/shared/authz"
)

// ----------------------------------------
// fakes
// ----------------------------------------

type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*model.Order{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *model.Order) error {
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListByUserEmail(_ context.Context, email string) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.orders {
		if o.UserEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListPaidByUserEmail(_ context.Context, email string) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.orders {
		if o.UserEmail == email && o.PaymentStatus == model.PaymentStatusPaid {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByBookIDs(_ context.Context, bookIDs []uuid.UUID) ([]model.Order, error) {
	member := map[uuid.UUID]bool{}
	for _, id := range bookIDs {
		member[id] = true
	}
	out := []model.Order{}
	for _, o := range f.orders {
		if member[o.BookID] {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrderRepo) MarkPaid(_ context.Context, id uuid.UUID, sessionID *string) error {
	o, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.Status = model.OrderStatusProcessing
	o.PaymentStatus = model.PaymentStatusPaid
	if sessionID != nil {
		o.CheckoutSessionID = sessionID
	}
	now := time.Now()
	o.PaidAt = &now
	return nil
}

func (f *fakeOrderRepo) Cancel(_ context.Context, id uuid.UUID) error {
	o, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.Status = model.OrderStatusCancelled
	o.PaymentStatus = model.PaymentStatusCancelled
	return nil
}

func (f *fakeOrderRepo) DeleteByBookID(_ context.Context, bookID uuid.UUID) (int64, error) {
	var n int64
	for id, o := range f.orders {
		if o.BookID == bookID {
			delete(f.orders, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeOrderRepo) HasPaidOrder(_ context.Context, email string, bookID uuid.UUID) (bool, error) {
	for _, o := range f.orders {
		if o.UserEmail == email && o.BookID == bookID && o.PaymentStatus == model.PaymentStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

type fakeBookRepo struct {
	books map[uuid.UUID]*bookmodel.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uuid.UUID]*bookmodel.Book{}}
}

func (f *fakeBookRepo) add(owner string) *bookmodel.Book {
	b := &bookmodel.Book{
		ID:         uuid.New(),
		Title:      "Some Book",
		Author:     "Someone",
		Price:      decimal.RequireFromString("19.99"),
		Status:     bookmodel.BookStatusPublished,
		OwnerEmail: owner,
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

func (f *fakeBookRepo) ListIDsByOwner(_ context.Context, ownerEmail string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	for _, b := range f.books {
		if b.OwnerEmail == ownerEmail {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (f *fakeBookRepo) UpdateFields(context.Context, uuid.UUID, bookmodel.UpdateBookRequest) error {
	return nil
}

func (f *fakeBookRepo) UpdateStatus(context.Context, uuid.UUID, bookmodel.BookStatus) error {
	return nil
}

func (f *fakeBookRepo) UpdateRating(context.Context, uuid.UUID, decimal.Decimal, int) error {
	return nil
}

func (f *fakeBookRepo) Delete(context.Context, uuid.UUID) error { return nil }

func roles(m map[string]authz.Role) authz.RoleLookup {
	return func(_ context.Context, email string) (authz.Role, error) {
		role, ok := m[email]
		if !ok {
			return "", errors.New("user not found")
		}
		return role, nil
	}
}

func newService(orderRepo *fakeOrderRepo, bookRepo *fakeBookRepo, gw *gatewaymock.Gateway, roleMap map[string]authz.Role) OrderService {
	if gw == nil {
		gw = gatewaymock.New()
	}
	return NewOrderService(orderRepo, bookRepo, gw, roles(roleMap))
}

func paymentSessionRequest() gateway.CreateSessionRequest {
	return gateway.CreateSessionRequest{
		Name:          "Some Book",
		UnitAmount:    1999,
		Quantity:      1,
		CustomerEmail: "reader@example.com",
		SuccessURL:    "http://localhost:3000/payment/success",
		CancelURL:     "http://localhost:3000/payment/cancel",
	}
}

func createOrder(t *testing.T, svc OrderService, bookID uuid.UUID, email string) *model.Order {
	t.Helper()
	o, err := svc.Create(context.Background(), email, model.CreateOrderRequest{BookID: bookID, Email: email})
	require.NoError(t, err)
	return o
}

// ----------------------------------------
// tests
// ----------------------------------------

func TestCreateStartsPendingUnpaid(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := bookRepo.add("lib@example.com")
	svc := newService(newFakeOrderRepo(), bookRepo, nil, nil)

	o := createOrder(t, svc, b.ID, "reader@example.com")

	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, model.PaymentStatusUnpaid, o.PaymentStatus)
	assert.Nil(t, o.PaidAt)
}

func TestCreateForbiddenForOtherEmail(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := bookRepo.add("lib@example.com")
	svc := newService(newFakeOrderRepo(), bookRepo, nil, nil)

	_, err := svc.Create(context.Background(), "a@example.com", model.CreateOrderRequest{
		BookID: b.ID,
		Email:  "b@example.com",
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.From(err).Kind)
}

func TestCreateUnknownBook(t *testing.T) {
	svc := newService(newFakeOrderRepo(), newFakeBookRepo(), nil, nil)

	_, err := svc.Create(context.Background(), "reader@example.com", model.CreateOrderRequest{
		BookID: uuid.New(),
		Email:  "reader@example.com",
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)
}

func TestCancelAlwaysCancelsBothStatuses(t *testing.T) {
	// Cancellation is deliberately unconditional: any starting state,
	// delivered included, lands on (cancelled, cancelled).
	for _, start := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
	} {
		t.Run(string(start), func(t *testing.T) {
			bookRepo := newFakeBookRepo()
			b := bookRepo.add("lib@example.com")
			orderRepo := newFakeOrderRepo()
			svc := newService(orderRepo, bookRepo, nil, nil)

			o := createOrder(t, svc, b.ID, "reader@example.com")
			require.NoError(t, orderRepo.UpdateStatus(context.Background(), o.ID, start))

			cancelled, err := svc.Cancel(context.Background(), "reader@example.com", o.ID)

			require.NoError(t, err)
			assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
			assert.Equal(t, model.PaymentStatusCancelled, cancelled.PaymentStatus)
		})
	}
}

func TestCancelForbiddenForNonOwner(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := bookRepo.add("lib@example.com")
	svc := newService(newFakeOrderRepo(), bookRepo, nil, nil)

	o := createOrder(t, svc, b.ID, "reader@example.com")

	_, err := svc.Cancel(context.Background(), "other@example.com", o.ID)

	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.From(err).Kind)
}

func TestUpdateFulfillmentRejectsUnknownStatus(t *testing.T) {
	svc := newService(newFakeOrderRepo(), newFakeBookRepo(), nil, nil)

	_, err := svc.UpdateFulfillment(context.Background(), uuid.New(), model.OrderStatus("teleported"))

	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidInput, apperror.From(err).Kind)
}

func TestUpdateFulfillmentRejectsProcessing(t *testing.T) {
	// processing is reserved for payment confirmation.
	svc := newService(newFakeOrderRepo(), newFakeBookRepo(), nil, nil)

	_, err := svc.UpdateFulfillment(context.Background(), uuid.New(), model.OrderStatusProcessing)

	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidInput, apperror.From(err).Kind)
}

func TestUpdateFulfillmentLeavesPaymentStatusAlone(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := bookRepo.add("lib@example.com")
	orderRepo := newFakeOrderRepo()
	svc := newService(orderRepo, bookRepo, nil, nil)

	o := createOrder(t, svc, b.ID, "reader@example.com")

	updated, err := svc.UpdateFulfillment(context.Background(), o.ID, model.OrderStatusShipped)

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
	assert.Equal(t, model.PaymentStatusUnpaid, updated.PaymentStatus)
}

func TestConfirmPaymentWithoutSessionID(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := bookRepo.add("lib@example.com")
	svc := newService(newFakeOrderRepo(), bookRepo, nil, nil)

	o := createOrder(t, svc, b.ID, "reader@example.com")

	paid, err := svc.ConfirmPayment(context.Background(), "reader@example.com", o.ID, model.PaymentSuccessRequest{})

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, paid.Status)
	assert.Equal(t, model.PaymentStatusPaid, paid.PaymentStatus)
	assert.NotNil(t, paid.PaidAt)
}

func TestConfirmPaymentUnsettledSession(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := bookRepo.add("lib@example.com")
	gw := gatewaymock.New()
	svc := newService(newFakeOrderRepo(), bookRepo, gw, nil)

	o := createOrder(t, svc, b.ID, "reader@example.com")

	session, err := gw.CreateSession(context.Background(), paymentSessionRequest())
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(context.Background(), "reader@example.com", o.ID, model.PaymentSuccessRequest{
		SessionID: &session.ID,
	})

	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, "PAYMENT_NOT_SETTLED", appErr.Code)

	// No mutation on rejection.
	detail, err := svc.GetDetail(context.Background(), "reader@example.com", o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, detail.Status)
	assert.Equal(t, model.PaymentStatusUnpaid, detail.PaymentStatus)
}

func TestConfirmPaymentSettledSession(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := bookRepo.add("lib@example.com")
	gw := gatewaymock.New()
	svc := newService(newFakeOrderRepo(), bookRepo, gw, nil)

	o := createOrder(t, svc, b.ID, "reader@example.com")

	session, err := gw.CreateSession(context.Background(), paymentSessionRequest())
	require.NoError(t, err)
	gw.Settle(session.ID)

	paid, err := svc.ConfirmPayment(context.Background(), "reader@example.com", o.ID, model.PaymentSuccessRequest{
		SessionID: &session.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, paid.Status)
	assert.Equal(t, model.PaymentStatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.CheckoutSessionID)
	assert.Equal(t, session.ID, *paid.CheckoutSessionID)
}

func TestListForLibrarianFiltersByOwnedBooks(t *testing.T) {
	bookRepo := newFakeBookRepo()
	mine := bookRepo.add("lib@example.com")
	other := bookRepo.add("other-lib@example.com")

	orderRepo := newFakeOrderRepo()
	svc := newService(orderRepo, bookRepo, nil, map[string]authz.Role{
		"lib@example.com": authz.RoleLibrarian,
	})

	createOrder(t, svc, mine.ID, "reader@example.com")
	createOrder(t, svc, other.ID, "reader@example.com")

	orders, err := svc.ListForLibrarian(context.Background(), "lib@example.com", "lib@example.com")

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].BookID)
}

func TestListForLibrarianAdminSeesAll(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b1 := bookRepo.add("lib@example.com")
	b2 := bookRepo.add("other-lib@example.com")

	orderRepo := newFakeOrderRepo()
	svc := newService(orderRepo, bookRepo, nil, map[string]authz.Role{
		"admin@example.com": authz.RoleAdmin,
	})

	createOrder(t, svc, b1.ID, "reader@example.com")
	createOrder(t, svc, b2.ID, "reader@example.com")

	orders, err := svc.ListForLibrarian(context.Background(), "admin@example.com", "admin@example.com")

	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestListMineForbiddenForOtherEmail(t *testing.T) {
	svc := newService(newFakeOrderRepo(), newFakeBookRepo(), nil, nil)

	_, err := svc.ListMine(context.Background(), "a@example.com", "b@example.com")

	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.From(err).Kind)
}

func TestListInvoicesOnlyPaid(t *testing.T) {
	bookRepo := newFakeBookRepo()
	b := bookRepo.add("lib@example.com")
	orderRepo := newFakeOrderRepo()
	svc := newService(orderRepo, bookRepo, nil, nil)

	paid := createOrder(t, svc, b.ID, "reader@example.com")
	createOrder(t, svc, b.ID, "reader@example.com")

	_, err := svc.ConfirmPayment(context.Background(), "reader@example.com", paid.ID, model.PaymentSuccessRequest{})
	require.NoError(t, err)

	invoices, err := svc.ListInvoices(context.Background(), "reader@example.com", "reader@example.com")

	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, paid.ID, invoices[0].ID)
}
