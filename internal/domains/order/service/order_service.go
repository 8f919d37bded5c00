package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	bookmodel "bookmarket-backend/internal/domains/book/model"
	bookrepo "bookmarket-backend/internal/domains/book/repository"
	"bookmarket-backend/internal/domains/order/model"
	"bookmarket-backend/internal/domains/order/repository"
	"bookmarket-backend/internal/domains/payment/gateway"
	"bookmarket-backend/internal/shared/apperror"
	"bookmarket-backend/internal/shared/authz"
)

type orderService struct {
	orderRepo  repository.OrderRepository
	bookRepo   bookrepo.BookRepository
	gateway    gateway.CheckoutGateway
	roleLookup authz.RoleLookup
}

func NewOrderService(orderRepo repository.OrderRepository, bookRepo bookrepo.BookRepository, gw gateway.CheckoutGateway, roleLookup authz.RoleLookup) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		gateway:    gw,
		roleLookup: roleLookup,
	}
}

func (s *orderService) Create(ctx context.Context, boundEmail string, req model.CreateOrderRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.InvalidInputErr("Invalid order", err)
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

	o := &model.Order{
		ID:            uuid.New(),
		BookID:        req.BookID,
		UserEmail:     boundEmail,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
		CreatedAt:     time.Now(),
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, apperror.Upstream("Failed to create order", err)
	}

	return o, nil
}

func (s *orderService) GetDetail(ctx context.Context, boundEmail string, id uuid.UUID) (*model.DetailResponse, error) {
	o, err := s.getOwned(ctx, boundEmail, id)
	if err != nil {
		return nil, err
	}

	return o.ToDetailResponse(), nil
}

func (s *orderService) ListMine(ctx context.Context, boundEmail, email string) ([]model.Order, error) {
	if err := authz.RequireSelf(boundEmail, email); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByUserEmail(ctx, email)
	if err != nil {
		return nil, apperror.Upstream("Failed to list orders", err)
	}

	return orders, nil
}

func (s *orderService) ListInvoices(ctx context.Context, boundEmail, email string) ([]model.Order, error) {
	if err := authz.RequireSelf(boundEmail, email); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListPaidByUserEmail(ctx, email)
	if err != nil {
		return nil, apperror.Upstream("Failed to list invoices", err)
	}

	return orders, nil
}

func (s *orderService) ListForLibrarian(ctx context.Context, boundEmail, email string) ([]model.Order, error) {
	if err := authz.RequireSelf(boundEmail, email); err != nil {
		return nil, err
	}

	// An admin oversees the whole marketplace, not just an owned shelf.
	if role, err := s.roleLookup(ctx, email); err == nil && role == authz.RoleAdmin {
		orders, err := s.orderRepo.ListAll(ctx)
		if err != nil {
			return nil, apperror.Upstream("Failed to list orders", err)
		}
		return orders, nil
	}

	bookIDs, err := s.bookRepo.ListIDsByOwner(ctx, email)
	if err != nil {
		return nil, apperror.Upstream("Failed to list owned books", err)
	}

	orders, err := s.orderRepo.ListByBookIDs(ctx, bookIDs)
	if err != nil {
		return nil, apperror.Upstream("Failed to list orders", err)
	}

	return orders, nil
}

func (s *orderService) UpdateFulfillment(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.IsValidFulfillment() {
		return nil, apperror.InvalidInput(fmt.Sprintf("Unknown fulfillment status %q", status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, apperror.NotFound("Order not found")
		}
		return nil, apperror.Upstream("Failed to update order status", err)
	}

	return s.reload(ctx, id)
}

func (s *orderService) Cancel(ctx context.Context, boundEmail string, id uuid.UUID) (*model.Order, error) {
	if _, err := s.getOwned(ctx, boundEmail, id); err != nil {
		return nil, err
	}

	// Cancellation is unconditional: even delivered orders move to
	// (cancelled, cancelled). Refunds are out of scope.
	if err := s.orderRepo.Cancel(ctx, id); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, apperror.NotFound("Order not found")
		}
		return nil, apperror.Upstream("Failed to cancel order", err)
	}

	return s.reload(ctx, id)
}

func (s *orderService) ConfirmPayment(ctx context.Context, boundEmail string, id uuid.UUID, req model.PaymentSuccessRequest) (*model.Order, error) {
	if _, err := s.getOwned(ctx, boundEmail, id); err != nil {
		return nil, err
	}

	// A supplied session id must be settled at the provider before any
	// state moves. No session id means the caller is trusted as-is.
	if req.SessionID != nil && *req.SessionID != "" {
		status, err := s.gateway.RetrieveSession(ctx, *req.SessionID)
		if err != nil {
			return nil, apperror.Upstream("Failed to verify checkout session", err)
		}
		if !status.Settled {
			return nil, apperror.Conflict("PAYMENT_NOT_SETTLED", "Checkout session is not settled")
		}
	}

	if err := s.orderRepo.MarkPaid(ctx, id, req.SessionID); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, apperror.NotFound("Order not found")
		}
		return nil, apperror.Upstream("Failed to record payment", err)
	}

	return s.reload(ctx, id)
}

// getOwned loads the order and enforces that it belongs to the caller.
func (s *orderService) getOwned(ctx context.Context, boundEmail string, id uuid.UUID) (*model.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, apperror.NotFound("Order not found")
		}
		return nil, apperror.Upstream("Failed to get order", err)
	}

	if err := authz.RequireSelf(boundEmail, o.UserEmail); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *orderService) reload(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Upstream("Failed to reload order", err)
	}
	return o, nil
}
