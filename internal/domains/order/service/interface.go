package service

import (
	"context"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/order/model"
)

// OrderService is the business-logic contract for the order lifecycle.
type OrderService interface {
	Create(ctx context.Context, boundEmail string, req model.CreateOrderRequest) (*model.Order, error)
	// GetDetail serves the purchaser a restricted view of their own order.
	GetDetail(ctx context.Context, boundEmail string, id uuid.UUID) (*model.DetailResponse, error)
	ListMine(ctx context.Context, boundEmail, email string) ([]model.Order, error)
	// ListInvoices returns the caller's paid orders.
	ListInvoices(ctx context.Context, boundEmail, email string) ([]model.Order, error)
	// ListForLibrarian returns orders on the librarian's own books; admins
	// see every order.
	ListForLibrarian(ctx context.Context, boundEmail, email string) ([]model.Order, error)
	// UpdateFulfillment moves the fulfillment status without touching the
	// payment status.
	UpdateFulfillment(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
	// Cancel moves the purchaser's order to (cancelled, cancelled)
	// regardless of its current state.
	Cancel(ctx context.Context, boundEmail string, id uuid.UUID) (*model.Order, error)
	// ConfirmPayment records settlement: accepted when no session id is
	// supplied or the provider reports the session paid.
	ConfirmPayment(ctx context.Context, boundEmail string, id uuid.UUID, req model.PaymentSuccessRequest) (*model.Order, error)
}
