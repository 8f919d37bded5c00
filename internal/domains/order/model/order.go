package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidFulfillment reports whether a librarian may set this status
// directly. Processing is reserved for payment confirmation.
func (s OrderStatus) IsValidFulfillment() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// PaymentStatus tracks money separately from fulfillment.
type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) String() string {
	return string(s)
}

type Order struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	BookID            uuid.UUID     `json:"bookId" db:"book_id"`
	UserEmail         string        `json:"userEmail" db:"user_email"`
	Status            OrderStatus   `json:"status" db:"status"`
	PaymentStatus     PaymentStatus `json:"paymentStatus" db:"payment_status"`
	CheckoutSessionID *string       `json:"checkoutSessionId" db:"checkout_session_id"`
	PaidAt            *time.Time    `json:"paidAt" db:"paid_at"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
}

type CreateOrderRequest struct {
	BookID uuid.UUID `json:"bookId"`
	Email  string    `json:"email"`
}

func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(requireUUID)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

func requireUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "is required")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// PaymentSuccessRequest optionally names the checkout session to verify.
// When absent, confirmation is accepted without a broker check.
type PaymentSuccessRequest struct {
	SessionID *string `json:"sessionId"`
}

// DetailResponse is the restricted shape served to a purchaser looking up
// a single order; it omits the checkout session id.
type DetailResponse struct {
	ID            uuid.UUID     `json:"id"`
	BookID        uuid.UUID     `json:"bookId"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaidAt        *time.Time    `json:"paidAt"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func (o *Order) ToDetailResponse() *DetailResponse {
	return &DetailResponse{
		ID:            o.ID,
		BookID:        o.BookID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
	}
}
