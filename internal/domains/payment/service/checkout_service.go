package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	bookmodel "bookmarket-backend/internal/domains/book/model"
	bookrepo "bookmarket-backend/internal/domains/book/repository"
	"bookmarket-backend/internal/domains/payment/gateway"
	"bookmarket-backend/internal/domains/payment/model"
	"bookmarket-backend/internal/shared/apperror"
	"bookmarket-backend/internal/shared/authz"
)

var minorUnitsPerUnit = decimal.NewFromInt(100)

// CheckoutService produces provider checkout sessions. Creating a session
// is a side-effect-free quote: no order state changes here.
type CheckoutService interface {
	CreateSession(ctx context.Context, boundEmail string, req model.CheckoutRequest) (*model.CheckoutResponse, error)
}

type checkoutService struct {
	gateway    gateway.CheckoutGateway
	bookRepo   bookrepo.BookRepository
	successURL string
	cancelURL  string
}

func NewCheckoutService(gw gateway.CheckoutGateway, bookRepo bookrepo.BookRepository, successURL, cancelURL string) CheckoutService {
	return &checkoutService{
		gateway:    gw,
		bookRepo:   bookRepo,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, boundEmail string, req model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.InvalidInputErr("Invalid checkout request", err)
	}

	if err := authz.RequireSelf(boundEmail, req.Email); err != nil {
		return nil, err
	}

	b, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, bookmodel.ErrBookNotFound) {
			return nil, apperror.NotFound("Book not found")
		}
		return nil, apperror.Upstream("Failed to get book", err)
	}

	// Providers price in minor units; 19.99 becomes 1999.
	unitAmount := b.Price.Mul(minorUnitsPerUnit).Round(0).IntPart()

	session, err := s.gateway.CreateSession(ctx, gateway.CreateSessionRequest{
		Name:          b.Title,
		UnitAmount:    unitAmount,
		Quantity:      1,
		CustomerEmail: req.Email,
		SuccessURL:    s.successURL,
		CancelURL:     s.cancelURL,
	})
	if err != nil {
		return nil, apperror.Upstream("Failed to create checkout session", err)
	}

	return &model.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}
