package gateway

import "context"

// CreateSessionRequest describes one hosted checkout line item. UnitAmount
// is in minor units (cents).
type CreateSessionRequest struct {
	Name          string
	UnitAmount    int64
	Quantity      int
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// Session is the provider's hosted checkout page reference.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionStatus reports whether the provider considers the session paid.
type SessionStatus struct {
	ID      string `json:"id"`
	Settled bool   `json:"settled"`
}

// CheckoutGateway talks to the external payment provider. Implementations
// must not mutate any local state; settlement is recorded by the order
// service after it interprets the status.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}
