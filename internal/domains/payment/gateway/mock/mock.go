package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"bookmarket-backend/internal/domains/payment/gateway"
)

// Gateway is an in-memory stand-in for the checkout provider. Sessions are
// created unsettled; tests flip them with Settle.
type Gateway struct {
	mu       sync.Mutex
	sessions map[string]bool

	CreateErr   error
	RetrieveErr error
}

func New() *Gateway {
	return &Gateway{sessions: map[string]bool{}}
}

func (g *Gateway) CreateSession(_ context.Context, req gateway.CreateSessionRequest) (*gateway.Session, error) {
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := "cs_test_" + uuid.NewString()
	g.sessions[id] = false

	return &gateway.Session{
		ID:  id,
		URL: "https://checkout.example.com/pay/" + id,
	}, nil
}

func (g *Gateway) RetrieveSession(_ context.Context, sessionID string) (*gateway.SessionStatus, error) {
	if g.RetrieveErr != nil {
		return nil, g.RetrieveErr
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	settled, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}

	return &gateway.SessionStatus{ID: sessionID, Settled: settled}, nil
}

// Settle marks an existing session as paid.
func (g *Gateway) Settle(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[sessionID] = true
}
