package gateway

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/grocermart/grocermart/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// StubGateway is an in-memory gateway for local development and tests. Every
// session confirms with the configured status unless overridden per reference.
type StubGateway struct {
	mu       sync.Mutex
	seq      int
	status   domain.Status
	sessions map[string]decimal.Decimal
	override map[string]domain.Status
	confirms map[string]int
}

func NewStubGateway(status domain.Status) *StubGateway {
	return &StubGateway{
		status:   status,
		sessions: make(map[string]decimal.Decimal),
		override: make(map[string]domain.Status),
		confirms: make(map[string]int),
	}
}

var _ domain.Gateway = (*StubGateway)(nil)

func (g *StubGateway) CreateSession(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.Session, error) {
	_ = ctx
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	ref := fmt.Sprintf("stub-%d", g.seq)
	g.sessions[ref] = amount
	return &domain.Session{
		Reference:   ref,
		RedirectURL: "/payment/return?ref=" + ref,
		ClientToken: "tok-" + ref,
	}, nil
}

func (g *StubGateway) Confirm(ctx context.Context, reference string) (*domain.Confirmation, error) {
	_ = ctx
	g.mu.Lock()
	defer g.mu.Unlock()

	g.confirms[reference]++
	amount, ok := g.sessions[reference]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	status := g.status
	if s, ok := g.override[reference]; ok {
		status = s
	}
	return &domain.Confirmation{Status: status, Amount: amount}, nil
}

// SetStatus overrides the confirmation outcome for a single reference.
func (g *StubGateway) SetStatus(reference string, status domain.Status) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.override[reference] = status
}

// ConfirmCalls reports how many times a reference has been polled.
func (g *StubGateway) ConfirmCalls(reference string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.confirms[reference]
}
