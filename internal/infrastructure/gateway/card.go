package gateway

import (
	"context"

	domain "github.com/grocermart/grocermart/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// CardGateway talks to a hosted-page card processor. A session yields a
// redirect URL the shopper is sent to, and the outcome is read back by
// reference once they return.
type CardGateway struct {
	client client
}

func NewCardGateway(baseURL, authKey string) *CardGateway {
	return &CardGateway{client: newClient(baseURL, authKey)}
}

var _ domain.Gateway = (*CardGateway)(nil)

func (g *CardGateway) CreateSession(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.Session, error) {
	resp, err := g.client.createSession(ctx, amount, currency, metadata)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Reference:   resp.Ref,
		RedirectURL: resp.RedirectURL,
	}, nil
}

func (g *CardGateway) Confirm(ctx context.Context, reference string) (*domain.Confirmation, error) {
	return g.client.confirm(ctx, reference)
}
