package gateway

import (
	"context"

	domain "github.com/grocermart/grocermart/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// WalletGateway talks to a client-side wallet processor. CreateSession returns
// a client token the frontend hands to the wallet SDK, and capture is driven by
// the processor's server callback.
type WalletGateway struct {
	client client
}

func NewWalletGateway(baseURL, authKey string) *WalletGateway {
	return &WalletGateway{client: newClient(baseURL, authKey)}
}

var _ domain.Gateway = (*WalletGateway)(nil)

func (g *WalletGateway) CreateSession(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.Session, error) {
	resp, err := g.client.createSession(ctx, amount, currency, metadata)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Reference:   resp.Ref,
		ClientToken: resp.ClientToken,
	}, nil
}

func (g *WalletGateway) Confirm(ctx context.Context, reference string) (*domain.Confirmation, error) {
	return g.client.confirm(ctx, reference)
}
