package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrSessionNotFound = errors.New("payment: session not found")
	ErrDeclined        = errors.New("payment: declined by gateway")
	ErrPending         = errors.New("payment: still pending at gateway")
)

type Status string

const (
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// Session is what a gateway hands back when an amount is registered with it.
// Redirect-based rails fill RedirectURL; client-token rails fill ClientToken.
type Session struct {
	Reference   string
	RedirectURL string
	ClientToken string
}

// Confirmation is the gateway's answer for a payment reference.
type Confirmation struct {
	Status Status
	Amount decimal.Decimal
}

// Gateway is the out-of-band payment processor boundary. One implementation
// exists per rail (card and wallet); the service trusts nothing beyond this
// interface.
type Gateway interface {
	CreateSession(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*Session, error)
	Confirm(ctx context.Context, reference string) (*Confirmation, error)
}
