package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/grocermart/grocermart/internal/application/checkout"
	domcart "github.com/grocermart/grocermart/internal/domain/cart"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
	dompayment "github.com/grocermart/grocermart/internal/domain/payment"
	"github.com/grocermart/grocermart/internal/observability"
	"github.com/grocermart/grocermart/internal/pkg/logging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Rail selects which external payment processor handles a checkout.
type Rail string

const (
	RailCard   Rail = "card"
	RailWallet Rail = "wallet"
)

var (
	ErrUnknownRail   = errors.New("payment: unknown rail")
	ErrIntentUnknown = errors.New("payment: no intent registered for reference")
)

// defaultConfirmAttempts bounds the status poll: a gateway still reporting
// pending after the last attempt is treated as failed.
const (
	defaultConfirmAttempts = 5
	defaultConfirmInterval = 500 * time.Millisecond
)

// Option adjusts service behaviour at construction time.
type Option func(*Service)

// WithConfirmPolicy overrides how many times, and at what interval, a
// pending confirmation is re-polled before giving up.
func WithConfirmPolicy(attempts int, interval time.Duration) Option {
	return func(s *Service) {
		s.confirmAttempts = attempts
		s.confirmInterval = interval
	}
}

type intent struct {
	UserID    int64
	SessionID string
	Amount    decimal.Decimal
	Meta      domorder.Meta
	Captured  bool
}

// Service funnels gateway "paid" confirmations into the order placement
// workflow. Payment success is established out-of-band; this service only
// trusts the gateway's answer for a reference it knows.
type Service struct {
	gateways map[Rail]dompayment.Gateway
	checkout *checkout.Service
	carts    domcart.Store
	metrics  *observability.Metrics

	// Currency every charge is made in; display currencies are cosmetic.
	baseCurrency string

	confirmAttempts int
	confirmInterval time.Duration

	mu      sync.Mutex
	intents map[string]*intent
}

func NewService(gateways map[Rail]dompayment.Gateway, checkoutSvc *checkout.Service, carts domcart.Store, baseCurrency string, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		gateways:        gateways,
		checkout:        checkoutSvc,
		carts:           carts,
		metrics:         metrics,
		baseCurrency:    baseCurrency,
		confirmAttempts: defaultConfirmAttempts,
		confirmInterval: defaultConfirmInterval,
		intents:         make(map[string]*intent),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompleteRedirect is the direct-capture variant: the gateway reported
// success via a redirect, so confirm the reference out-of-band, then re-read
// the session cart and place the order.
func (s *Service) CompleteRedirect(ctx context.Context, rail Rail, reference string, userID int64, sessionID string, meta domorder.Meta) (*checkout.Result, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "payment_service"))

	gw, ok := s.gateways[rail]
	if !ok {
		return nil, ErrUnknownRail
	}

	conf, err := s.confirm(ctx, gw, rail, reference)
	if err != nil {
		return nil, err
	}

	logger.Info("payment_confirmed",
		zap.String("rail", string(rail)),
		zap.String("reference", reference),
		zap.String("amount", conf.Amount.String()),
	)

	return s.checkout.PlaceOrder(ctx, userID, sessionID, meta)
}

// CreateIntent is phase one of the two-phase variant: register the
// server-computed cart total with the gateway before any redirect happens.
func (s *Service) CreateIntent(ctx context.Context, rail Rail, userID int64, sessionID string, meta domorder.Meta) (*dompayment.Session, error) {
	gw, ok := s.gateways[rail]
	if !ok {
		return nil, ErrUnknownRail
	}

	snapshot, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("payment: read cart: %w", err)
	}
	if snapshot.IsEmpty() {
		return nil, domcart.ErrEmpty
	}
	_, total := snapshot.Totals()

	session, err := gw.CreateSession(ctx, total, s.baseCurrency, map[string]string{
		"session_id": sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("payment: create session: %w", err)
	}

	s.mu.Lock()
	s.intents[session.Reference] = &intent{
		UserID:    userID,
		SessionID: sessionID,
		Amount:    total,
		Meta:      meta,
	}
	s.mu.Unlock()

	logging.FromContext(ctx).Info("payment_intent_created",
		zap.String("rail", string(rail)),
		zap.String("reference", session.Reference),
		zap.String("amount", total.String()),
	)

	return session, nil
}

// Capture is phase two: the client calls back after gateway-side approval.
// The gateway's own reference prevents duplicate charges, but the local
// order insert is not deduplicated: a repeated capture for the same
// reference places a second order.
func (s *Service) Capture(ctx context.Context, rail Rail, reference string) (*checkout.Result, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "payment_service"))

	gw, ok := s.gateways[rail]
	if !ok {
		return nil, ErrUnknownRail
	}

	s.mu.Lock()
	in, ok := s.intents[reference]
	if ok && in.Captured {
		logger.Warn("payment_capture_repeated", zap.String("reference", reference))
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrIntentUnknown
	}

	if _, err := s.confirm(ctx, gw, rail, reference); err != nil {
		return nil, err
	}

	result, err := s.checkout.PlaceOrder(ctx, in.UserID, in.SessionID, in.Meta)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	in.Captured = true
	s.mu.Unlock()

	return result, nil
}

// confirm polls the gateway a bounded number of times while it reports
// pending, then gives up and reports the timeout as failure.
func (s *Service) confirm(ctx context.Context, gw dompayment.Gateway, rail Rail, reference string) (*dompayment.Confirmation, error) {
	for attempt := 0; attempt < s.confirmAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.confirmInterval):
			}
		}

		conf, err := gw.Confirm(ctx, reference)
		if err != nil {
			s.metrics.PaymentConfirmations.WithLabelValues(string(rail), "error").Inc()
			return nil, fmt.Errorf("payment: confirm: %w", err)
		}

		switch conf.Status {
		case dompayment.StatusPaid:
			s.metrics.PaymentConfirmations.WithLabelValues(string(rail), "paid").Inc()
			return conf, nil
		case dompayment.StatusFailed:
			s.metrics.PaymentConfirmations.WithLabelValues(string(rail), "failed").Inc()
			return nil, dompayment.ErrDeclined
		case dompayment.StatusPending:
			// retry
		}
	}

	s.metrics.PaymentConfirmations.WithLabelValues(string(rail), "timeout").Inc()
	return nil, dompayment.ErrPending
}
