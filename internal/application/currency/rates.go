package currency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grocermart/grocermart/internal/pkg/logging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// RateSource fetches live exchange rates for a base currency.
type RateSource interface {
	Fetch(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

// Table is one cached snapshot of rates against a base currency.
type Table struct {
	Base      string
	Rates     map[string]decimal.Decimal
	UpdatedAt time.Time
}

// Rates memoizes exchange-rate lookups with a TTL. Conversion is display
// only: customers are always charged in the base currency. The clock is
// injected so expiry is testable without real delays.
type Rates struct {
	source RateSource
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	cached map[string]*Table
}

func NewRates(source RateSource, ttl time.Duration, now func() time.Time) *Rates {
	if now == nil {
		now = time.Now
	}
	return &Rates{
		source: source,
		ttl:    ttl,
		now:    now,
		cached: make(map[string]*Table),
	}
}

// Get returns the cached table for base, refreshing through the source when
// the TTL has lapsed. When a refresh fails and a stale table exists, the
// stale table is served; with no table at all, the static fallback is used.
func (r *Rates) Get(ctx context.Context, base string) (*Table, error) {
	if _, err := currency.ParseISO(base); err != nil {
		return nil, fmt.Errorf("currency: invalid base %q: %w", base, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.cached[base]; ok && r.now().Sub(t.UpdatedAt) < r.ttl {
		return t, nil
	}

	rates, err := r.source.Fetch(ctx, base)
	if err != nil {
		logging.FromContext(ctx).Warn("exchange_rates_fetch_failed",
			zap.String("base", base),
			zap.Error(err),
		)
		if t, ok := r.cached[base]; ok {
			return t, nil
		}
		if fb, ok := fallbackRates[base]; ok {
			t := &Table{Base: base, Rates: fb, UpdatedAt: r.now()}
			r.cached[base] = t
			return t, nil
		}
		return nil, fmt.Errorf("currency: fetch rates: %w", err)
	}

	t := &Table{Base: base, Rates: rates, UpdatedAt: r.now()}
	r.cached[base] = t
	return t, nil
}

// Convert applies the cached rate for code to an amount in the base
// currency. Unknown codes return the amount unchanged.
func (t *Table) Convert(amount decimal.Decimal, code string) decimal.Decimal {
	rate, ok := t.Rates[code]
	if !ok {
		return amount
	}
	return amount.Mul(rate).Round(2)
}

// Approximate rates used when no source answer was ever obtained.
var fallbackRates = map[string]map[string]decimal.Decimal{
	"SGD": {
		"SGD": decimal.NewFromFloat(1.00),
		"USD": decimal.NewFromFloat(0.74),
		"EUR": decimal.NewFromFloat(0.68),
		"GBP": decimal.NewFromFloat(0.58),
		"JPY": decimal.NewFromFloat(110.50),
		"AUD": decimal.NewFromFloat(1.09),
		"CNY": decimal.NewFromFloat(4.76),
		"MYR": decimal.NewFromFloat(3.12),
		"THB": decimal.NewFromFloat(25.20),
		"KRW": decimal.NewFromFloat(880.00),
	},
}
