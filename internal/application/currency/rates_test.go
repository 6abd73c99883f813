package currency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocermart/grocermart/internal/application/currency"
)

type scriptedSource struct {
	tables []map[string]decimal.Decimal
	errs   []error
	calls  int
}

func (s *scriptedSource) Fetch(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	_ = ctx
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.tables) {
		return s.tables[i], nil
	}
	return nil, errors.New("no more scripted responses")
}

func rate(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestRates_CachesWithinTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	src := &scriptedSource{tables: []map[string]decimal.Decimal{
		{"USD": rate("0.75")},
		{"USD": rate("0.80")},
	}}
	rates := currency.NewRates(src, time.Hour, func() time.Time { return now })
	ctx := context.Background()

	first, err := rates.Get(ctx, "SGD")
	require.NoError(t, err)
	assert.True(t, first.Rates["USD"].Equal(rate("0.75")))

	// Within the TTL the source is not consulted again.
	now = now.Add(30 * time.Minute)
	again, err := rates.Get(ctx, "SGD")
	require.NoError(t, err)
	assert.True(t, again.Rates["USD"].Equal(rate("0.75")))
	assert.Equal(t, 1, src.calls)

	// Past the TTL the next call refreshes.
	now = now.Add(31 * time.Minute)
	fresh, err := rates.Get(ctx, "SGD")
	require.NoError(t, err)
	assert.True(t, fresh.Rates["USD"].Equal(rate("0.80")))
	assert.Equal(t, 2, src.calls)
}

func TestRates_ServesStaleOnRefreshFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	src := &scriptedSource{
		tables: []map[string]decimal.Decimal{{"USD": rate("0.75")}, nil},
		errs:   []error{nil, errors.New("upstream down")},
	}
	rates := currency.NewRates(src, time.Minute, func() time.Time { return now })
	ctx := context.Background()

	_, err := rates.Get(ctx, "SGD")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	stale, err := rates.Get(ctx, "SGD")
	require.NoError(t, err)
	assert.True(t, stale.Rates["USD"].Equal(rate("0.75")), "stale table beats no table")
}

func TestRates_FallbackWhenNeverFetched(t *testing.T) {
	src := &scriptedSource{errs: []error{errors.New("upstream down")}}
	rates := currency.NewRates(src, time.Minute, nil)

	table, err := rates.Get(context.Background(), "SGD")
	require.NoError(t, err)
	assert.True(t, table.Rates["USD"].GreaterThan(decimal.Zero), "static fallback served")
}

func TestRates_RejectsInvalidBase(t *testing.T) {
	rates := currency.NewRates(&scriptedSource{}, time.Minute, nil)

	_, err := rates.Get(context.Background(), "NOPE")
	require.Error(t, err)
}

func TestTable_Convert(t *testing.T) {
	table := &currency.Table{
		Base:  "SGD",
		Rates: map[string]decimal.Decimal{"USD": rate("0.74")},
	}

	got := table.Convert(rate("10.00"), "USD")
	assert.True(t, got.Equal(rate("7.40")))

	// Unknown codes pass the amount through unchanged.
	same := table.Convert(rate("10.00"), "XXX")
	assert.True(t, same.Equal(rate("10.00")))
}

func TestInstallment(t *testing.T) {
	tests := []struct {
		name        string
		total       string
		months      int
		wantMonthly string
	}{
		{name: "even split", total: "90.00", months: 3, wantMonthly: "30.00"},
		{name: "rounds to cents", total: "100.00", months: 3, wantMonthly: "33.33"},
		{name: "twelve months", total: "240.00", months: 12, wantMonthly: "20.00"},
		{name: "zero months is one payment", total: "50.00", months: 0, wantMonthly: "50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := currency.Installment(rate(tt.total), tt.months)
			assert.True(t, plan.MonthlyPayment.Equal(rate(tt.wantMonthly)),
				"want %s, got %s", tt.wantMonthly, plan.MonthlyPayment)
		})
	}
}

func TestValidPlan(t *testing.T) {
	assert.True(t, currency.ValidPlan(3))
	assert.True(t, currency.ValidPlan(6))
	assert.True(t, currency.ValidPlan(12))
	assert.False(t, currency.ValidPlan(0))
	assert.False(t, currency.ValidPlan(4))
}

func TestInstallmentPlans(t *testing.T) {
	plans := currency.InstallmentPlans(rate("120.00"))
	require.Len(t, plans, 3)
	assert.Equal(t, 3, plans[0].Months)
	assert.Equal(t, 12, plans[2].Months)
	assert.True(t, plans[2].MonthlyPayment.Equal(rate("10.00")))
}
