package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the prometheus instruments shared across the service.
// Vectors are created once at startup and injected; handlers and services
// never instantiate metrics themselves.
type Metrics struct {
	CheckoutRequests       *prometheus.CounterVec // labels: outcome
	CheckoutDuration       prometheus.Histogram
	StockDecrementFailures prometheus.Counter
	PaymentConfirmations   *prometheus.CounterVec // labels: rail, outcome
	HTTPRequests           *prometheus.CounterVec // labels: method, route, status
	HTTPRequestDuration    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CheckoutRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_requests_total",
				Help: "Total number of order placement attempts.",
			},
			[]string{"outcome"},
		),
		CheckoutDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "checkout_duration_seconds",
				Help:    "Duration of the order placement workflow in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
		StockDecrementFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "checkout_stock_decrement_failures_total",
				Help: "Count of best-effort stock decrements that failed after order placement.",
			},
		),
		PaymentConfirmations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_confirmations_total",
				Help: "Gateway payment confirmations by rail and outcome.",
			},
			[]string{"rail", "outcome"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests served.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		m.CheckoutRequests,
		m.CheckoutDuration,
		m.StockDecrementFailures,
		m.PaymentConfirmations,
		m.HTTPRequests,
		m.HTTPRequestDuration,
	)
	return m
}

// NewTestMetrics returns metrics bound to a private registry, for tests.
func NewTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
