package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	appauth "github.com/grocermart/grocermart/internal/application/auth"
	appcart "github.com/grocermart/grocermart/internal/application/cart"
	"github.com/grocermart/grocermart/internal/application/checkout"
	"github.com/grocermart/grocermart/internal/application/currency"
	apppayment "github.com/grocermart/grocermart/internal/application/payment"
	appwishlist "github.com/grocermart/grocermart/internal/application/wishlist"
	domcart "github.com/grocermart/grocermart/internal/domain/cart"
	domcatalog "github.com/grocermart/grocermart/internal/domain/catalog"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
	dompayment "github.com/grocermart/grocermart/internal/domain/payment"
	domuser "github.com/grocermart/grocermart/internal/domain/user"
	domwishlist "github.com/grocermart/grocermart/internal/domain/wishlist"
	"github.com/grocermart/grocermart/internal/infrastructure/gateway"
	"github.com/grocermart/grocermart/internal/infrastructure/id"
	"github.com/grocermart/grocermart/internal/infrastructure/memory"
	"github.com/grocermart/grocermart/internal/infrastructure/postgres"
	"github.com/grocermart/grocermart/internal/infrastructure/rates"
	"github.com/grocermart/grocermart/internal/observability"
	"github.com/grocermart/grocermart/internal/pkg/logging"
	httppresentation "github.com/grocermart/grocermart/internal/presentation/http"
)

func main() {
	_ = godotenv.Load()

	serviceName := getenvDefault("SERVICE_NAME", "grocermart")
	env := getenvDefault("ENV", "dev")
	baseLogger := logging.MustNewLogger(serviceName, env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, trace.SpanContext{})

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	baseCurrency := getenvDefault("BASE_CURRENCY", "SGD")

	var (
		productRepo  domcatalog.Repository
		orderRepo    domorder.Repository
		userRepo     domuser.Repository
		wishlistRepo domwishlist.Repository
	)

	// With a DATABASE_URL the catalog, orders, users and wishlist live in
	// Postgres; without one everything runs in memory for local development.
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			systemLogger.Fatal("postgres_connect_failed", zap.Error(err))
		}
		defer pool.Close()

		productRepo = postgres.NewProductRepository(pool)
		orderRepo = postgres.NewOrderRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		wishlistRepo = postgres.NewWishlistRepository(pool)
		systemLogger.Info("storage_backend", zap.String("backend", "postgres"))
	} else {
		products := memory.NewProductRepository()
		productRepo = products
		orderRepo = memory.NewOrderRepository()
		userRepo = memory.NewUserRepository()
		wishlistRepo = memory.NewWishlistRepository(products)
		systemLogger.Info("storage_backend", zap.String("backend", "memory"))
	}

	// The cart is session state, not durable data; it always lives in memory.
	var cartStore domcart.Store = memory.NewCartStore()

	gateways := buildGateways(systemLogger)

	var rateSource currency.RateSource
	if ratesURL := os.Getenv("RATES_URL"); ratesURL != "" {
		rateSource = rates.NewHTTPSource(ratesURL)
	} else {
		rateSource = unavailableRateSource{}
		systemLogger.Warn("rates_url_unset")
	}

	ratesTTL := time.Hour
	if v := os.Getenv("RATES_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			systemLogger.Fatal("rates_ttl_invalid", zap.String("value", v), zap.Error(err))
		}
		ratesTTL = d
	}
	rateCache := currency.NewRates(rateSource, ratesTTL, nil)

	idGenerator := id.NewUUIDGenerator()

	cartService := appcart.NewService(cartStore, productRepo)
	checkoutService := checkout.NewService(orderRepo, productRepo, cartStore, metrics)
	paymentService := apppayment.NewService(gateways, checkoutService, cartStore, baseCurrency, metrics)
	wishlistService := appwishlist.NewService(wishlistRepo, cartService)
	authService := appauth.NewService(userRepo, idGenerator)

	handler := httppresentation.NewHandler(httppresentation.Config{
		Auth:         authService,
		Cart:         cartService,
		Checkout:     checkoutService,
		Payment:      paymentService,
		Wishlist:     wishlistService,
		Rates:        rateCache,
		Catalog:      productRepo,
		Orders:       orderRepo,
		Users:        userRepo,
		IDs:          idGenerator,
		Metrics:      metrics,
		Logger:       baseLogger,
		BaseCurrency: baseCurrency,
	})

	router := handler.Router()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	server := &http.Server{
		Addr:    getenvDefault("ADDR", ":8080"),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			zap.Error(err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
}

// buildGateways wires one gateway per rail. Rails without configured
// endpoints fall back to the always-paid stub so local checkout still works.
func buildGateways(logger *zap.Logger) map[apppayment.Rail]dompayment.Gateway {
	gateways := make(map[apppayment.Rail]dompayment.Gateway, 2)

	if url := os.Getenv("CARD_GATEWAY_URL"); url != "" {
		gateways[apppayment.RailCard] = gateway.NewCardGateway(url, os.Getenv("CARD_GATEWAY_KEY"))
	} else {
		gateways[apppayment.RailCard] = gateway.NewStubGateway(dompayment.StatusPaid)
		logger.Warn("card_gateway_stubbed")
	}

	if url := os.Getenv("WALLET_GATEWAY_URL"); url != "" {
		gateways[apppayment.RailWallet] = gateway.NewWalletGateway(url, os.Getenv("WALLET_GATEWAY_KEY"))
	} else {
		gateways[apppayment.RailWallet] = gateway.NewStubGateway(dompayment.StatusPaid)
		logger.Warn("wallet_gateway_stubbed")
	}

	return gateways
}

// unavailableRateSource always errors, which pushes the rate cache onto its
// static fallback table.
type unavailableRateSource struct{}

func (unavailableRateSource) Fetch(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	return nil, errors.New("no exchange rate source configured")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
