// Package httppresentation exposes the storefront and admin JSON API.
package httppresentation

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appauth "github.com/grocermart/grocermart/internal/application/auth"
	appcart "github.com/grocermart/grocermart/internal/application/cart"
	"github.com/grocermart/grocermart/internal/application/checkout"
	"github.com/grocermart/grocermart/internal/application/currency"
	apppayment "github.com/grocermart/grocermart/internal/application/payment"
	appwishlist "github.com/grocermart/grocermart/internal/application/wishlist"
	domcatalog "github.com/grocermart/grocermart/internal/domain/catalog"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
	domuser "github.com/grocermart/grocermart/internal/domain/user"
	"github.com/grocermart/grocermart/internal/infrastructure/id"
	"github.com/grocermart/grocermart/internal/observability"

	"go.uber.org/zap"
)

const (
	cartCookie = "cart_session"
	userCookie = "user_session"

	cartCookieMaxAge = 7 * 24 * 3600
	userCookieMaxAge = 24 * 3600
)

type Handler struct {
	auth     *appauth.Service
	cart     *appcart.Service
	checkout *checkout.Service
	payment  *apppayment.Service
	wishlist *appwishlist.Service
	rates    *currency.Rates

	catalog domcatalog.Repository
	orders  domorder.Repository
	users   domuser.Repository

	ids     id.Generator
	metrics *observability.Metrics
	logger  *zap.Logger

	baseCurrency string
}

type Config struct {
	Auth     *appauth.Service
	Cart     *appcart.Service
	Checkout *checkout.Service
	Payment  *apppayment.Service
	Wishlist *appwishlist.Service
	Rates    *currency.Rates

	Catalog domcatalog.Repository
	Orders  domorder.Repository
	Users   domuser.Repository

	IDs     id.Generator
	Metrics *observability.Metrics
	Logger  *zap.Logger

	BaseCurrency string
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		auth:         cfg.Auth,
		cart:         cfg.Cart,
		checkout:     cfg.Checkout,
		payment:      cfg.Payment,
		wishlist:     cfg.Wishlist,
		rates:        cfg.Rates,
		catalog:      cfg.Catalog,
		orders:       cfg.Orders,
		users:        cfg.Users,
		ids:          cfg.IDs,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger.With(zap.String("component", "http_server")),
		baseCurrency: cfg.BaseCurrency,
	}
}

// Router builds the gin engine with all storefront and admin routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))
	r.Use(h.withTrace(), h.withObservability(), h.withCartSession())

	r.GET("/health", h.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.handleRegister)
		api.POST("/auth/login", h.handleLogin)
		api.POST("/auth/logout", h.handleLogout)
		api.GET("/auth/me", h.requireUser(), h.handleMe)

		api.GET("/products", h.handleListProducts)
		api.GET("/products/:id", h.handleGetProduct)

		api.GET("/exchange-rates", h.handleExchangeRates)

		api.GET("/cart", h.handleViewCart)
		api.POST("/cart/items", h.handleAddCartItem)
		api.PUT("/cart/items/:productID", h.handleUpdateCartItem)
		api.DELETE("/cart/items/:productID", h.handleRemoveCartItem)
		api.DELETE("/cart", h.handleClearCart)

		authed := api.Group("", h.requireUser())
		{
			authed.POST("/checkout", h.handleCheckout)

			authed.POST("/payment/session", h.handleCreatePaymentSession)
			authed.POST("/payment/capture", h.handleCapturePayment)
			authed.GET("/payment/return", h.handlePaymentReturn)

			authed.GET("/orders", h.handleListOrders)
			authed.GET("/orders/:id", h.handleGetOrder)

			authed.GET("/wishlist", h.handleListWishlist)
			authed.POST("/wishlist", h.handleAddWishlist)
			authed.PUT("/wishlist/:productID", h.handleUpdateWishlistNotes)
			authed.DELETE("/wishlist/:productID", h.handleRemoveWishlist)
			authed.DELETE("/wishlist", h.handleClearWishlist)
			authed.POST("/wishlist/move-to-cart", h.handleMoveWishlistToCart)
		}

		admin := api.Group("/admin", h.requireUser(), h.requireAdmin())
		{
			admin.GET("/products", h.handleAdminListProducts)
			admin.POST("/products", h.handleCreateProduct)
			admin.PUT("/products/:id", h.handleUpdateProduct)
			admin.DELETE("/products/:id", h.handleDeleteProduct)
			admin.PATCH("/products/:id/visibility", h.handleSetProductVisibility)

			admin.GET("/orders", h.handleAdminListOrders)
			admin.GET("/orders/:id", h.handleAdminGetOrder)

			admin.GET("/users", h.handleAdminListUsers)
			admin.PATCH("/users/:id/role", h.handleAdminSetRole)
			admin.DELETE("/users/:id", h.handleAdminDeleteUser)
		}
	}

	return r
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
