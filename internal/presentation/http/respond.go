package httppresentation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appauth "github.com/grocermart/grocermart/internal/application/auth"
	"github.com/grocermart/grocermart/internal/application/checkout"
	apppayment "github.com/grocermart/grocermart/internal/application/payment"
	domcart "github.com/grocermart/grocermart/internal/domain/cart"
	domcatalog "github.com/grocermart/grocermart/internal/domain/catalog"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
	dompayment "github.com/grocermart/grocermart/internal/domain/payment"
	domuser "github.com/grocermart/grocermart/internal/domain/user"
	domwishlist "github.com/grocermart/grocermart/internal/domain/wishlist"
	"github.com/grocermart/grocermart/internal/pkg/logging"
)

// respondError translates domain and application errors into HTTP statuses.
// Unknown errors become 500 with a generic body; the detail stays in the log.
func respondError(c *gin.Context, err error) {
	var insufficient *domcart.InsufficientStockError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":     insufficient.Error(),
			"remaining": insufficient.Remaining,
		})
	case errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, domcart.ErrEmpty),
		errors.Is(err, apppayment.ErrUnknownRail),
		errors.Is(err, domcatalog.ErrInvalidPrice),
		errors.Is(err, domcatalog.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domcart.ErrOutOfStock),
		errors.Is(err, appauth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domcart.ErrItemNotFound),
		errors.Is(err, domcatalog.ErrNotFound),
		errors.Is(err, domorder.ErrNotFound),
		errors.Is(err, domuser.ErrNotFound),
		errors.Is(err, domwishlist.ErrNotFound),
		errors.Is(err, dompayment.ErrSessionNotFound),
		errors.Is(err, apppayment.ErrIntentUnknown):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, appauth.ErrInvalidCredentials),
		errors.Is(err, appauth.ErrSessionInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, dompayment.ErrDeclined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, dompayment.ErrPending):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrOrderPersistence),
		errors.Is(err, checkout.ErrOrderItemPersistence):
		logging.FromContext(c.Request.Context()).Error("checkout_persistence_error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order could not be placed"})
	default:
		logging.FromContext(c.Request.Context()).Error("request_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
