package httppresentation

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleCheckout places the session cart as an order directly, without an
// external payment rail. The body is optional; when present it only carries
// display metadata.
func (h *Handler) handleCheckout(c *gin.Context) {
	var req checkoutMetaRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	meta, ok := req.toMeta()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported installment plan"})
		return
	}

	u := currentUser(c)
	result, err := h.checkout.PlaceOrder(c.Request.Context(), u.ID, h.sessionID(c), meta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPlacedOrderResponse(result))
}
