package httppresentation

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grocermart/grocermart/internal/application/checkout"
	"github.com/grocermart/grocermart/internal/application/currency"
	apppayment "github.com/grocermart/grocermart/internal/application/payment"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
)

type checkoutMetaRequest struct {
	DisplayCurrency string `json:"display_currency"`
	BNPLMonths      int    `json:"bnpl_months"`
}

func (r checkoutMetaRequest) toMeta() (domorder.Meta, bool) {
	meta := domorder.Meta{
		DisplayCurrency: strings.ToUpper(r.DisplayCurrency),
		BNPLMonths:      r.BNPLMonths,
	}
	if meta.BNPLMonths != 0 && !currency.ValidPlan(meta.BNPLMonths) {
		return meta, false
	}
	return meta, true
}

type placedOrderResponse struct {
	OrderID       int64    `json:"order_id"`
	Total         string   `json:"total"`
	StockWarnings []string `json:"stock_warnings,omitempty"`
}

func toPlacedOrderResponse(r *checkout.Result) placedOrderResponse {
	return placedOrderResponse{
		OrderID:       r.OrderID,
		Total:         r.Total.StringFixed(2),
		StockWarnings: r.StockWarnings,
	}
}

// handleCreatePaymentSession registers the cart total with the chosen rail's
// gateway. The amount is recomputed server-side, never taken from the client.
func (h *Handler) handleCreatePaymentSession(c *gin.Context) {
	var req struct {
		Rail string `json:"rail" binding:"required"`
		checkoutMetaRequest
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	meta, ok := req.toMeta()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported installment plan"})
		return
	}

	u := currentUser(c)
	session, err := h.payment.CreateIntent(c.Request.Context(), apppayment.Rail(req.Rail), u.ID, h.sessionID(c), meta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reference":    session.Reference,
		"redirect_url": session.RedirectURL,
		"client_token": session.ClientToken,
	})
}

// handleCapturePayment finishes the two-phase flow after the gateway
// approved the reference client-side.
func (h *Handler) handleCapturePayment(c *gin.Context) {
	var req struct {
		Rail      string `json:"rail" binding:"required"`
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.payment.Capture(c.Request.Context(), apppayment.Rail(req.Rail), req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPlacedOrderResponse(result))
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

// handlePaymentReturn is the redirect landing for hosted-page rails: the
// gateway sent the shopper back, the reference is confirmed out-of-band and
// the order placed from the live session cart.
func (h *Handler) handlePaymentReturn(c *gin.Context) {
	rail := c.DefaultQuery("rail", string(apppayment.RailCard))
	reference := c.Query("ref")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing payment reference"})
		return
	}

	meta, ok := checkoutMetaRequest{
		DisplayCurrency: c.Query("display_currency"),
		BNPLMonths:      queryInt(c, "bnpl_months"),
	}.toMeta()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported installment plan"})
		return
	}

	u := currentUser(c)
	result, err := h.payment.CompleteRedirect(c.Request.Context(), apppayment.Rail(rail), reference, u.ID, h.sessionID(c), meta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPlacedOrderResponse(result))
}
