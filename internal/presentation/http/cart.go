package httppresentation

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grocermart/grocermart/internal/application/currency"
)

type cartLineResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Image       string `json:"image,omitempty"`
	LineTotal   string `json:"line_total"`
}

type installmentResponse struct {
	Months         int    `json:"months"`
	MonthlyPayment string `json:"monthly_payment"`
	Total          string `json:"total"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total string             `json:"total"`

	DisplayCurrency string                `json:"display_currency,omitempty"`
	DisplayTotal    string                `json:"display_total,omitempty"`
	Installments    []installmentResponse `json:"installments,omitempty"`
}

// handleViewCart renders the priced cart. An optional currency query adds a
// display conversion; the charge currency never changes. Installment
// breakdowns are always offered off the base-currency total.
func (h *Handler) handleViewCart(c *gin.Context) {
	ctx := c.Request.Context()

	lines, total, err := h.cart.Totals(ctx, h.sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := cartResponse{
		Lines: make([]cartLineResponse, 0, len(lines)),
		Total: total.StringFixed(2),
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, cartLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price.StringFixed(2),
			Quantity:    line.Quantity,
			Image:       line.Image,
			LineTotal:   line.LineTotal.StringFixed(2),
		})
	}

	if code := strings.ToUpper(c.Query("currency")); code != "" && code != h.baseCurrency {
		table, err := h.rates.Get(ctx, h.baseCurrency)
		if err == nil {
			resp.DisplayCurrency = code
			resp.DisplayTotal = table.Convert(total, code).StringFixed(2)
		}
	}

	for _, plan := range currency.InstallmentPlans(total) {
		resp.Installments = append(resp.Installments, installmentResponse{
			Months:         plan.Months,
			MonthlyPayment: plan.MonthlyPayment.StringFixed(2),
			Total:          plan.Total.StringFixed(2),
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleAddCartItem(c *gin.Context) {
	var req struct {
		ProductID int64 `json:"product_id" binding:"required"`
		Quantity  int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.cart.AddItem(c.Request.Context(), h.sessionID(c), req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleUpdateCartItem(c *gin.Context) {
	pid, err := pathID(c, "productID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.cart.UpdateQuantity(c.Request.Context(), h.sessionID(c), pid, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleRemoveCartItem(c *gin.Context) {
	pid, err := pathID(c, "productID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.cart.RemoveItem(c.Request.Context(), h.sessionID(c), pid); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), h.sessionID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleExchangeRates serves the cached rate table for display conversion.
func (h *Handler) handleExchangeRates(c *gin.Context) {
	base := strings.ToUpper(c.DefaultQuery("base", h.baseCurrency))

	table, err := h.rates.Get(c.Request.Context(), base)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported base currency"})
		return
	}

	rates := make(map[string]string, len(table.Rates))
	for code, rate := range table.Rates {
		rates[code] = rate.String()
	}
	c.JSON(http.StatusOK, gin.H{
		"base":       table.Base,
		"rates":      rates,
		"updated_at": table.UpdatedAt,
	})
}
