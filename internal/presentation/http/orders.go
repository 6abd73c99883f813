package httppresentation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grocermart/grocermart/internal/application/currency"
	domorder "github.com/grocermart/grocermart/internal/domain/order"
)

type orderItemResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
}

type orderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Total     string              `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []orderItemResponse `json:"items"`

	DisplayCurrency string               `json:"display_currency,omitempty"`
	BNPLMonths      int                  `json:"bnpl_months,omitempty"`
	Installment     *installmentResponse `json:"installment,omitempty"`
}

func toOrderResponse(o *domorder.Order) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Total:           o.Total.StringFixed(2),
		CreatedAt:       o.CreatedAt,
		Items:           make([]orderItemResponse, 0, len(o.Items)),
		DisplayCurrency: o.DisplayCurrency,
		BNPLMonths:      o.BNPLMonths,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price.StringFixed(2),
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal().StringFixed(2),
		})
	}
	if o.BNPLMonths > 0 {
		plan := currency.Installment(o.Total, o.BNPLMonths)
		resp.Installment = &installmentResponse{
			Months:         plan.Months,
			MonthlyPayment: plan.MonthlyPayment.StringFixed(2),
			Total:          plan.Total.StringFixed(2),
		}
	}
	return resp
}

func toOrderResponses(orders []*domorder.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func (h *Handler) handleListOrders(c *gin.Context) {
	u := currentUser(c)

	orders, err := h.orders.ListByUser(c.Request.Context(), u.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
}

// handleGetOrder serves one invoice. Customers only see their own orders;
// admins may fetch any via the admin route.
func (h *Handler) handleGetOrder(c *gin.Context) {
	oid, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.orders.Get(c.Request.Context(), oid)
	if err != nil {
		respondError(c, err)
		return
	}

	u := currentUser(c)
	if o.UserID != u.ID && !u.IsAdmin() {
		c.JSON(http.StatusNotFound, gin.H{"error": domorder.ErrNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *Handler) handleAdminListOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderResponses(orders)})
}

func (h *Handler) handleAdminGetOrder(c *gin.Context) {
	oid, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.orders.Get(c.Request.Context(), oid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}
