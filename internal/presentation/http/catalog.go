package httppresentation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domcatalog "github.com/grocermart/grocermart/internal/domain/catalog"
)

var errInvalidQueryPrice = errors.New("invalid price filter")

type productResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Visible     bool   `json:"visible"`
	InStock     bool   `json:"in_stock"`
}

func toProductResponse(p *domcatalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Quantity:    p.Quantity,
		Price:       p.Price.StringFixed(2),
		Image:       p.Image,
		Description: p.Description,
		Category:    p.Category,
		Visible:     p.Visible,
		InStock:     p.InStock(),
	}
}

func toProductResponses(products []*domcatalog.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// handleListProducts serves the storefront listing. Query parameters q,
// category, min_price, max_price and sort narrow the result; hidden
// products are never included here.
func (h *Handler) handleListProducts(c *gin.Context) {
	filter, err := searchFilterFromQuery(c, false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.catalog.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": toProductResponses(products)})
}

func (h *Handler) handleGetProduct(c *gin.Context) {
	pid, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	p, err := h.catalog.Get(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *Handler) handleAdminListProducts(c *gin.Context) {
	filter, err := searchFilterFromQuery(c, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.catalog.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": toProductResponses(products)})
}

type productRequest struct {
	Name        string `json:"name" binding:"required"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price" binding:"required"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *Handler) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	p, err := domcatalog.New(req.Name, req.Quantity, price, req.Image, req.Description, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}

	pid, err := h.catalog.Insert(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	p.ID = pid
	c.JSON(http.StatusCreated, toProductResponse(p))
}

// handleUpdateProduct replaces the editable fields. An empty image keeps
// the stored one so admins do not have to re-upload on every edit.
func (h *Handler) handleUpdateProduct(c *gin.Context) {
	pid, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}

	existing, err := h.catalog.Get(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err)
		return
	}

	existing.Name = req.Name
	existing.Quantity = req.Quantity
	existing.Price = price
	existing.Image = req.Image
	existing.Description = req.Description
	existing.Category = req.Category

	if err := h.catalog.Update(c.Request.Context(), existing); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(existing))
}

func (h *Handler) handleDeleteProduct(c *gin.Context) {
	pid, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), pid); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleSetProductVisibility(c *gin.Context) {
	pid, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req struct {
		Visible *bool `json:"visible" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.catalog.SetVisibility(c.Request.Context(), pid, *req.Visible); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": pid, "visible": *req.Visible})
}

func searchFilterFromQuery(c *gin.Context, includeHidden bool) (domcatalog.SearchFilter, error) {
	filter := domcatalog.SearchFilter{
		Term:          c.Query("q"),
		Category:      c.Query("category"),
		IncludeHidden: includeHidden,
	}

	if raw := c.Query("min_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errInvalidQueryPrice
		}
		filter.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errInvalidQueryPrice
		}
		filter.MaxPrice = &v
	}

	switch c.Query("sort") {
	case "price_asc":
		filter.Sort = domcatalog.SortPriceAsc
	case "price_desc":
		filter.Sort = domcatalog.SortPriceDesc
	}
	return filter, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
