package httppresentation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domwishlist "github.com/grocermart/grocermart/internal/domain/wishlist"
)

type wishlistEntryResponse struct {
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

func toWishlistResponses(entries []*domwishlist.Entry) []wishlistEntryResponse {
	out := make([]wishlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, wishlistEntryResponse{
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			Price:       e.Price.StringFixed(2),
			Stock:       e.Stock,
			Image:       e.Image,
			Category:    e.Category,
			Notes:       e.Notes,
			AddedAt:     e.AddedAt,
		})
	}
	return out
}

func (h *Handler) handleListWishlist(c *gin.Context) {
	u := currentUser(c)

	entries, err := h.wishlist.List(c.Request.Context(), u.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": toWishlistResponses(entries)})
}

// handleAddWishlist saves a product for later. Re-adding replaces the notes.
func (h *Handler) handleAddWishlist(c *gin.Context) {
	var req struct {
		ProductID int64  `json:"product_id" binding:"required"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u := currentUser(c)
	if err := h.wishlist.Add(c.Request.Context(), u.ID, req.ProductID, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleUpdateWishlistNotes(c *gin.Context) {
	pid, err := pathID(c, "productID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u := currentUser(c)
	if err := h.wishlist.UpdateNotes(c.Request.Context(), u.ID, pid, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleRemoveWishlist(c *gin.Context) {
	pid, err := pathID(c, "productID")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	u := currentUser(c)
	if err := h.wishlist.Remove(c.Request.Context(), u.ID, pid); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleClearWishlist(c *gin.Context) {
	u := currentUser(c)
	if err := h.wishlist.Clear(c.Request.Context(), u.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleMoveWishlistToCart moves every in-stock saved product into the
// session cart, one unit each. Skipped products remain saved.
func (h *Handler) handleMoveWishlistToCart(c *gin.Context) {
	u := currentUser(c)

	result, err := h.wishlist.MoveAllToCart(c.Request.Context(), u.ID, h.sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"moved":   result.Moved,
		"skipped": result.Skipped,
	})
}
