package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/notify"
	"github.com/jafarshop/compras/internal/service"
)

// HandleOpenCart handles POST /v1/carts
func HandleOpenCart(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart := carts.Open(c.Request.Context())
		c.JSON(http.StatusCreated, cartResponse(cart))
	}
}

// HandleGetCart handles GET /v1/carts/:id
func HandleGetCart(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseUUID(c, "id", "cart")
		if !ok {
			return
		}

		cart, err := carts.Get(c.Request.Context(), cartID)
		if err != nil {
			respondError(c, logger, "Failed to get cart", err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleDiscardCart handles DELETE /v1/carts/:id
func HandleDiscardCart(carts *service.CartService, feed *notify.Feed, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseUUID(c, "id", "cart")
		if !ok {
			return
		}

		if err := carts.Discard(c.Request.Context(), cartID); err != nil {
			respondError(c, logger, "Failed to discard cart", err)
			return
		}
		feed.Forget(cartID)
		c.Status(http.StatusNoContent)
	}
}

// HandleSelectPurchase handles PUT /v1/carts/:id/purchase
func HandleSelectPurchase(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseUUID(c, "id", "cart")
		if !ok {
			return
		}

		var req service.SelectPurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		cart, err := carts.SelectPurchase(c.Request.Context(), cartID, req.PurchaseID)
		if err != nil {
			respondError(c, logger, "Failed to select purchase", err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleClearCart handles DELETE /v1/carts/:id/purchase
func HandleClearCart(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseUUID(c, "id", "cart")
		if !ok {
			return
		}

		cart, err := carts.Clear(c.Request.Context(), cartID)
		if err != nil {
			respondError(c, logger, "Failed to clear cart", err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleAddItem handles POST /v1/carts/:id/items
func HandleAddItem(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseUUID(c, "id", "cart")
		if !ok {
			return
		}

		var req service.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		cart, item, err := carts.AddItem(c.Request.Context(), cartID, req.ProductID, req.Quantity)
		if err != nil {
			respondError(c, logger, "Failed to add item", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"item": lineItemResponse(item),
			"cart": cartResponse(cart),
		})
	}
}

// HandleRemoveItem handles DELETE /v1/carts/:id/items/:itemId
func HandleRemoveItem(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseUUID(c, "id", "cart")
		if !ok {
			return
		}
		itemID, ok := parseUUID(c, "itemId", "item")
		if !ok {
			return
		}

		cart, err := carts.RemoveItem(c.Request.Context(), cartID, itemID)
		if err != nil {
			respondError(c, logger, "Failed to remove item", err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// HandleCommitCart handles POST /v1/carts/:id/commit
func HandleCommitCart(carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseUUID(c, "id", "cart")
		if !ok {
			return
		}

		totals, err := carts.Commit(c.Request.Context(), cartID)
		if err != nil {
			respondError(c, logger, "Failed to commit cart", err)
			return
		}

		cart, err := carts.Get(c.Request.Context(), cartID)
		if err != nil {
			respondError(c, logger, "Failed to get cart", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"totals": totalsResponse(totals),
			"cart":   cartResponse(cart),
		})
	}
}

// HandleCartNotifications handles GET /v1/carts/:id/notifications
func HandleCartNotifications(feed *notify.Feed, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseUUID(c, "id", "cart")
		if !ok {
			return
		}

		pending := feed.Drain(cartID)
		out := make([]NotificationResponse, len(pending))
		for i, n := range pending {
			out[i] = NotificationResponse{
				Level:     n.Level,
				Title:     n.Title,
				Message:   n.Message,
				CreatedAt: n.CreatedAt.Format(time.RFC3339),
			}
		}
		c.JSON(http.StatusOK, gin.H{"notifications": out})
	}
}
