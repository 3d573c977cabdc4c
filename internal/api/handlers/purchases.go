package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/service"
)

// HandleListPurchases handles GET /v1/purchases
func HandleListPurchases(purchases *service.PurchaseService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := purchases.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, "Failed to list purchases", err)
			return
		}

		out := make([]PurchaseResponse, len(list))
		for i, p := range list {
			out[i] = purchaseResponse(p)
		}
		c.JSON(http.StatusOK, gin.H{"purchases": out})
	}
}

// HandleCreatePurchase handles POST /v1/purchases
func HandleCreatePurchase(purchases *service.PurchaseService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form service.PurchaseForm
		if err := c.ShouldBindJSON(&form); err != nil {
			bindError(c, err)
			return
		}

		purchase, err := purchases.Create(c.Request.Context(), form)
		if err != nil {
			respondError(c, logger, "Failed to create purchase", err)
			return
		}
		c.JSON(http.StatusCreated, purchaseResponse(purchase))
	}
}

// HandleUpdatePurchase handles PUT /v1/purchases/:id
func HandleUpdatePurchase(purchases *service.PurchaseService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		purchaseID, ok := parseID(c, "id", "purchase")
		if !ok {
			return
		}

		var form service.PurchaseForm
		if err := c.ShouldBindJSON(&form); err != nil {
			bindError(c, err)
			return
		}

		purchase, err := purchases.Update(c.Request.Context(), purchaseID, form)
		if err != nil {
			respondError(c, logger, "Failed to update purchase", err)
			return
		}
		c.JSON(http.StatusOK, purchaseResponse(purchase))
	}
}

// HandleListPurchaseItems handles GET /v1/purchases/:id/items
func HandleListPurchaseItems(purchases *service.PurchaseService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		purchaseID, ok := parseID(c, "id", "purchase")
		if !ok {
			return
		}

		items, err := purchases.LineItems(c.Request.Context(), purchaseID)
		if err != nil {
			respondError(c, logger, "Failed to list purchase items", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": lineItemResponses(items)})
	}
}

// HandleReplacePurchaseItems handles PUT /v1/purchases/:id/items
func HandleReplacePurchaseItems(purchases *service.PurchaseService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		purchaseID, ok := parseID(c, "id", "purchase")
		if !ok {
			return
		}

		var req service.ReplaceLineItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		items, totals, err := purchases.ReplaceLineItems(c.Request.Context(), purchaseID, req.Items)
		if err != nil {
			respondError(c, logger, "Failed to replace purchase items", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items":  lineItemResponses(items),
			"totals": totalsResponse(totals),
		})
	}
}

func lineItemResponses(items []*domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = lineItemResponse(*item)
	}
	return out
}
