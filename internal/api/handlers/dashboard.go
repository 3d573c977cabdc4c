package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/service"
)

const defaultTransactionLimit = 10

// HandleDashboardStats handles GET /v1/dashboard/stats
func HandleDashboardStats(dashboard *service.DashboardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := dashboard.Stats(c.Request.Context())
		if err != nil {
			respondError(c, logger, "Failed to load dashboard stats", err)
			return
		}
		c.JSON(http.StatusOK, statsResponse(stats))
	}
}

// HandleRecentTransactions handles GET /v1/dashboard/transactions?limit=
func HandleRecentTransactions(dashboard *service.DashboardService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultTransactionLimit)))
		if err != nil || limit < 0 {
			limit = defaultTransactionLimit
		}

		feed, err := dashboard.RecentTransactions(c.Request.Context(), limit)
		if err != nil {
			respondError(c, logger, "Failed to load recent transactions", err)
			return
		}

		out := make([]TransactionResponse, len(feed))
		for i, tx := range feed {
			out[i] = TransactionResponse{
				Type:        tx.Type,
				ID:          tx.ID,
				Date:        formatDate(tx.Date),
				Description: tx.Description,
				Total:       money(tx.Total),
				Status:      tx.Status,
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions": out,
			"limit":        limit,
		})
	}
}
