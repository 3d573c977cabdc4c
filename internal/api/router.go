package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/api/handlers"
	"github.com/jafarshop/compras/internal/api/middleware"
	"github.com/jafarshop/compras/internal/config"
	"github.com/jafarshop/compras/internal/notify"
	"github.com/jafarshop/compras/internal/repository"
	"github.com/jafarshop/compras/internal/service"
	"github.com/jafarshop/compras/internal/session"
)

// NewRouter creates and configures the Gin router. sessions may be nil, in
// which case carts live only in memory.
func NewRouter(cfg *config.Config, repos *repository.Repositories, sessions session.Store, feed *notify.Feed, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	sink := notify.Multi{notify.NewLogSink(logger), feed}
	cartOpts := []service.CartOption{service.WithIdleTTL(cfg.Sessions.TTL, feed.Forget)}
	if sessions != nil {
		cartOpts = append(cartOpts, service.WithSessionStore(sessions))
	}
	carts := service.NewCartService(repos, sink, logger, cartOpts...)
	catalog := service.NewCatalogService(repos, logger)
	purchases := service.NewPurchaseService(repos, logger)
	dashboard := service.NewDashboardService(repos, logger)

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		cartRoutes := v1.Group("/carts")
		{
			cartRoutes.POST("", handlers.HandleOpenCart(carts, logger))
			cartRoutes.GET("/:id", handlers.HandleGetCart(carts, logger))
			cartRoutes.DELETE("/:id", handlers.HandleDiscardCart(carts, feed, logger))
			cartRoutes.PUT("/:id/purchase", handlers.HandleSelectPurchase(carts, logger))
			cartRoutes.DELETE("/:id/purchase", handlers.HandleClearCart(carts, logger))
			cartRoutes.POST("/:id/items", handlers.HandleAddItem(carts, logger))
			cartRoutes.DELETE("/:id/items/:itemId", handlers.HandleRemoveItem(carts, logger))
			cartRoutes.POST("/:id/commit", handlers.HandleCommitCart(carts, logger))
			cartRoutes.GET("/:id/notifications", handlers.HandleCartNotifications(feed, logger))
		}

		v1.GET("/catalog", handlers.HandleGetCatalog(catalog, logger))
		v1.GET("/categories", handlers.HandleListCategories(catalog, logger))

		v1.GET("/products", handlers.HandleListProducts(catalog, logger))
		v1.POST("/products", handlers.HandleCreateProduct(catalog, logger))
		v1.PUT("/products/:id", handlers.HandleUpdateProduct(catalog, logger))
		v1.DELETE("/products/:id", handlers.HandleDeleteProduct(catalog, logger))

		v1.GET("/suppliers", handlers.HandleListSuppliers(catalog, logger))
		v1.POST("/suppliers", handlers.HandleCreateSupplier(catalog, logger))
		v1.PUT("/suppliers/:id", handlers.HandleUpdateSupplier(catalog, logger))
		v1.DELETE("/suppliers/:id", handlers.HandleDeleteSupplier(catalog, logger))

		purchaseRoutes := v1.Group("/purchases")
		{
			purchaseRoutes.GET("", handlers.HandleListPurchases(purchases, logger))
			purchaseRoutes.POST("", handlers.HandleCreatePurchase(purchases, logger))
			purchaseRoutes.PUT("/:id", handlers.HandleUpdatePurchase(purchases, logger))
			purchaseRoutes.GET("/:id/items", handlers.HandleListPurchaseItems(purchases, logger))
			purchaseRoutes.PUT("/:id/items", handlers.HandleReplacePurchaseItems(purchases, logger))
		}

		dashboardRoutes := v1.Group("/dashboard")
		{
			dashboardRoutes.GET("/stats", handlers.HandleDashboardStats(dashboard, logger))
			dashboardRoutes.GET("/transactions", handlers.HandleRecentTransactions(dashboard, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("HTTP request", fields...)
			return
		}
		logger.Info("HTTP request", fields...)
	}
}
