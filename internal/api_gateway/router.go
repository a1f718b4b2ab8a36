package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventory-ledger/internal/api_gateway/handler"
	"github.com/inventory-ledger/internal/api_gateway/middleware"
)

// handlers groups the HTTP handlers mounted by setupRouter
type handlers struct {
	transactions *handler.TransactionHandler
	users        *handler.UserHandler
	catalog      *handler.CatalogHandler
	inventory    *handler.InventoryHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Ledger transactions; search is registered ahead of /:id
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", h.transactions.Create)
			transactions.GET("", h.transactions.List)
			transactions.GET("/search", h.transactions.Search)
			transactions.GET("/:id", h.transactions.GetByID)
			transactions.PUT("/:id", h.transactions.Update)
			transactions.PATCH("/:id", h.transactions.Update)
			transactions.DELETE("/:id", h.transactions.Delete)
		}

		users := v1.Group("/users")
		{
			users.POST("", h.users.Create)
			users.GET("", h.users.List)
			users.GET("/:id", h.users.GetByID)
			users.DELETE("/:id", h.users.Delete)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", h.catalog.CreateCategory)
			categories.GET("", h.catalog.ListCategories)
			categories.GET("/:id", h.catalog.GetCategory)
		}

		weights := v1.Group("/weights")
		{
			weights.POST("", h.catalog.CreateWeight)
			weights.GET("", h.catalog.ListWeights)
			weights.GET("/:id", h.catalog.GetWeight)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("", h.inventory.Create)
			inventory.GET("", h.inventory.List)
			inventory.GET("/:id", h.inventory.GetByID)
			inventory.DELETE("/:id", h.inventory.Delete)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
