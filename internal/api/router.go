package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/api/handlers"
	"github.com/jafarshop/bulkeditor/internal/config"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svcs *handlers.Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Bulk Editor API",
			"endpoints": []string{
				"GET /health",
				"POST /v1/tags/add",
				"POST /v1/tags/remove",
				"POST /v1/tags/remove-all",
				"POST /v1/tags/search",
				"POST /v1/metafields/update",
				"POST /v1/metafields/remove",
				"POST /v1/metafields/remove-all",
				"GET /v1/metafields/definitions",
				"GET /v1/history",
				"POST /v1/history/:id/restore",
				"POST /v1/import/csv",
				"POST /v1/export/csv",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		tags := v1.Group("/tags")
		{
			tags.POST("/add", handlers.HandleAddTags(svcs, logger))
			tags.POST("/remove", handlers.HandleRemoveTags(svcs, logger))
			tags.POST("/remove-all", handlers.HandleRemoveAllTags(svcs, logger))
			tags.POST("/search", handlers.HandleSearchTags(svcs, logger))
		}

		metafields := v1.Group("/metafields")
		{
			metafields.POST("/update", handlers.HandleUpdateMetafields(svcs, logger))
			metafields.POST("/remove", handlers.HandleRemoveMetafields(svcs, logger))
			metafields.POST("/remove-all", handlers.HandleRemoveAllMetafields(svcs, logger))
			metafields.GET("/definitions", handlers.HandleMetafieldDefinitions(svcs, logger))
		}

		v1.GET("/history", handlers.HandleListHistory(svcs, logger))
		v1.POST("/history/:id/restore", handlers.HandleRestore(svcs, logger))

		v1.POST("/import/csv", handlers.HandleImportCSV(svcs, logger))
		v1.POST("/export/csv", handlers.HandleExportCSV(svcs, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
