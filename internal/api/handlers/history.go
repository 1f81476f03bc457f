package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleListHistory handles GET /v1/history. Entries past the retention
// window are never returned even when the sweep has not deleted them yet.
func HandleListHistory(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopDomain := c.Query("shop")
		if shopDomain == "" {
			shopDomain = svcs.ShopDomain
		}

		entries, err := svcs.Repos.AuditLog.ListByDomain(c.Request.Context(), shopDomain)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// HandleRestore handles POST /v1/history/:id/restore
func HandleRestore(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit entry ID"})
			return
		}

		results, err := svcs.Restore.Restore(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}
