package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/service"
)

// UpdateMetafieldsRequest is the body of POST /v1/metafields/update.
type UpdateMetafieldsRequest struct {
	ObjectType string       `json:"objectType" binding:"required"`
	Identifier string       `json:"identifier"`
	Namespace  string       `json:"namespace" binding:"required"`
	Key        string       `json:"key" binding:"required"`
	Type       string       `json:"type" binding:"required"`
	ListMode   string       `json:"listMode"`
	Rows       []RowRequest `json:"rows" binding:"required"`
}

func parseListMode(raw string) service.ListMode {
	switch raw {
	case "replace":
		return service.ListReplace
	case "remove":
		return service.ListRemoveSubset
	default:
		return service.ListMerge
	}
}

// HandleUpdateMetafields handles POST /v1/metafields/update
func HandleUpdateMetafields(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateMetafieldsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		objectType, ok := parseObjectType(c, req.ObjectType)
		if !ok {
			return
		}

		desc := domain.MetafieldDescriptor{
			Namespace: req.Namespace,
			Key:       req.Key,
			Type:      req.Type,
		}
		isNativeID := domain.IdentifierKind(req.Identifier) == domain.IdentifierID
		results, err := svcs.Executor.UpdateMetafieldRows(c.Request.Context(), objectType, toRows(req.Rows), desc, parseListMode(req.ListMode), isNativeID, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		auditID := recordAudit(c, svcs, logger, domain.OperationMetafieldUpdated, objectType, results)
		c.JSON(http.StatusOK, BatchResponse{
			Results:  results,
			Progress: service.Progress(len(results), len(req.Rows)),
			AuditID:  auditID,
		})
	}
}

// RemoveMetafieldsRequest is the body of POST /v1/metafields/remove.
type RemoveMetafieldsRequest struct {
	ObjectType string       `json:"objectType" binding:"required"`
	Identifier string       `json:"identifier"`
	Namespace  string       `json:"namespace" binding:"required"`
	Key        string       `json:"key" binding:"required"`
	Rows       []RowRequest `json:"rows" binding:"required"`
}

// HandleRemoveMetafields handles POST /v1/metafields/remove
func HandleRemoveMetafields(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RemoveMetafieldsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		objectType, ok := parseObjectType(c, req.ObjectType)
		if !ok {
			return
		}

		isNativeID := domain.IdentifierKind(req.Identifier) == domain.IdentifierID
		results, err := svcs.Executor.RemoveMetafieldRows(c.Request.Context(), objectType, toRows(req.Rows), req.Namespace, req.Key, isNativeID, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		auditID := recordAudit(c, svcs, logger, domain.OperationMetafieldRemoved, objectType, results)
		c.JSON(http.StatusOK, BatchResponse{
			Results:  results,
			Progress: service.Progress(len(results), len(req.Rows)),
			AuditID:  auditID,
		})
	}
}

// RemoveAllMetafieldsRequest is the body of POST /v1/metafields/remove-all.
// One call processes one page; the client feeds the cursor back until
// hasMore is false.
type RemoveAllMetafieldsRequest struct {
	ObjectType string `json:"objectType" binding:"required"`
	Namespace  string `json:"namespace" binding:"required"`
	Key        string `json:"key" binding:"required"`
	Cursor     string `json:"cursor"`
	Processed  int    `json:"processed"`
}

// RemoveAllMetafieldsResponse carries one page of results plus overall
// progress against the store resource count.
type RemoveAllMetafieldsResponse struct {
	Results    []domain.BatchResult `json:"results"`
	NextCursor string               `json:"nextCursor,omitempty"`
	HasMore    bool                 `json:"hasMore"`
	Progress   int                  `json:"progress"`
	AuditID    string               `json:"auditId,omitempty"`
}

// HandleRemoveAllMetafields handles POST /v1/metafields/remove-all
func HandleRemoveAllMetafields(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RemoveAllMetafieldsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		objectType, ok := parseObjectType(c, req.ObjectType)
		if !ok {
			return
		}

		results, nextCursor, hasMore, err := svcs.Executor.RemoveMetafieldPage(c.Request.Context(), svcs.Walker, objectType, req.Namespace, req.Key, req.Cursor)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		total, err := svcs.API.ResourceCount(c.Request.Context(), objectType)
		if err != nil {
			logger.Warn("Could not fetch resource count for progress", zap.Error(err))
		}

		auditID := recordAudit(c, svcs, logger, domain.OperationMetafieldRemoved, objectType, results)
		c.JSON(http.StatusOK, RemoveAllMetafieldsResponse{
			Results:    results,
			NextCursor: nextCursor,
			HasMore:    hasMore,
			Progress:   service.Progress(req.Processed+len(results), total),
			AuditID:    auditID,
		})
	}
}

// HandleMetafieldDefinitions handles GET /v1/metafields/definitions
func HandleMetafieldDefinitions(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		objectType, ok := parseObjectType(c, c.Query("objectType"))
		if !ok {
			return
		}

		defs, err := svcs.API.MetafieldDefinitions(c.Request.Context(), objectType)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"definitions": defs})
	}
}
