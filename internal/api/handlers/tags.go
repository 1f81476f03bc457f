package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/service"
)

// AddTagsRequest is the body of POST /v1/tags/add.
type AddTagsRequest struct {
	ObjectType string       `json:"objectType" binding:"required"`
	Identifier string       `json:"identifier"`
	Rows       []RowRequest `json:"rows" binding:"required"`
	Tags       []string     `json:"tags"`
}

// HandleAddTags handles POST /v1/tags/add
func HandleAddTags(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddTagsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		objectType, ok := parseObjectType(c, req.ObjectType)
		if !ok {
			return
		}

		isNativeID := domain.IdentifierKind(req.Identifier) == domain.IdentifierID
		results, err := svcs.Executor.AddTags(c.Request.Context(), objectType, toRows(req.Rows), req.Tags, isNativeID, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		auditID := recordAudit(c, svcs, logger, domain.OperationTagsAdded, objectType, results)
		c.JSON(http.StatusOK, BatchResponse{
			Results:  results,
			Progress: service.Progress(len(results), len(req.Rows)),
			AuditID:  auditID,
		})
	}
}

// HandleRemoveTags handles POST /v1/tags/remove
func HandleRemoveTags(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddTagsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		objectType, ok := parseObjectType(c, req.ObjectType)
		if !ok {
			return
		}
		if len(req.Tags) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No tags provided"})
			return
		}

		isNativeID := domain.IdentifierKind(req.Identifier) == domain.IdentifierID
		results, err := svcs.Executor.RemoveTags(c.Request.Context(), objectType, toRows(req.Rows), req.Tags, isNativeID, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		auditID := recordAudit(c, svcs, logger, domain.OperationTagsRemoved, objectType, results)
		c.JSON(http.StatusOK, BatchResponse{
			Results:  results,
			Progress: service.Progress(len(results), len(req.Rows)),
			AuditID:  auditID,
		})
	}
}

// RemoveAllTagsRequest is the body of POST /v1/tags/remove-all. The client
// drives pagination by feeding back the returned cursor.
type RemoveAllTagsRequest struct {
	ObjectType string   `json:"objectType" binding:"required"`
	Tags       []string `json:"tags" binding:"required"`
	Cursor     string   `json:"cursor"`
}

// RemoveAllTagsResponse carries one page of store-wide removal results.
type RemoveAllTagsResponse struct {
	Results    []domain.BatchResult `json:"results"`
	NextCursor string               `json:"nextCursor,omitempty"`
	HasMore    bool                 `json:"hasMore"`
	AuditID    string               `json:"auditId,omitempty"`
}

// HandleRemoveAllTags handles POST /v1/tags/remove-all
func HandleRemoveAllTags(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RemoveAllTagsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		objectType, ok := parseObjectType(c, req.ObjectType)
		if !ok {
			return
		}

		results, nextCursor, hasMore, err := svcs.Executor.RemoveTagsFromAll(c.Request.Context(), objectType, req.Tags, req.Cursor)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		auditID := recordAudit(c, svcs, logger, domain.OperationTagsRemoved, objectType, results)
		c.JSON(http.StatusOK, RemoveAllTagsResponse{
			Results:    results,
			NextCursor: nextCursor,
			HasMore:    hasMore,
			AuditID:    auditID,
		})
	}
}

// SearchTagsRequest is the body of POST /v1/tags/search.
type SearchTagsRequest struct {
	ObjectType string                 `json:"objectType" binding:"required"`
	Conditions []service.TagCondition `json:"conditions"`
	MatchType  string                 `json:"matchType"`
}

// HandleSearchTags handles POST /v1/tags/search. The full tag universe is
// walked first; conditions apply once over the complete set.
func HandleSearchTags(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SearchTagsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		objectType, ok := parseObjectType(c, req.ObjectType)
		if !ok {
			return
		}

		allTags, err := svcs.Walker.AllTags(c.Request.Context(), objectType)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		matchType := service.MatchType(req.MatchType)
		if matchType == "" {
			matchType = service.MatchContain
		}
		matched := service.FilterTags(allTags, req.Conditions, matchType)

		c.JSON(http.StatusOK, gin.H{
			"tags":  matched,
			"total": len(allTags),
		})
	}
}
