// Package handlers implements the HTTP surface of the bulk editor.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/repository"
	"github.com/jafarshop/bulkeditor/internal/service"
	"github.com/jafarshop/bulkeditor/internal/shopify"
	"github.com/jafarshop/bulkeditor/pkg/errors"
)

// Services bundles the dependencies every handler closure receives.
// UserName and ShopDomain are the shop identity fetched once at startup;
// audit entries stamp them without a per-request remote call.
type Services struct {
	API        shopify.AdminAPI
	Executor   *service.BatchExecutor
	Restore    *service.RestoreService
	Walker     *service.Walker
	Repos      *repository.Repositories
	UserName   string
	ShopDomain string
}

// RowRequest is one uploaded row in a batch request body.
type RowRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Value      string `json:"value"`
}

// BatchResponse is the shared response envelope for batch endpoints.
type BatchResponse struct {
	Results  []domain.BatchResult `json:"results"`
	Progress int                  `json:"progress"`
	AuditID  string               `json:"auditId,omitempty"`
}

func toRows(rows []RowRequest) []domain.IdentifierRow {
	out := make([]domain.IdentifierRow, len(rows))
	for i, r := range rows {
		out[i] = domain.IdentifierRow{Identifier: r.Identifier, Value: r.Value}
	}
	return out
}

// respondError maps the error taxonomy onto HTTP statuses. Only errors that
// escape the row boundary reach here; row failures travel inside results.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Message, "fields": e.Fields})
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": e.Message})
	case *errors.ErrRemoteMutation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error()})
	case *errors.ErrTransport:
		logger.Error("Upstream request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseObjectType(c *gin.Context, raw string) (domain.ObjectType, bool) {
	t := domain.ObjectType(raw)
	if !t.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid objectType: " + raw})
		return "", false
	}
	return t, true
}

// recordAudit persists the successful rows of a finished batch. Failed rows
// never enter the undo log; a batch with no successes records nothing.
func recordAudit(c *gin.Context, svcs *Services, logger *zap.Logger, op domain.Operation, objectType domain.ObjectType, results []domain.BatchResult) string {
	var successes []domain.BatchResult
	for _, r := range results {
		if r.Success {
			successes = append(successes, r)
		}
	}
	if len(successes) == 0 {
		return ""
	}

	entry := &domain.AuditLogEntry{
		UserName:        svcs.UserName,
		Operation:       op,
		Value:           successes,
		ObjectType:      objectType,
		MyshopifyDomain: svcs.ShopDomain,
	}
	if err := svcs.Repos.AuditLog.Record(c.Request.Context(), entry); err != nil {
		// the batch already ran; losing the undo entry is logged, not fatal
		logger.Error("Failed to record audit entry", zap.Error(err))
		return ""
	}
	return entry.ID.String()
}
