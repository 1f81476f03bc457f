package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/csvio"
	"github.com/jafarshop/bulkeditor/internal/domain"
)

// HandleImportCSV handles POST /v1/import/csv. The multipart file is parsed
// and validated; the parsed rows come back for the client to submit to a
// batch endpoint. Nothing is mutated here.
func HandleImportCSV(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		objectType, ok := parseObjectType(c, c.PostForm("objectType"))
		if !ok {
			return
		}

		identifier := domain.IdentifierKind(c.PostForm("identifier"))
		if identifier.Column() == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier kind"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing CSV file"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
			return
		}
		defer file.Close()

		rows, err := csvio.Import(file, csvio.ImportOptions{
			ObjectType: objectType,
			Identifier: identifier,
			WithValue:  c.PostForm("withValue") == "true",
			WithTags:   c.PostForm("withTags") == "true",
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"rows": rows, "count": len(rows)})
	}
}

// ExportCSVRequest is the body of POST /v1/export/csv.
type ExportCSVRequest struct {
	Mode       string               `json:"mode" binding:"required"` // tags | metafields | removal | template
	ObjectType string               `json:"objectType"`
	Identifier string               `json:"identifier"`
	WithValue  bool                 `json:"withValue"`
	Results    []domain.BatchResult `json:"results"`
}

// HandleExportCSV handles POST /v1/export/csv
func HandleExportCSV(svcs *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExportCSVRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		identifier := domain.IdentifierKind(req.Identifier)
		if identifier.Column() == "" {
			identifier = domain.IdentifierID
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="results.csv"`)

		var err error
		switch req.Mode {
		case "tags":
			err = csvio.ExportTagResults(c.Writer, identifier, req.Results)
		case "metafields":
			err = csvio.ExportMetafieldResults(c.Writer, identifier, req.Results)
		case "removal":
			err = csvio.ExportRemovalResults(c.Writer, identifier, req.Results)
		case "template":
			objectType, ok := parseObjectType(c, req.ObjectType)
			if !ok {
				return
			}
			err = csvio.ExportTemplate(c.Writer, objectType, req.WithValue)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown export mode: %s", req.Mode)})
			return
		}
		if err != nil {
			logger.Error("CSV export failed", zap.Error(err))
		}
	}
}
