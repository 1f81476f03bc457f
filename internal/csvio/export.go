package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jafarshop/bulkeditor/internal/domain"
)

// ExportTagResults writes a tag batch outcome. The tag export capitalizes
// its headers (Id,Tags,Success,Error), unlike the metafield exports.
func ExportTagResults(w io.Writer, identifier domain.IdentifierKind, results []domain.BatchResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{string(identifier), "Tags", "Success", "Error"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, r := range results {
		tags := r.TagList
		if tags == "" && len(r.RemovedTags) > 0 {
			tags = strings.Join(r.RemovedTags, ",")
		}
		if err := writer.Write([]string{r.ID, tags, boolCell(r.Success), r.Error}); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportMetafieldResults writes a metafield update outcome. Columns: the
// identifier column, key, the value applied, success, error.
func ExportMetafieldResults(w io.Writer, identifier domain.IdentifierKind, results []domain.BatchResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{identifier.Column(), "key", "value", "success", "error"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, r := range results {
		var key, value string
		if r.Data != nil {
			key = r.Data.Key
			value = r.Data.Value
		}
		if err := writer.Write([]string{r.ID, key, value, boolCell(r.Success), r.Error}); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportRemovalResults writes a metafield removal outcome. The value column
// carries the deleted value so the file doubles as a manual recovery sheet.
func ExportRemovalResults(w io.Writer, identifier domain.IdentifierKind, results []domain.BatchResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{identifier.Column(), "success", "value", "error"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, r := range results {
		var value string
		if r.Data != nil {
			value = r.Data.Value
		}
		if err := writer.Write([]string{r.ID, boolCell(r.Success), value, r.Error}); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportTemplate writes the blank upload template for an object type: the
// GID column plus the human-friendly alternate identifier column.
func ExportTemplate(w io.Writer, objectType domain.ObjectType, withValue bool) error {
	writer := csv.NewWriter(w)

	header := []string{domain.IdentifierID.Column(), domain.AlternateIdentifier(objectType).Column()}
	if withValue {
		header = append(header, "value")
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

func boolCell(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
