// Package csvio parses uploaded identifier CSVs and renders result CSVs.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/locator"
	"github.com/jafarshop/bulkeditor/pkg/errors"
)

// MaxRows caps one upload. Files over the cap are rejected wholesale rather
// than truncated, so the caller never silently processes a partial batch.
const MaxRows = 5000

// ImportOptions selects the columns the importer reads.
type ImportOptions struct {
	ObjectType domain.ObjectType
	Identifier domain.IdentifierKind

	// WithValue reads a "value" column (metafield updates).
	WithValue bool
	// WithTags reads a "tags" column (per-row tag batches).
	WithTags bool
}

// Import parses the upload. Headers are matched case-insensitively; column
// order does not matter. Rows whose identifier cell is empty are skipped.
// A row carrying a GID of the wrong resource type fails the whole import
// before anything is sent upstream.
func Import(r io.Reader, opts ImportOptions) ([]domain.IdentifierRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &errors.ErrValidation{Message: "CSV file is empty"}
	}
	if err != nil {
		return nil, &errors.ErrValidation{Message: fmt.Sprintf("Invalid CSV: %v", err)}
	}

	idCol := columnIndex(header, opts.Identifier.Column())
	if idCol < 0 {
		return nil, &errors.ErrValidation{
			Message: fmt.Sprintf("CSV is missing required column %q", opts.Identifier.Column()),
		}
	}
	valueCol := -1
	if opts.WithValue {
		if valueCol = columnIndex(header, "value"); valueCol < 0 {
			return nil, &errors.ErrValidation{Message: `CSV is missing required column "value"`}
		}
	}
	tagsCol := -1
	if opts.WithTags {
		tagsCol = columnIndex(header, "tags")
	}

	var rows []domain.IdentifierRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errors.ErrValidation{Message: fmt.Sprintf("Invalid CSV at line %d: %v", line, err)}
		}

		identifier := cell(record, idCol)
		if identifier == "" {
			continue
		}

		if opts.Identifier == domain.IdentifierID {
			if err := locator.Validate(opts.ObjectType, identifier); err != nil {
				return nil, err
			}
		}

		row := domain.IdentifierRow{Identifier: identifier}
		if valueCol >= 0 {
			row.Value = cell(record, valueCol)
		}
		if tagsCol >= 0 {
			row.Tags = splitTags(cell(record, tagsCol))
		}
		rows = append(rows, row)

		if len(rows) > MaxRows {
			return nil, &errors.ErrValidation{
				Message: fmt.Sprintf("CSV exceeds the maximum of %d rows", MaxRows),
			}
		}
	}

	if len(rows) == 0 {
		return nil, &errors.ErrValidation{Message: "CSV contains no data rows"}
	}
	return rows, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(t); v != "" {
			tags = append(tags, v)
		}
	}
	return tags
}
