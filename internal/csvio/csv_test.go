package csvio

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/bulkeditor/internal/domain"
	apperrors "github.com/jafarshop/bulkeditor/pkg/errors"
)

func productOpts() ImportOptions {
	return ImportOptions{
		ObjectType: domain.ObjectTypeProduct,
		Identifier: domain.IdentifierHandle,
	}
}

func TestImportBasic(t *testing.T) {
	csv := "handle,value\nblue-shirt,red\nred-shirt,blue\n"
	rows, err := Import(strings.NewReader(csv), ImportOptions{
		ObjectType: domain.ObjectTypeProduct,
		Identifier: domain.IdentifierHandle,
		WithValue:  true,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "blue-shirt", rows[0].Identifier)
	assert.Equal(t, "red", rows[0].Value)
	assert.Equal(t, "red-shirt", rows[1].Identifier)
}

func TestImportHeaderCaseInsensitive(t *testing.T) {
	csv := "Handle,VALUE\nblue-shirt,x\n"
	rows, err := Import(strings.NewReader(csv), ImportOptions{
		ObjectType: domain.ObjectTypeProduct,
		Identifier: domain.IdentifierHandle,
		WithValue:  true,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "x", rows[0].Value)
}

func TestImportColumnOrderIrrelevant(t *testing.T) {
	csv := "value,handle\nred,blue-shirt\n"
	rows, err := Import(strings.NewReader(csv), ImportOptions{
		ObjectType: domain.ObjectTypeProduct,
		Identifier: domain.IdentifierHandle,
		WithValue:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "blue-shirt", rows[0].Identifier)
	assert.Equal(t, "red", rows[0].Value)
}

func TestImportQuotedFields(t *testing.T) {
	csv := "handle,value\n\"shirt, deluxe\",\"a \"\"quoted\"\" value\"\n"
	rows, err := Import(strings.NewReader(csv), ImportOptions{
		ObjectType: domain.ObjectTypeProduct,
		Identifier: domain.IdentifierHandle,
		WithValue:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "shirt, deluxe", rows[0].Identifier)
	assert.Equal(t, `a "quoted" value`, rows[0].Value)
}

func TestImportSkipsEmptyIdentifiers(t *testing.T) {
	csv := "handle\na\n\nb\n"
	rows, err := Import(strings.NewReader(csv), productOpts())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestImportMissingColumn(t *testing.T) {
	csv := "sku\nabc\n"
	_, err := Import(strings.NewReader(csv), productOpts())
	require.Error(t, err)
	var verr *apperrors.ErrValidation
	assert.ErrorAs(t, err, &verr)
}

func TestImportRowCap(t *testing.T) {
	build := func(n int) string {
		var sb strings.Builder
		sb.WriteString("handle\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, "item-%d\n", i)
		}
		return sb.String()
	}

	// exactly the cap is accepted
	rows, err := Import(strings.NewReader(build(MaxRows)), productOpts())
	require.NoError(t, err)
	assert.Len(t, rows, MaxRows)

	// one over is rejected wholesale
	_, err = Import(strings.NewReader(build(MaxRows+1)), productOpts())
	require.Error(t, err)
	var verr *apperrors.ErrValidation
	assert.ErrorAs(t, err, &verr)
}

func TestImportGIDTypeMismatchRejectsFile(t *testing.T) {
	csv := "id\ngid://shopify/Customer/1\n"
	_, err := Import(strings.NewReader(csv), ImportOptions{
		ObjectType: domain.ObjectTypeProduct,
		Identifier: domain.IdentifierID,
	})
	require.Error(t, err)
	var verr *apperrors.ErrValidation
	assert.ErrorAs(t, err, &verr)
}

func TestImportTagsColumn(t *testing.T) {
	csv := "handle,tags\nblue-shirt,\"sale, new\"\n"
	rows, err := Import(strings.NewReader(csv), ImportOptions{
		ObjectType: domain.ObjectTypeProduct,
		Identifier: domain.IdentifierHandle,
		WithTags:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sale", "new"}, rows[0].Tags)
}

func TestImportEmptyFile(t *testing.T) {
	_, err := Import(strings.NewReader(""), productOpts())
	assert.Error(t, err)

	_, err = Import(strings.NewReader("handle\n"), productOpts())
	assert.Error(t, err)
}

func TestExportTagResults(t *testing.T) {
	var buf bytes.Buffer
	err := ExportTagResults(&buf, domain.IdentifierEmail, []domain.BatchResult{
		{ID: "gid://shopify/Customer/1", Success: true, TagList: "VIP,gold"},
		{ID: "c2@test.com", Success: false, Error: "Failed to fetch resource ID"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Email,Tags,Success,Error", lines[0])
	assert.Equal(t, `gid://shopify/Customer/1,"VIP,gold",true,`, lines[1])
	assert.Equal(t, "c2@test.com,,false,Failed to fetch resource ID", lines[2])
}

func TestExportMetafieldResults(t *testing.T) {
	var buf bytes.Buffer
	err := ExportMetafieldResults(&buf, domain.IdentifierHandle, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, Data: &domain.MetafieldData{
			Namespace: "custom", Key: "color", Type: "single_line_text_field", Value: "red",
		}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "handle,key,value,success,error", lines[0])
	assert.Equal(t, "gid://shopify/Product/1,color,red,true,", lines[1])
}

func TestExportRemovalResults(t *testing.T) {
	var buf bytes.Buffer
	err := ExportRemovalResults(&buf, domain.IdentifierID, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, Data: &domain.MetafieldData{
			Value: "42",
		}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,success,value,error", lines[0])
	assert.Equal(t, "gid://shopify/Product/1,true,42,", lines[1])
}

func TestExportEscapesCommasAndQuotes(t *testing.T) {
	var buf bytes.Buffer
	err := ExportRemovalResults(&buf, domain.IdentifierID, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, Data: &domain.MetafieldData{
			Value: `["red","blue"]`,
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"[""red"",""blue""]"`)
}

func TestExportTemplate(t *testing.T) {
	var buf bytes.Buffer
	err := ExportTemplate(&buf, domain.ObjectTypeCustomer, true)
	require.NoError(t, err)
	assert.Equal(t, "id,email,value\n", buf.String())

	buf.Reset()
	err = ExportTemplate(&buf, domain.ObjectTypeVariant, false)
	require.NoError(t, err)
	assert.Equal(t, "id,sku\n", buf.String())
}
