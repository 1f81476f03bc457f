package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMetafieldValue(t *testing.T) {
	tests := []struct {
		name          string
		metafieldType string
		raw           string
		want          string
		wantErr       bool
	}{
		{"single line passthrough", "single_line_text_field", "hello world", "hello world", false},
		{"multi line unescapes", "multi_line_text_field", `line1\nline2`, "line1\nline2", false},
		{"integer valid", "number_integer", " 42 ", "42", false},
		{"integer invalid", "number_integer", "4.2", "", true},
		{"decimal valid", "number_decimal", "4.25", "4.25", false},
		{"decimal invalid", "number_decimal", "abc", "", true},
		{"boolean true", "boolean", "true", "true", false},
		{"boolean rejects yes", "boolean", "yes", "", true},
		{"bare date gets midnight", "date_time", "2024-03-01", "2024-03-01T00:00:00Z", false},
		{"full datetime untouched", "date_time", "2024-03-01T09:30:00Z", "2024-03-01T09:30:00Z", false},
		{"json passthrough", "json", `{"a":1}`, `{"a":1}`, false},
		{"url valid", "url", "https://example.com", "https://example.com", false},
		{"url rejects scheme-less", "url", "example.com", "", true},
		{"reference requires gid", "product_reference", "some-handle", "", true},
		{"reference gid passthrough", "product_reference", "gid://shopify/Product/1", "gid://shopify/Product/1", false},
		{"list from csv", "list.single_line_text_field", "blue, green", `["blue","green"]`, false},
		{"list from json", "list.single_line_text_field", `["a"]`, `["a"]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeMetafieldValue(tt.metafieldType, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeLinkShapes(t *testing.T) {
	// object literal passes through
	got, err := NormalizeMetafieldValue("link", `{"text":"Docs","url":"https://example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"text":"Docs","url":"https://example.com"}`, got)

	// bare URL is wrapped
	got, err = NormalizeMetafieldValue("link", "https://example.com/page")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"View","url":"https://example.com/page"}`, got)

	// type|gid shorthand
	got, err = NormalizeMetafieldValue("link", "product|gid://shopify/Product/5")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"product","id":"gid://shopify/Product/5"}`, got)

	_, err = NormalizeMetafieldValue("link", "not a link")
	assert.Error(t, err)
}

func TestIsListType(t *testing.T) {
	assert.True(t, IsListType("list.single_line_text_field"))
	assert.True(t, IsListType("list.metaobject_reference"))
	assert.False(t, IsListType("single_line_text_field"))
}
