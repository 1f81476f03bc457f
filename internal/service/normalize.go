package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/jafarshop/bulkeditor/pkg/errors"
)

var httpURLPattern = regexp.MustCompile(`(?i)^https?://`)

// IsListType reports whether a metafield type holds a JSON array value
func IsListType(metafieldType string) bool {
	return strings.HasPrefix(metafieldType, "list.")
}

// NormalizeMetafieldValue converts a raw CSV cell into the exact string the
// metafieldsSet mutation expects for the declared type. List values always
// come out as a JSON array string; invalid values are validation errors.
func NormalizeMetafieldValue(metafieldType, raw string) (string, error) {
	if IsListType(metafieldType) {
		list, err := ParseListValue(raw)
		if err != nil {
			return "", &apperrors.ErrValidation{
				Message: fmt.Sprintf("invalid value for list metafield (%s)", metafieldType),
			}
		}
		encoded, err := json.Marshal(list)
		if err != nil {
			return "", fmt.Errorf("encode list value: %w", err)
		}
		return string(encoded), nil
	}

	if strings.Contains(metafieldType, "_reference") {
		v := strings.TrimSpace(raw)
		if !strings.HasPrefix(v, "gid://") {
			return "", &apperrors.ErrValidation{Message: "invalid GID reference"}
		}
		return v, nil
	}

	switch metafieldType {
	case "single_line_text_field":
		return raw, nil

	case "multi_line_text_field":
		return strings.ReplaceAll(raw, `\n`, "\n"), nil

	case "number_integer":
		if _, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err != nil {
			return "", &apperrors.ErrValidation{Message: "invalid integer"}
		}
		return strings.TrimSpace(raw), nil

	case "number_decimal":
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
			return "", &apperrors.ErrValidation{Message: "invalid decimal"}
		}
		return strings.TrimSpace(raw), nil

	case "boolean":
		switch raw {
		case "true", "false":
			return raw, nil
		}
		return "", &apperrors.ErrValidation{Message: "invalid boolean"}

	case "date_time":
		// A bare date becomes midnight UTC
		if !strings.Contains(raw, "T") {
			return raw + "T00:00:00Z", nil
		}
		return raw, nil

	case "json":
		return raw, nil

	case "link":
		v := strings.TrimSpace(raw)
		if strings.HasPrefix(v, "{") {
			return v, nil
		}
		if httpURLPattern.MatchString(v) {
			encoded, err := json.Marshal(map[string]string{"text": "View", "url": v})
			if err != nil {
				return "", fmt.Errorf("encode link value: %w", err)
			}
			return string(encoded), nil
		}
		// internal link shorthand: type|gid
		if strings.Contains(v, "|") {
			parts := strings.SplitN(v, "|", 2)
			gid := strings.TrimSpace(parts[1])
			if strings.HasPrefix(gid, "gid://") {
				encoded, err := json.Marshal(map[string]string{"type": strings.TrimSpace(parts[0]), "id": gid})
				if err != nil {
					return "", fmt.Errorf("encode link value: %w", err)
				}
				return string(encoded), nil
			}
		}
		return "", &apperrors.ErrValidation{Message: "invalid link value"}

	case "url":
		v := strings.TrimSpace(raw)
		if !httpURLPattern.MatchString(v) {
			return "", &apperrors.ErrValidation{Message: "invalid URL"}
		}
		return v, nil

	default:
		return raw, nil
	}
}
