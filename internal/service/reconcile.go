package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jafarshop/bulkeditor/pkg/errors"
)

// ListMode selects how incoming list values combine with the stored list
type ListMode int

const (
	ListMerge ListMode = iota
	ListReplace
	ListRemoveSubset
)

// ParseListValue accepts the three incoming shapes a list value may take: a
// JSON array string, or a comma-separated string. Elements are trimmed;
// empty elements are dropped.
func ParseListValue(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, fmt.Errorf("parse JSON list: %w", err)
		}
		return list, nil
	}
	var list []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			list = append(list, v)
		}
	}
	return list, nil
}

// ParseExistingList reads the stored list value. Absent or unparseable
// values are treated as empty, not as errors.
func ParseExistingList(stored string) []string {
	if strings.TrimSpace(stored) == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(stored), &list); err != nil {
		return nil
	}
	return list
}

// ReconcileList combines the stored list with the incoming values.
//
//   - Merge: deduplicated union, existing elements first, incoming elements
//     appended in first-seen order. Idempotent.
//   - Replace: incoming verbatim, duplicates and order preserved.
//   - RemoveSubset: existing minus incoming, surviving order preserved.
//
// An empty result means the caller must delete the metafield rather than
// set an empty array (the Admin API treats empty lists as absence).
func ReconcileList(existing, incoming []string, mode ListMode) []string {
	switch mode {
	case ListReplace:
		return incoming

	case ListRemoveSubset:
		remove := make(map[string]struct{}, len(incoming))
		for _, v := range incoming {
			remove[v] = struct{}{}
		}
		var out []string
		for _, v := range existing {
			if _, ok := remove[v]; !ok {
				out = append(out, v)
			}
		}
		return out

	default: // ListMerge
		seen := make(map[string]struct{}, len(existing)+len(incoming))
		var out []string
		for _, v := range existing {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
		for _, v := range incoming {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
		return out
	}
}

// EncodeList canonicalizes a list to the JSON array string the Admin API
// expects. A nil list encodes as [].
func EncodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(encoded), nil
}

// MetaobjectResolver resolves a metaobject handle to its GID; "" means no match
type MetaobjectResolver interface {
	ResolveMetaobjectHandle(ctx context.Context, metaobjectType, handle string) (string, error)
}

// ResolveReferenceList maps each element of a metaobject-reference list to a
// GID, resolving human handles through the API. Any unresolvable handle
// fails the whole list; partial application is never attempted.
func ResolveReferenceList(ctx context.Context, resolver MetaobjectResolver, metaobjectType string, elements []string) ([]string, error) {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		if strings.HasPrefix(el, "gid://") {
			out = append(out, el)
			continue
		}
		id, err := resolver.ResolveMetaobjectHandle(ctx, metaobjectType, el)
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, &errors.ErrNotFound{Resource: "metaobject", ID: el}
		}
		out = append(out, id)
	}
	return out, nil
}
