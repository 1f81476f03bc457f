package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResourceRef identifies one remote Shopify entity
type ResourceRef struct {
	ObjectType ObjectType
	ID         string // gid://shopify/<Type>/<n>
}

// IdentifierRow is one parsed line of an uploaded CSV. Value is only set in
// metafield update mode (the raw pre-normalization cell).
type IdentifierRow struct {
	Identifier string
	Value      string
	Tags       []string
}

// MetafieldDescriptor identifies one metafield definition on a resource type.
// Type determines value encoding (scalar vs list.* vs *_reference).
type MetafieldDescriptor struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Name      string `json:"name,omitempty"`
	Type      string `json:"type"`
}

// MetafieldData is the reversible snapshot of one metafield taken before a
// destructive mutation (or the literal value applied by an update).
type MetafieldData struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// BatchResult is one outcome record. Exactly one is appended per row (or per
// owner within a page); insertion order matches processing order.
type BatchResult struct {
	ID          string         `json:"id"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	TagList     string         `json:"tagList,omitempty"`     // Tags-Added: comma-joined tags applied
	RemovedTags []string       `json:"removedTags,omitempty"` // Tags-removed: tags actually removed
	Data        *MetafieldData `json:"data,omitempty"`        // metafield operations
}

// AuditLogEntry is one persisted undo record, eligible for deletion 24 hours
// after Time. Restore flips to false exactly once, when the entry is claimed
// for undo.
type AuditLogEntry struct {
	ID              uuid.UUID
	UserName        string
	Operation       Operation
	Value           []BatchResult
	ObjectType      ObjectType
	MyshopifyDomain string
	Time            time.Time
	Restore         bool
}

// Page is one step of a cursor walk over a resource listing.
type Page struct {
	Items      []string // owner GIDs
	NextCursor string
	HasMore    bool
}

// TagPage is one step of a cursor walk over the tag universe of a type.
type TagPage struct {
	Tags       []string
	NextCursor string
	HasMore    bool
}

// TaggedItem is one resource matched by a tag search, with its full
// current tag set.
type TaggedItem struct {
	ID   string
	Tags []string
}

// TaggedPage is one step of a cursor walk over resources matching a tag
// search query.
type TaggedPage struct {
	Items      []TaggedItem
	NextCursor string
	HasMore    bool
}
