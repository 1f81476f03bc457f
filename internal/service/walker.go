package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/shopify"
)

// ownerPageSize is how many owner ids one page fetch returns in store-wide
// metafield removal
const ownerPageSize = 200

// Walker drives cursor pagination over the Admin API. Cursors are opaque
// and never persisted; an interrupted walk restarts from the beginning.
type Walker struct {
	api    shopify.AdminAPI
	logger *zap.Logger
}

// NewWalker creates a new pagination cursor walker
func NewWalker(api shopify.AdminAPI, logger *zap.Logger) *Walker {
	return &Walker{api: api, logger: logger}
}

// OwnerPage fetches one page of owner ids, continuing from cursor (empty
// cursor starts over). An empty data envelope terminates the walk.
func (w *Walker) OwnerPage(ctx context.Context, objectType domain.ObjectType, cursor string) (*domain.Page, error) {
	return w.api.OwnerPage(ctx, objectType, ownerPageSize, cursor)
}

// AllTags walks every tag page of an object type and returns the complete
// deduplicated tag universe in first-seen order.
func (w *Walker) AllTags(ctx context.Context, objectType domain.ObjectType) ([]string, error) {
	seen := make(map[string]struct{})
	var tags []string
	cursor := ""
	for {
		page, err := w.api.TagPage(ctx, objectType, cursor)
		if err != nil {
			return nil, err
		}
		for _, t := range page.Tags {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
		if !page.HasMore || page.NextCursor == "" {
			return tags, nil
		}
		cursor = page.NextCursor
	}
}

// MatchType selects how a filter condition matches a tag
type MatchType string

const (
	MatchContain MatchType = "contain"
	MatchExact   MatchType = "exact"
	MatchStart   MatchType = "start"
	MatchEnd     MatchType = "end"
)

// TagCondition is one step of a tag filter. Operator combines this
// condition with the accumulated result ("AND" narrows, anything else
// widens); the first condition's operator is ignored.
type TagCondition struct {
	Tag      string `json:"tag"`
	Operator string `json:"operator"`
}

func matchTag(tag string, cond TagCondition, matchType MatchType) bool {
	value := strings.ToLower(strings.TrimSpace(cond.Tag))
	t := strings.ToLower(tag)
	switch matchType {
	case MatchExact:
		return t == value
	case MatchStart:
		return strings.HasPrefix(t, value)
	case MatchEnd:
		return strings.HasSuffix(t, value)
	default:
		return strings.Contains(t, value)
	}
}

// FilterTags applies the conditions once over the complete tag set, folding
// AND/OR left to right. It is only called after the walk finishes; filtering
// is never incremental.
func FilterTags(allTags []string, conditions []TagCondition, matchType MatchType) []string {
	if len(conditions) == 0 {
		return allTags
	}

	var result []string
	for _, tag := range allTags {
		if matchTag(tag, conditions[0], matchType) {
			result = append(result, tag)
		}
	}

	for i := 1; i < len(conditions); i++ {
		cond := conditions[i]
		if cond.Operator == "AND" {
			var narrowed []string
			for _, tag := range result {
				if matchTag(tag, cond, matchType) {
					narrowed = append(narrowed, tag)
				}
			}
			result = narrowed
			continue
		}
		// OR: union with every tag matching this condition, dedup keeping
		// first-seen order
		seen := make(map[string]struct{}, len(result))
		for _, tag := range result {
			seen[tag] = struct{}{}
		}
		for _, tag := range allTags {
			if matchTag(tag, cond, matchType) {
				if _, ok := seen[tag]; !ok {
					seen[tag] = struct{}{}
					result = append(result, tag)
				}
			}
		}
	}
	return result
}

// Progress reports completed work as a whole percentage of total, floored.
// A zero total reports zero.
func Progress(processed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := processed * 100 / total
	if pct > 100 {
		pct = 100
	}
	return pct
}
