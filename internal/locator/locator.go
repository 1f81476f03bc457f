// Package locator resolves human-supplied identifiers (SKU, email, order
// name, handle, external ID) to Shopify GIDs, with a short-circuit for
// identifiers that already are well-formed GIDs.
package locator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/shopify"
	apperrors "github.com/jafarshop/bulkeditor/pkg/errors"
)

var gidPattern = regexp.MustCompile(`^gid://shopify/([^/]+)/\d+$`)

// GIDType extracts the lowercase type segment of a well-formed Shopify GID,
// or "" when the value is not a GID.
func GIDType(value string) string {
	m := gidPattern.FindStringSubmatch(value)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// IsGID reports whether value is a well-formed Shopify GID
func IsGID(value string) bool {
	return gidPattern.MatchString(value)
}

// Validate rejects a well-formed GID whose embedded type disagrees with the
// selected object type, before any remote call is made. Non-GID values pass.
func Validate(objectType domain.ObjectType, value string) error {
	gidType := GIDType(value)
	if gidType == "" {
		return nil
	}
	if gidType != strings.ToLower(objectType.GIDTypeName()) {
		return &apperrors.ErrValidation{
			Message: fmt.Sprintf("identifier is of type %q but %q was selected: %s", gidType, objectType, value),
		}
	}
	return nil
}

// Executor is the slice of the GraphQL client the locator needs
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error)
}

// extraction shapes: how the first id is pulled out of a search response
type extractKind int

const (
	extractEdges         extractKind = iota // <field>.edges[0].node.id
	extractObject                           // <field>.id
	extractNodes                            // <field>.nodes[0].id
	extractVariantParent                    // productVariants.edges[0].node.product.id
)

// strategy is one row of the per-type lookup table
type strategy struct {
	query   string
	field   string
	extract extractKind
	build   func(v string) string
}

func searchPrefix(prefix string) func(string) string {
	return func(v string) string { return prefix + v }
}

func passthrough(v string) string { return v }

// strategies is the metafield-mode lookup table (product and collection
// resolve by handle directly).
var strategies = map[domain.ObjectType]strategy{
	domain.ObjectTypeCustomer: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "customers"),
		field: "customers", extract: extractEdges, build: searchPrefix("email:"),
	},
	domain.ObjectTypeOrder: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "orders"),
		field: "orders", extract: extractEdges, build: searchPrefix("name:"),
	},
	domain.ObjectTypeCompany: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "companies"),
		field: "companies", extract: extractEdges, build: searchPrefix("external_id:"),
	},
	domain.ObjectTypeCompanyLocation: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "companyLocations"),
		field: "companyLocations", extract: extractEdges, build: searchPrefix("external_id:"),
	},
	domain.ObjectTypeLocation: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "locations"),
		field: "locations", extract: extractEdges, build: searchPrefix("name:"),
	},
	domain.ObjectTypePage: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "pages"),
		field: "pages", extract: extractEdges, build: searchPrefix("handle:"),
	},
	domain.ObjectTypeBlogPost: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "articles"),
		field: "articles", extract: extractEdges, build: searchPrefix("handle:"),
	},
	domain.ObjectTypeArticle: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "articles"),
		field: "articles", extract: extractEdges, build: searchPrefix("handle:"),
	},
	domain.ObjectTypeProduct: {
		query: shopify.ProductByHandleQuery,
		field: "productByHandle", extract: extractObject, build: passthrough,
	},
	domain.ObjectTypeCollection: {
		query: shopify.CollectionByHandleQuery,
		field: "collectionByHandle", extract: extractObject, build: passthrough,
	},
	domain.ObjectTypeVariant: {
		query: fmt.Sprintf(shopify.SearchFirstQueryTemplate, "productVariants"),
		field: "productVariants", extract: extractEdges, build: searchPrefix("sku:"),
	},
	domain.ObjectTypeMarket: {
		query: shopify.MarketCatalogQuery,
		field: "catalogs", extract: extractNodes, build: searchPrefix("title:"),
	},
}

// tagStrategies is the tag-mode table: product identifiers are SKUs
// resolved to the variant's parent product, and only taggable types appear.
var tagStrategies = map[domain.ObjectType]strategy{
	domain.ObjectTypeCustomer: strategies[domain.ObjectTypeCustomer],
	domain.ObjectTypeOrder:    strategies[domain.ObjectTypeOrder],
	domain.ObjectTypeArticle:  strategies[domain.ObjectTypeArticle],
	domain.ObjectTypeBlogPost: strategies[domain.ObjectTypeBlogPost],
	domain.ObjectTypeProduct: {
		query: shopify.VariantParentBySKUQuery,
		field: "productVariants", extract: extractVariantParent, build: searchPrefix("sku:"),
	},
}

// Mode selects which lookup table applies
type Mode int

const (
	ModeMetafield Mode = iota
	ModeTag
)

type Locator struct {
	api    Executor
	logger *zap.Logger
}

// NewLocator creates a new resource locator
func NewLocator(api Executor, logger *zap.Logger) *Locator {
	return &Locator{api: api, logger: logger}
}

// Resolve turns a lookup value into a ResourceRef. A value that already is a
// GID of the right type is returned without any remote call; a GID of the
// wrong type is a validation error. A search with zero matches is *ErrNotFound.
func (l *Locator) Resolve(ctx context.Context, mode Mode, objectType domain.ObjectType, value string) (*domain.ResourceRef, error) {
	if err := Validate(objectType, value); err != nil {
		return nil, err
	}
	if IsGID(value) {
		return &domain.ResourceRef{ObjectType: objectType, ID: value}, nil
	}

	table := strategies
	if mode == ModeTag {
		table = tagStrategies
	}
	strat, ok := table[objectType]
	if !ok {
		return nil, fmt.Errorf("unsupported resource type: %s", objectType)
	}

	resp, err := l.api.Execute(ctx, strat.query, map[string]interface{}{
		"value": strat.build(value),
	})
	if err != nil {
		return nil, err
	}

	id, err := extractFirstID(resp.Data, strat.field, strat.extract)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &apperrors.ErrNotFound{Resource: string(objectType), ID: value}
	}
	return &domain.ResourceRef{ObjectType: objectType, ID: id}, nil
}

func extractFirstID(data json.RawMessage, field string, kind extractKind) (string, error) {
	switch kind {
	case extractEdges:
		var result map[string]struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return "", fmt.Errorf("parse resolve response: %w", err)
		}
		edges := result[field].Edges
		if len(edges) == 0 {
			return "", nil
		}
		return edges[0].Node.ID, nil

	case extractObject:
		var result map[string]*struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return "", fmt.Errorf("parse resolve response: %w", err)
		}
		obj := result[field]
		if obj == nil {
			return "", nil
		}
		return obj.ID, nil

	case extractNodes:
		var result map[string]struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return "", fmt.Errorf("parse resolve response: %w", err)
		}
		nodes := result[field].Nodes
		if len(nodes) == 0 {
			return "", nil
		}
		return nodes[0].ID, nil

	case extractVariantParent:
		var result struct {
			ProductVariants struct {
				Edges []struct {
					Node struct {
						Product struct {
							ID string `json:"id"`
						} `json:"product"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"productVariants"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return "", fmt.Errorf("parse resolve response: %w", err)
		}
		edges := result.ProductVariants.Edges
		if len(edges) == 0 {
			return "", nil
		}
		return edges[0].Node.Product.ID, nil
	}
	return "", fmt.Errorf("unknown extraction kind")
}
