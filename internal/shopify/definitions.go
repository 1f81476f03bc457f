package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jafarshop/bulkeditor/internal/domain"
)

// MetafieldDefinitionsQuery pages metafield definitions for an owner type
const MetafieldDefinitionsQuery = `
query fetchDefinitions($ownerType: MetafieldOwnerType!, $cursor: String) {
  metafieldDefinitions(first: 200, ownerType: $ownerType, after: $cursor) {
    edges {
      cursor
      node {
        namespace
        key
        name
        type { name }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}
`

// ownerTypeEnum maps our object types onto the MetafieldOwnerType enum
var ownerTypeEnum = map[domain.ObjectType]string{
	domain.ObjectTypeProduct:         "PRODUCT",
	domain.ObjectTypeVariant:         "PRODUCTVARIANT",
	domain.ObjectTypeCollection:      "COLLECTION",
	domain.ObjectTypeCustomer:        "CUSTOMER",
	domain.ObjectTypeOrder:           "ORDER",
	domain.ObjectTypeCompany:         "COMPANY",
	domain.ObjectTypeCompanyLocation: "COMPANY_LOCATION",
	domain.ObjectTypeLocation:        "LOCATION",
	domain.ObjectTypePage:            "PAGE",
	domain.ObjectTypeBlog:            "BLOG",
	domain.ObjectTypeBlogPost:        "ARTICLE",
	domain.ObjectTypeArticle:         "ARTICLE",
	domain.ObjectTypeMarket:          "MARKET",
}

// MetafieldDefinitions fetches every metafield definition for a resource
// type, following the cursor until exhaustion.
func (c *Client) MetafieldDefinitions(ctx context.Context, objectType domain.ObjectType) ([]domain.MetafieldDescriptor, error) {
	ownerType, ok := ownerTypeEnum[objectType]
	if !ok {
		return nil, fmt.Errorf("unsupported object type: %s", objectType)
	}

	var defs []domain.MetafieldDescriptor
	cursor := ""
	for {
		vars := map[string]interface{}{"ownerType": ownerType}
		if cursor != "" {
			vars["cursor"] = cursor
		}
		resp, err := c.Execute(ctx, MetafieldDefinitionsQuery, vars)
		if err != nil {
			return nil, fmt.Errorf("fetch definitions: %w", err)
		}
		var result struct {
			MetafieldDefinitions *struct {
				Edges []struct {
					Node struct {
						Namespace string `json:"namespace"`
						Key       string `json:"key"`
						Name      string `json:"name"`
						Type      struct {
							Name string `json:"name"`
						} `json:"type"`
					} `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"metafieldDefinitions"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, fmt.Errorf("parse definitions response: %w", err)
		}
		if result.MetafieldDefinitions == nil {
			break
		}
		for _, e := range result.MetafieldDefinitions.Edges {
			defs = append(defs, domain.MetafieldDescriptor{
				Namespace: e.Node.Namespace,
				Key:       e.Node.Key,
				Name:      e.Node.Name,
				Type:      e.Node.Type.Name,
			})
		}
		if !result.MetafieldDefinitions.PageInfo.HasNextPage {
			break
		}
		cursor = result.MetafieldDefinitions.PageInfo.EndCursor
	}
	return defs, nil
}
