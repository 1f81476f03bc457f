package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	apperrors "github.com/jafarshop/bulkeditor/pkg/errors"
)

// AdminAPI is the surface of the Admin GraphQL API the batch engine
// consumes. *Client implements it; tests substitute fakes.
type AdminAPI interface {
	GetTags(ctx context.Context, id string) ([]string, error)
	AddTags(ctx context.Context, id string, tags []string) error
	RemoveTags(ctx context.Context, id string, tags []string) error

	GetMetafield(ctx context.Context, ownerID, namespace, key string) (*domain.MetafieldData, error)
	SetMetafield(ctx context.Context, input MetafieldsSetInput) error
	DeleteMetafield(ctx context.Context, ownerID, namespace, key string) error

	ResourceCount(ctx context.Context, objectType domain.ObjectType) (int, error)
	OwnerPage(ctx context.Context, objectType domain.ObjectType, first int, cursor string) (*domain.Page, error)
	TagPage(ctx context.Context, objectType domain.ObjectType, cursor string) (*domain.TagPage, error)
	TaggedPage(ctx context.Context, objectType domain.ObjectType, tags []string, first int, cursor string) (*domain.TaggedPage, error)

	ResolveMetaobjectHandle(ctx context.Context, metaobjectType, handle string) (string, error)
	MetafieldDefinitions(ctx context.Context, objectType domain.ObjectType) ([]domain.MetafieldDescriptor, error)
	ShopIdentity(ctx context.Context) (email, myshopifyDomain string, err error)
}

// GetTags fetches the current tag set of a taggable node. A node with no
// tags and a missing node both come back as an empty set.
func (c *Client) GetTags(ctx context.Context, id string) ([]string, error) {
	resp, err := c.Execute(ctx, NodeTagsQuery, map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	var result struct {
		Node *struct {
			Tags []string `json:"tags"`
		} `json:"node"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse tags response: %w", err)
	}
	if result.Node == nil {
		return nil, nil
	}
	return result.Node.Tags, nil
}

// AddTags issues tagsAdd; userErrors come back as *ErrRemoteMutation.
func (c *Client) AddTags(ctx context.Context, id string, tags []string) error {
	resp, err := c.Execute(ctx, TagsAddMutation, map[string]interface{}{"id": id, "tags": tags})
	if err != nil {
		return err
	}
	var result struct {
		TagsAdd struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"tagsAdd"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("parse tagsAdd response: %w", err)
	}
	if len(result.TagsAdd.UserErrors) > 0 {
		return &apperrors.ErrRemoteMutation{Messages: userErrorMessages(result.TagsAdd.UserErrors)}
	}
	return nil
}

// RemoveTags issues tagsRemove; userErrors come back as *ErrRemoteMutation.
func (c *Client) RemoveTags(ctx context.Context, id string, tags []string) error {
	resp, err := c.Execute(ctx, TagsRemoveMutation, map[string]interface{}{"id": id, "tags": tags})
	if err != nil {
		return err
	}
	var result struct {
		TagsRemove struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"tagsRemove"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("parse tagsRemove response: %w", err)
	}
	if len(result.TagsRemove.UserErrors) > 0 {
		return &apperrors.ErrRemoteMutation{Messages: userErrorMessages(result.TagsRemove.UserErrors)}
	}
	return nil
}

// GetMetafield fetches one metafield by namespace+key. Returns nil when the
// metafield is not present on the owner.
func (c *Client) GetMetafield(ctx context.Context, ownerID, namespace, key string) (*domain.MetafieldData, error) {
	resp, err := c.Execute(ctx, MetafieldCheckQuery, map[string]interface{}{
		"ownerId":   ownerID,
		"namespace": namespace,
		"key":       key,
	})
	if err != nil {
		return nil, fmt.Errorf("check metafield: %w", err)
	}
	var result struct {
		Node *struct {
			Metafield *struct {
				Namespace string `json:"namespace"`
				Key       string `json:"key"`
				Type      string `json:"type"`
				Value     string `json:"value"`
			} `json:"metafield"`
		} `json:"node"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse metafield response: %w", err)
	}
	if result.Node == nil || result.Node.Metafield == nil {
		return nil, nil
	}
	mf := result.Node.Metafield
	return &domain.MetafieldData{
		Namespace: mf.Namespace,
		Key:       mf.Key,
		Type:      mf.Type,
		Value:     mf.Value,
	}, nil
}

// SetMetafield issues metafieldsSet for a single metafield
func (c *Client) SetMetafield(ctx context.Context, input MetafieldsSetInput) error {
	resp, err := c.Execute(ctx, MetafieldsSetMutation, map[string]interface{}{
		"metafields": []MetafieldsSetInput{input},
	})
	if err != nil {
		return err
	}
	var result struct {
		MetafieldsSet struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("parse metafieldsSet response: %w", err)
	}
	if len(result.MetafieldsSet.UserErrors) > 0 {
		return &apperrors.ErrRemoteMutation{Messages: userErrorMessages(result.MetafieldsSet.UserErrors)}
	}
	return nil
}

// DeleteMetafield issues metafieldsDelete for a single metafield
func (c *Client) DeleteMetafield(ctx context.Context, ownerID, namespace, key string) error {
	resp, err := c.Execute(ctx, MetafieldsDeleteMutation, map[string]interface{}{
		"metafields": []MetafieldIdentifier{{OwnerID: ownerID, Namespace: namespace, Key: key}},
	})
	if err != nil {
		return err
	}
	var result struct {
		MetafieldsDelete struct {
			DeletedMetafields []*MetafieldIdentifier `json:"deletedMetafields"`
			UserErrors        []UserError            `json:"userErrors"`
		} `json:"metafieldsDelete"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("parse metafieldsDelete response: %w", err)
	}
	if len(result.MetafieldsDelete.UserErrors) > 0 {
		return &apperrors.ErrRemoteMutation{Messages: userErrorMessages(result.MetafieldsDelete.UserErrors)}
	}
	return nil
}

// ResourceCount fetches the approximate count of resources of a type.
// Types without a count query report zero.
func (c *Client) ResourceCount(ctx context.Context, objectType domain.ObjectType) (int, error) {
	field := objectType.CountField()
	if field == "" {
		return 0, nil
	}
	resp, err := c.Execute(ctx, fmt.Sprintf(CountQueryTemplate, field), nil)
	if err != nil {
		return 0, fmt.Errorf("resource count: %w", err)
	}
	var result map[string]struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return 0, fmt.Errorf("parse count response: %w", err)
	}
	return result[field].Count, nil
}

// OwnerPage fetches one page of owner ids for a resource type. An empty or
// missing data envelope terminates the walk rather than failing it.
func (c *Client) OwnerPage(ctx context.Context, objectType domain.ObjectType, first int, cursor string) (*domain.Page, error) {
	field := objectType.QueryField()
	vars := map[string]interface{}{"first": first}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	resp, err := c.Execute(ctx, fmt.Sprintf(OwnerPageQueryTemplate, field), vars)
	if err != nil {
		return nil, fmt.Errorf("owner page: %w", err)
	}
	var result map[string]*struct {
		Edges []struct {
			Cursor string `json:"cursor"`
			Node   struct {
				ID string `json:"id"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool `json:"hasNextPage"`
		} `json:"pageInfo"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse owner page: %w", err)
	}
	data := result[field]
	if data == nil {
		c.logger.Warn("No data returned for owner page", zap.String("object_type", string(objectType)))
		return &domain.Page{}, nil
	}
	page := &domain.Page{HasMore: data.PageInfo.HasNextPage}
	for _, e := range data.Edges {
		page.Items = append(page.Items, e.Node.ID)
	}
	if page.HasMore && len(data.Edges) > 0 {
		page.NextCursor = data.Edges[len(data.Edges)-1].Cursor
	}
	return page, nil
}

// tagPageSizes mirrors the per-type page sizes the tag walk uses: the
// productTags connection tolerates large pages, order queries do not.
var tagPageSizes = map[domain.ObjectType]int{
	domain.ObjectTypeProduct:  1000,
	domain.ObjectTypeCustomer: 200,
	domain.ObjectTypeOrder:    100,
	domain.ObjectTypeArticle:  50,
	domain.ObjectTypeBlogPost: 50,
}

// TagPage fetches one page of the tag universe for a resource type.
// Products use the dedicated productTags connection; customers, orders and
// articles flatten per-node tag sets. Other types have no tags.
func (c *Client) TagPage(ctx context.Context, objectType domain.ObjectType, cursor string) (*domain.TagPage, error) {
	size, ok := tagPageSizes[objectType]
	if !ok {
		return &domain.TagPage{}, nil
	}
	vars := map[string]interface{}{"first": size}
	if cursor != "" {
		vars["after"] = cursor
	}

	if objectType == domain.ObjectTypeProduct {
		resp, err := c.Execute(ctx, ProductTagsPageQuery, vars)
		if err != nil {
			return nil, fmt.Errorf("product tags page: %w", err)
		}
		var result struct {
			ProductTags *struct {
				Nodes    []string `json:"nodes"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"productTags"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, fmt.Errorf("parse product tags page: %w", err)
		}
		if result.ProductTags == nil {
			return &domain.TagPage{}, nil
		}
		return &domain.TagPage{
			Tags:       result.ProductTags.Nodes,
			HasMore:    result.ProductTags.PageInfo.HasNextPage,
			NextCursor: result.ProductTags.PageInfo.EndCursor,
		}, nil
	}

	field := objectType.QueryField()
	resp, err := c.Execute(ctx, fmt.Sprintf(NodeTagsPageQueryTemplate, field), vars)
	if err != nil {
		return nil, fmt.Errorf("tags page: %w", err)
	}
	var result map[string]*struct {
		Nodes []struct {
			Tags []string `json:"tags"`
		} `json:"nodes"`
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse tags page: %w", err)
	}
	data := result[field]
	if data == nil {
		return &domain.TagPage{}, nil
	}
	page := &domain.TagPage{
		HasMore:    data.PageInfo.HasNextPage,
		NextCursor: data.PageInfo.EndCursor,
	}
	for _, n := range data.Nodes {
		page.Tags = append(page.Tags, n.Tags...)
	}
	return page, nil
}

// TaggedPage fetches one page of resources carrying any of the given tags,
// with each match's full current tag set. An empty envelope terminates the
// walk.
func (c *Client) TaggedPage(ctx context.Context, objectType domain.ObjectType, tags []string, first int, cursor string) (*domain.TaggedPage, error) {
	field := objectType.QueryField()
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "tag:" + t
	}
	vars := map[string]interface{}{
		"first": first,
		"query": strings.Join(parts, " OR "),
	}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	resp, err := c.Execute(ctx, fmt.Sprintf(TaggedPageQueryTemplate, field), vars)
	if err != nil {
		return nil, fmt.Errorf("tagged page: %w", err)
	}
	var result map[string]*struct {
		Edges []struct {
			Cursor string `json:"cursor"`
			Node   struct {
				ID   string   `json:"id"`
				Tags []string `json:"tags"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool `json:"hasNextPage"`
		} `json:"pageInfo"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse tagged page: %w", err)
	}
	data := result[field]
	if data == nil {
		c.logger.Warn("No data returned for tagged page", zap.String("object_type", string(objectType)))
		return &domain.TaggedPage{}, nil
	}
	page := &domain.TaggedPage{HasMore: data.PageInfo.HasNextPage}
	for _, e := range data.Edges {
		page.Items = append(page.Items, domain.TaggedItem{ID: e.Node.ID, Tags: e.Node.Tags})
	}
	if page.HasMore && len(data.Edges) > 0 {
		page.NextCursor = data.Edges[len(data.Edges)-1].Cursor
	}
	return page, nil
}

// ResolveMetaobjectHandle resolves a metaobject reference from a human
// handle. Returns "" when no metaobject matches.
func (c *Client) ResolveMetaobjectHandle(ctx context.Context, metaobjectType, handle string) (string, error) {
	resp, err := c.Execute(ctx, MetaobjectByHandleQuery, map[string]interface{}{
		"type":   metaobjectType,
		"handle": handle,
	})
	if err != nil {
		return "", fmt.Errorf("resolve metaobject: %w", err)
	}
	var result struct {
		MetaobjectByHandle *struct {
			ID string `json:"id"`
		} `json:"metaobjectByHandle"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return "", fmt.Errorf("parse metaobject response: %w", err)
	}
	if result.MetaobjectByHandle == nil {
		return "", nil
	}
	return result.MetaobjectByHandle.ID, nil
}

// ShopIdentity fetches the shop email and myshopify domain for audit stamps
func (c *Client) ShopIdentity(ctx context.Context) (string, string, error) {
	resp, err := c.Execute(ctx, ShopIdentityQuery, nil)
	if err != nil {
		return "", "", fmt.Errorf("shop identity: %w", err)
	}
	var result struct {
		Shop struct {
			Email           string `json:"email"`
			MyshopifyDomain string `json:"myshopifyDomain"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return "", "", fmt.Errorf("parse shop identity: %w", err)
	}
	email := result.Shop.Email
	if email == "" {
		email = "unknown@shop.com"
	}
	dom := result.Shop.MyshopifyDomain
	if dom == "" {
		dom = "unknown.myshopify.com"
	}
	return email, dom, nil
}
