package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/locator"
	"github.com/jafarshop/bulkeditor/internal/shopify"
	"github.com/jafarshop/bulkeditor/pkg/errors"
)

// fakeAdminAPI records calls and serves canned state for the batch and
// restore tests.
type fakeAdminAPI struct {
	mu    sync.Mutex
	calls []string

	tags       map[string][]string             // owner id -> tags
	metafields map[string]*domain.MetafieldData // owner id -> metafield
	pages      []*domain.Page
	taggedPage *domain.TaggedPage
	tagPages   []*domain.TagPage
	count      int

	addTagsErr    error
	removeTagsErr error
	setErr        error
	deleteErr     error
	getTagsErr    error
}

func newFakeAdminAPI() *fakeAdminAPI {
	return &fakeAdminAPI{
		tags:       map[string][]string{},
		metafields: map[string]*domain.MetafieldData{},
	}
}

func (f *fakeAdminAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAdminAPI) GetTags(ctx context.Context, id string) ([]string, error) {
	f.record("GetTags:" + id)
	if f.getTagsErr != nil {
		return nil, f.getTagsErr
	}
	return f.tags[id], nil
}

func (f *fakeAdminAPI) AddTags(ctx context.Context, id string, tags []string) error {
	f.record(fmt.Sprintf("AddTags:%s:%v", id, tags))
	if f.addTagsErr != nil {
		return f.addTagsErr
	}
	f.tags[id] = append(f.tags[id], tags...)
	return nil
}

func (f *fakeAdminAPI) RemoveTags(ctx context.Context, id string, tags []string) error {
	f.record(fmt.Sprintf("RemoveTags:%s:%v", id, tags))
	if f.removeTagsErr != nil {
		return f.removeTagsErr
	}
	remove := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		remove[t] = struct{}{}
	}
	var kept []string
	for _, t := range f.tags[id] {
		if _, ok := remove[t]; !ok {
			kept = append(kept, t)
		}
	}
	f.tags[id] = kept
	return nil
}

func (f *fakeAdminAPI) GetMetafield(ctx context.Context, ownerID, namespace, key string) (*domain.MetafieldData, error) {
	f.record("GetMetafield:" + ownerID)
	return f.metafields[ownerID], nil
}

func (f *fakeAdminAPI) SetMetafield(ctx context.Context, input shopify.MetafieldsSetInput) error {
	f.record(fmt.Sprintf("SetMetafield:%s:%s", input.OwnerID, input.Value))
	if f.setErr != nil {
		return f.setErr
	}
	f.metafields[input.OwnerID] = &domain.MetafieldData{
		Namespace: input.Namespace,
		Key:       input.Key,
		Type:      input.Type,
		Value:     input.Value,
	}
	return nil
}

func (f *fakeAdminAPI) DeleteMetafield(ctx context.Context, ownerID, namespace, key string) error {
	f.record("DeleteMetafield:" + ownerID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.metafields, ownerID)
	return nil
}

func (f *fakeAdminAPI) ResourceCount(ctx context.Context, objectType domain.ObjectType) (int, error) {
	f.record("ResourceCount")
	return f.count, nil
}

func (f *fakeAdminAPI) OwnerPage(ctx context.Context, objectType domain.ObjectType, first int, cursor string) (*domain.Page, error) {
	f.record("OwnerPage:" + cursor)
	for i, p := range f.pages {
		if i == 0 && cursor == "" {
			return p, nil
		}
		if i > 0 && f.pages[i-1].NextCursor == cursor {
			return p, nil
		}
	}
	return &domain.Page{}, nil
}

func (f *fakeAdminAPI) TagPage(ctx context.Context, objectType domain.ObjectType, cursor string) (*domain.TagPage, error) {
	f.record("TagPage:" + cursor)
	for i, p := range f.tagPages {
		if i == 0 && cursor == "" {
			return p, nil
		}
		if i > 0 && f.tagPages[i-1].NextCursor == cursor {
			return p, nil
		}
	}
	return &domain.TagPage{}, nil
}

func (f *fakeAdminAPI) TaggedPage(ctx context.Context, objectType domain.ObjectType, tags []string, first int, cursor string) (*domain.TaggedPage, error) {
	f.record("TaggedPage:" + cursor)
	if f.taggedPage != nil {
		return f.taggedPage, nil
	}
	return &domain.TaggedPage{}, nil
}

func (f *fakeAdminAPI) ResolveMetaobjectHandle(ctx context.Context, metaobjectType, handle string) (string, error) {
	f.record("ResolveMetaobjectHandle:" + handle)
	return "gid://shopify/Metaobject/1", nil
}

func (f *fakeAdminAPI) MetafieldDefinitions(ctx context.Context, objectType domain.ObjectType) ([]domain.MetafieldDescriptor, error) {
	f.record("MetafieldDefinitions")
	return nil, nil
}

func (f *fakeAdminAPI) ShopIdentity(ctx context.Context) (string, string, error) {
	f.record("ShopIdentity")
	return "owner@test.com", "test.myshopify.com", nil
}

// fakeResolver maps raw identifiers to owner ids; unknown identifiers come
// back NotFound. GIDs pass straight through, like the real locator.
type fakeResolver struct {
	mu      sync.Mutex
	known   map[string]string
	lookups []string
}

func newFakeResolver(known map[string]string) *fakeResolver {
	return &fakeResolver{known: known}
}

func (f *fakeResolver) Resolve(ctx context.Context, mode locator.Mode, objectType domain.ObjectType, value string) (*domain.ResourceRef, error) {
	if locator.IsGID(value) {
		return &domain.ResourceRef{ID: value}, nil
	}
	f.mu.Lock()
	f.lookups = append(f.lookups, value)
	f.mu.Unlock()
	if id, ok := f.known[value]; ok {
		return &domain.ResourceRef{ID: id}, nil
	}
	return nil, &errors.ErrNotFound{Resource: string(objectType), ID: value}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
