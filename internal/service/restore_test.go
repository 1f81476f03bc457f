package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/repository"
	"github.com/jafarshop/bulkeditor/pkg/errors"
)

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*domain.AuditLogEntry
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{entries: map[uuid.UUID]*domain.AuditLogEntry{}}
}

func (r *fakeAuditRepo) Record(ctx context.Context, entry *domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.Restore = true
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeAuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "audit log", ID: id.String()}
	}
	return entry, nil
}

func (r *fakeAuditRepo) ListByDomain(ctx context.Context, myshopifyDomain string) ([]*domain.AuditLogEntry, error) {
	return nil, nil
}

func (r *fakeAuditRepo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || !entry.Restore {
		return false, nil
	}
	entry.Restore = false
	return true, nil
}

func (r *fakeAuditRepo) PurgeExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func repos(audit repository.AuditLogRepository) *repository.Repositories {
	return &repository.Repositories{AuditLog: audit}
}

func seedEntry(repo *fakeAuditRepo, op domain.Operation, rows []domain.BatchResult) uuid.UUID {
	entry := &domain.AuditLogEntry{
		Operation:  op,
		Value:      rows,
		ObjectType: domain.ObjectTypeProduct,
	}
	_ = repo.Record(context.Background(), entry)
	return entry.ID
}

func TestRestoreTagsAddedRoundTrip(t *testing.T) {
	api := newFakeAdminAPI()
	api.tags["gid://shopify/Product/1"] = []string{"red", "blue", "keep"}
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationTagsAdded, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, TagList: "red,blue"},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, []string{"red", "blue"}, results[0].RemovedTags)
	assert.Equal(t, []string{"keep"}, api.tags["gid://shopify/Product/1"])

	// the claim is spent: a second restore is rejected outright
	_, err = svc.Restore(context.Background(), id)
	require.Error(t, err)
	var conflict *errors.ErrConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestRestoreTagsRemovedAddsBack(t *testing.T) {
	api := newFakeAdminAPI()
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationTagsRemoved, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, RemovedTags: []string{"sale"}},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, []string{"sale"}, api.tags["gid://shopify/Product/1"])
}

func TestRestoreSkipsFailedRows(t *testing.T) {
	api := newFakeAdminAPI()
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationTagsRemoved, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, RemovedTags: []string{"a"}},
		{ID: "gid://shopify/Product/2", Success: false, Error: "Tags not present: a"},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Empty(t, api.tags["gid://shopify/Product/2"])
}

func TestRestoreRemovedScalarMetafield(t *testing.T) {
	api := newFakeAdminAPI()
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationMetafieldRemoved, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, Data: &domain.MetafieldData{
			Namespace: "custom", Key: "color", Type: "single_line_text_field", Value: "red",
		}},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, "red", api.metafields["gid://shopify/Product/1"].Value)
}

func TestRestoreRemovedListMetafieldMergesBack(t *testing.T) {
	api := newFakeAdminAPI()
	// something wrote a new value after the delete
	api.metafields["gid://shopify/Product/1"] = &domain.MetafieldData{
		Namespace: "custom", Key: "color", Type: "list.single_line_text_field",
		Value: `["green"]`,
	}
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationMetafieldRemoved, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, Data: &domain.MetafieldData{
			Namespace: "custom", Key: "color", Type: "list.single_line_text_field",
			Value: `["red","blue"]`,
		}},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.Equal(t, `["green","red","blue"]`, api.metafields["gid://shopify/Product/1"].Value)
}

func TestRestoreUpdatedListSubtractsApplied(t *testing.T) {
	api := newFakeAdminAPI()
	api.metafields["gid://shopify/Product/1"] = &domain.MetafieldData{
		Namespace: "custom", Key: "color", Type: "list.single_line_text_field",
		Value: `["red","green","blue"]`,
	}
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationMetafieldUpdated, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, Data: &domain.MetafieldData{
			Namespace: "custom", Key: "color", Type: "list.single_line_text_field",
			Value: `["blue","green"]`,
		}},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.Equal(t, `["red"]`, api.metafields["gid://shopify/Product/1"].Value)
}

func TestRestoreUpdatedListDeletesWhenNothingSurvives(t *testing.T) {
	api := newFakeAdminAPI()
	api.metafields["gid://shopify/Product/1"] = &domain.MetafieldData{
		Namespace: "custom", Key: "color", Type: "list.single_line_text_field",
		Value: `["blue"]`,
	}
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationMetafieldUpdated, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, Data: &domain.MetafieldData{
			Namespace: "custom", Key: "color", Type: "list.single_line_text_field",
			Value: `["blue"]`,
		}},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	_, stillThere := api.metafields["gid://shopify/Product/1"]
	assert.False(t, stillThere)
}

func TestRestoreUpdatedScalarDeletes(t *testing.T) {
	api := newFakeAdminAPI()
	api.metafields["gid://shopify/Product/1"] = &domain.MetafieldData{
		Namespace: "custom", Key: "weight", Type: "number_integer", Value: "12",
	}
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationMetafieldUpdated, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, Data: &domain.MetafieldData{
			Namespace: "custom", Key: "weight", Type: "number_integer", Value: "12",
		}},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	_, stillThere := api.metafields["gid://shopify/Product/1"]
	assert.False(t, stillThere)
}

func TestRestoreRowFailureDoesNotHaltEntry(t *testing.T) {
	api := newFakeAdminAPI()
	api.removeTagsErr = &errors.ErrRemoteMutation{Messages: []string{"boom"}}
	repo := newFakeAuditRepo()
	id := seedEntry(repo, domain.OperationTagsAdded, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, TagList: "a"},
		{ID: "gid://shopify/Product/2", Success: true, TagList: "b"},
	})

	svc := NewRestoreService(api, newFakeResolver(nil), repos(repo), testLogger())

	results, err := svc.Restore(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.False(t, results[1].Success)

	// the claim stays spent even though rows failed
	entry, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, entry.Restore)
}
