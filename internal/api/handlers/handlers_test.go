package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/repository"
)

// fakeAuditRepo captures recorded entries and serves canned history.
type fakeAuditRepo struct {
	recorded []*domain.AuditLogEntry
	byDomain map[string][]*domain.AuditLogEntry
}

func (f *fakeAuditRepo) Record(ctx context.Context, entry *domain.AuditLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.Restore = true
	f.recorded = append(f.recorded, entry)
	return nil
}

func (f *fakeAuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLogEntry, error) {
	return nil, nil
}

func (f *fakeAuditRepo) ListByDomain(ctx context.Context, myshopifyDomain string) ([]*domain.AuditLogEntry, error) {
	return f.byDomain[myshopifyDomain], nil
}

func (f *fakeAuditRepo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeAuditRepo) PurgeExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func testContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, nil)
	return c, w
}

func TestRecordAuditStampsConfiguredIdentity(t *testing.T) {
	repo := &fakeAuditRepo{}
	svcs := &Services{
		Repos:      &repository.Repositories{AuditLog: repo},
		UserName:   "owner@jafarshop.com",
		ShopDomain: "jafarshop.myshopify.com",
	}
	c, _ := testContext(t, "/v1/tags/add")

	id := recordAudit(c, svcs, zap.NewNop(), domain.OperationTagsAdded, domain.ObjectTypeProduct, []domain.BatchResult{
		{ID: "gid://shopify/Product/1", Success: true, TagList: "VIP"},
		{ID: "gid://shopify/Product/2", Error: "Failed to fetch resource ID"},
	})
	require.NotEmpty(t, id)
	require.Len(t, repo.recorded, 1)

	entry := repo.recorded[0]
	assert.Equal(t, "owner@jafarshop.com", entry.UserName)
	assert.Equal(t, "jafarshop.myshopify.com", entry.MyshopifyDomain)
	assert.Equal(t, id, entry.ID.String())
	require.Len(t, entry.Value, 1)
	assert.Equal(t, "gid://shopify/Product/1", entry.Value[0].ID)
}

func TestRecordAuditSkipsBatchWithNoSuccesses(t *testing.T) {
	repo := &fakeAuditRepo{}
	svcs := &Services{
		Repos:      &repository.Repositories{AuditLog: repo},
		UserName:   "owner@jafarshop.com",
		ShopDomain: "jafarshop.myshopify.com",
	}
	c, _ := testContext(t, "/v1/tags/add")

	id := recordAudit(c, svcs, zap.NewNop(), domain.OperationTagsAdded, domain.ObjectTypeProduct, []domain.BatchResult{
		{ID: "p1", Error: "Failed to fetch resource ID"},
	})
	assert.Empty(t, id)
	assert.Empty(t, repo.recorded)
}

func TestListHistoryDefaultsToConfiguredDomain(t *testing.T) {
	repo := &fakeAuditRepo{byDomain: map[string][]*domain.AuditLogEntry{
		"jafarshop.myshopify.com": {
			{ID: uuid.New(), Operation: domain.OperationTagsAdded, MyshopifyDomain: "jafarshop.myshopify.com"},
		},
	}}
	svcs := &Services{
		Repos:      &repository.Repositories{AuditLog: repo},
		ShopDomain: "jafarshop.myshopify.com",
	}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/history", nil)

	HandleListHistory(svcs, zap.NewNop())(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Entries []json.RawMessage `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Entries, 1)
}
