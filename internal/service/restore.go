package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/locator"
	"github.com/jafarshop/bulkeditor/internal/repository"
	"github.com/jafarshop/bulkeditor/internal/shopify"
	"github.com/jafarshop/bulkeditor/pkg/errors"
)

// RestoreService replays an audit entry in reverse. The entry's restore flag
// is claimed before any mutation goes out; a spent flag rejects the whole
// request, so the same entry can never be replayed twice even under
// concurrent requests.
type RestoreService struct {
	api     shopify.AdminAPI
	locator Resolver
	repos   *repository.Repositories
	logger  *zap.Logger
}

// NewRestoreService creates a new restore service
func NewRestoreService(api shopify.AdminAPI, loc Resolver, repos *repository.Repositories, logger *zap.Logger) *RestoreService {
	return &RestoreService{api: api, locator: loc, repos: repos, logger: logger}
}

// Restore claims and replays one audit entry. Per-row failures during replay
// are captured into the returned results and never halt the run; the claimed
// flag stays spent regardless of row outcomes.
func (s *RestoreService) Restore(ctx context.Context, id uuid.UUID) ([]domain.BatchResult, error) {
	entry, err := s.repos.AuditLog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	claimed, err := s.repos.AuditLog.Claim(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("claim audit entry: %w", err)
	}
	if !claimed {
		return nil, &errors.ErrConflict{Message: "Entry has already been restored"}
	}

	s.logger.Info("Restoring audit entry",
		zap.String("id", id.String()),
		zap.String("operation", string(entry.Operation)),
		zap.Int("rows", len(entry.Value)),
	)

	results := make([]domain.BatchResult, 0, len(entry.Value))
	for _, row := range entry.Value {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if !row.Success {
			continue
		}
		results = append(results, s.restoreRow(ctx, entry, row))
	}
	return results, nil
}

func (s *RestoreService) restoreRow(ctx context.Context, entry *domain.AuditLogEntry, row domain.BatchResult) domain.BatchResult {
	mode := locator.ModeMetafield
	if entry.Operation == domain.OperationTagsAdded || entry.Operation == domain.OperationTagsRemoved {
		mode = locator.ModeTag
	}

	ref, err := s.locator.Resolve(ctx, mode, entry.ObjectType, row.ID)
	if err != nil {
		return domain.BatchResult{
			ID:    row.ID,
			Error: fmt.Sprintf("Could not resolve ID for: %s", row.ID),
		}
	}
	ownerID := ref.ID

	switch entry.Operation {
	case domain.OperationTagsAdded:
		// undo an add by removing the tags that were applied
		tags := splitTagList(row.TagList)
		if len(tags) == 0 {
			return domain.BatchResult{ID: ownerID, Error: "No tags recorded for row"}
		}
		if err := s.api.RemoveTags(ctx, ownerID, tags); err != nil {
			return domain.BatchResult{ID: ownerID, Error: err.Error()}
		}
		return domain.BatchResult{ID: ownerID, Success: true, RemovedTags: tags}

	case domain.OperationTagsRemoved:
		if len(row.RemovedTags) == 0 {
			return domain.BatchResult{ID: ownerID, Error: "No tags recorded for row"}
		}
		if err := s.api.AddTags(ctx, ownerID, row.RemovedTags); err != nil {
			return domain.BatchResult{ID: ownerID, Error: err.Error()}
		}
		return domain.BatchResult{ID: ownerID, Success: true, TagList: strings.Join(row.RemovedTags, ",")}

	case domain.OperationMetafieldRemoved:
		return s.restoreRemovedMetafield(ctx, ownerID, row)

	case domain.OperationMetafieldUpdated:
		return s.restoreUpdatedMetafield(ctx, ownerID, row)

	default:
		return domain.BatchResult{ID: ownerID, Error: fmt.Sprintf("Unknown operation: %s", entry.Operation)}
	}
}

// restoreRemovedMetafield writes the pre-delete snapshot back. For list types
// the snapshot is merged into whatever exists now rather than clobbering it.
func (s *RestoreService) restoreRemovedMetafield(ctx context.Context, ownerID string, row domain.BatchResult) domain.BatchResult {
	if row.Data == nil {
		return domain.BatchResult{ID: ownerID, Error: "No metafield snapshot recorded for row"}
	}
	snap := row.Data

	value := snap.Value
	if IsListType(snap.Type) {
		current, err := s.api.GetMetafield(ctx, ownerID, snap.Namespace, snap.Key)
		if err != nil {
			return domain.BatchResult{ID: ownerID, Error: err.Error()}
		}
		var existing []string
		if current != nil {
			existing = ParseExistingList(current.Value)
		}
		merged := ReconcileList(existing, ParseExistingList(snap.Value), ListMerge)
		encoded, err := EncodeList(merged)
		if err != nil {
			return domain.BatchResult{ID: ownerID, Error: err.Error()}
		}
		value = encoded
	}

	if err := s.api.SetMetafield(ctx, shopify.MetafieldsSetInput{
		OwnerID:   ownerID,
		Namespace: snap.Namespace,
		Key:       snap.Key,
		Type:      snap.Type,
		Value:     value,
	}); err != nil {
		return domain.BatchResult{ID: ownerID, Error: err.Error()}
	}
	return domain.BatchResult{ID: ownerID, Success: true, Data: snap}
}

// restoreUpdatedMetafield reverses an update. List types subtract the values
// that were applied and delete the metafield if nothing survives. Scalar
// types have no pre-update snapshot, so the metafield is deleted outright.
func (s *RestoreService) restoreUpdatedMetafield(ctx context.Context, ownerID string, row domain.BatchResult) domain.BatchResult {
	if row.Data == nil {
		return domain.BatchResult{ID: ownerID, Error: "No metafield snapshot recorded for row"}
	}
	snap := row.Data

	if !IsListType(snap.Type) {
		if err := s.api.DeleteMetafield(ctx, ownerID, snap.Namespace, snap.Key); err != nil {
			return domain.BatchResult{ID: ownerID, Error: err.Error()}
		}
		return domain.BatchResult{ID: ownerID, Success: true, Data: snap}
	}

	current, err := s.api.GetMetafield(ctx, ownerID, snap.Namespace, snap.Key)
	if err != nil {
		return domain.BatchResult{ID: ownerID, Error: err.Error()}
	}
	if current == nil {
		// nothing left to subtract from
		return domain.BatchResult{ID: ownerID, Success: true, Data: snap}
	}

	remaining := ReconcileList(ParseExistingList(current.Value), ParseExistingList(snap.Value), ListRemoveSubset)
	if len(remaining) == 0 {
		if err := s.api.DeleteMetafield(ctx, ownerID, snap.Namespace, snap.Key); err != nil {
			return domain.BatchResult{ID: ownerID, Error: err.Error()}
		}
		return domain.BatchResult{ID: ownerID, Success: true, Data: snap}
	}

	encoded, err := EncodeList(remaining)
	if err != nil {
		return domain.BatchResult{ID: ownerID, Error: err.Error()}
	}
	if err := s.api.SetMetafield(ctx, shopify.MetafieldsSetInput{
		OwnerID:   ownerID,
		Namespace: snap.Namespace,
		Key:       snap.Key,
		Type:      snap.Type,
		Value:     encoded,
	}); err != nil {
		return domain.BatchResult{ID: ownerID, Error: err.Error()}
	}
	return domain.BatchResult{ID: ownerID, Success: true, Data: snap}
}

func splitTagList(joined string) []string {
	var tags []string
	for _, t := range strings.Split(joined, ",") {
		if v := strings.TrimSpace(t); v != "" {
			tags = append(tags, v)
		}
	}
	return tags
}
