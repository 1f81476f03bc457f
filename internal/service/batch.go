package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/locator"
	"github.com/jafarshop/bulkeditor/internal/shopify"
	apperrors "github.com/jafarshop/bulkeditor/pkg/errors"
)

// Resolver is the slice of the resource locator the executor needs
type Resolver interface {
	Resolve(ctx context.Context, mode locator.Mode, objectType domain.ObjectType, value string) (*domain.ResourceRef, error)
}

// ProgressFunc receives the whole-percentage completion after each row or
// page. May be nil.
type ProgressFunc func(percent int)

// BatchExecutor drives per-row operations strictly sequentially: row i+1 is
// not sent until row i's response is in. Result order always matches input
// row order; a failed row never halts the batch. The only early exit is
// context cancellation, which returns the results accumulated so far.
type BatchExecutor struct {
	api     shopify.AdminAPI
	locator Resolver
	logger  *zap.Logger
}

// NewBatchExecutor creates a new batch mutation executor
func NewBatchExecutor(api shopify.AdminAPI, loc Resolver, logger *zap.Logger) *BatchExecutor {
	return &BatchExecutor{api: api, locator: loc, logger: logger}
}

// resolveRow resolves a row identifier unless the CSV already carries
// native ids. A GID of the wrong type fails here, before any remote call,
// on the native-ID path too.
func (e *BatchExecutor) resolveRow(ctx context.Context, mode locator.Mode, objectType domain.ObjectType, identifier string, isNativeID bool) (string, error) {
	if err := locator.Validate(objectType, identifier); err != nil {
		return "", err
	}
	if isNativeID {
		return identifier, nil
	}
	ref, err := e.locator.Resolve(ctx, mode, objectType, identifier)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// rowError picks the message a failed resolution surfaces on its row.
// Validation failures keep their own message; lookup failures collapse to
// the fallback.
func rowError(err error, fallback string) string {
	if ve, ok := err.(*apperrors.ErrValidation); ok {
		return ve.Message
	}
	return fallback
}

// AddTags runs the add-tags batch. Rows that fail resolution are recorded
// with "Failed to fetch resource ID"; rows with no tags fail locally.
func (e *BatchExecutor) AddTags(ctx context.Context, objectType domain.ObjectType, rows []domain.IdentifierRow, tags []string, isNativeID bool, progress ProgressFunc) ([]domain.BatchResult, error) {
	results := make([]domain.BatchResult, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := domain.BatchResult{ID: row.Identifier}

		resourceID, err := e.resolveRow(ctx, locator.ModeTag, objectType, row.Identifier, isNativeID)
		if err != nil {
			result.Error = rowError(err, "Failed to fetch resource ID")
			e.logger.Warn("Row resolution failed",
				zap.String("identifier", row.Identifier),
				zap.Error(err),
			)
			results = append(results, result)
			report(progress, i+1, len(rows))
			continue
		}

		if len(tags) == 0 {
			result.Error = "No tags provided"
			results = append(results, result)
			report(progress, i+1, len(rows))
			continue
		}

		if err := e.api.AddTags(ctx, resourceID, tags); err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
			result.TagList = strings.Join(tags, ",")
		}
		results = append(results, result)
		report(progress, i+1, len(rows))
	}
	return results, nil
}

// RemoveTags runs the CSV-specific remove-tags batch. For each row the
// current tag set is fetched first; only the intersection is removed, and
// when none of the requested tags are present no mutation is issued at all.
func (e *BatchExecutor) RemoveTags(ctx context.Context, objectType domain.ObjectType, rows []domain.IdentifierRow, tags []string, isNativeID bool, progress ProgressFunc) ([]domain.BatchResult, error) {
	results := make([]domain.BatchResult, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		resourceID, err := e.resolveRow(ctx, locator.ModeTag, objectType, row.Identifier, isNativeID)
		if err != nil {
			results = append(results, domain.BatchResult{
				ID:    row.Identifier,
				Error: rowError(err, fmt.Sprintf("Could not resolve ID for: %s", row.Identifier)),
			})
			report(progress, i+1, len(rows))
			continue
		}

		results = append(results, e.removeTagsFromOwner(ctx, resourceID, tags))
		report(progress, i+1, len(rows))
	}
	return results, nil
}

// RemoveTagsFromAll processes one page of the store-wide tag removal walk:
// fetch resources matching the tag search, then remove per owner.
func (e *BatchExecutor) RemoveTagsFromAll(ctx context.Context, objectType domain.ObjectType, tags []string, cursor string) ([]domain.BatchResult, string, bool, error) {
	const pageSize = 20

	page, err := e.api.TaggedPage(ctx, objectType, tags, pageSize, cursor)
	if err != nil {
		return nil, "", false, err
	}

	results := make([]domain.BatchResult, 0, len(page.Items))
	for _, item := range page.Items {
		if err := ctx.Err(); err != nil {
			return results, "", false, err
		}
		results = append(results, e.removeTagsFromSet(ctx, item.ID, item.Tags, tags))
	}
	return results, page.NextCursor, page.HasMore, nil
}

// removeTagsFromOwner fetches the owner's current tags and removes the
// requested subset
func (e *BatchExecutor) removeTagsFromOwner(ctx context.Context, resourceID string, tags []string) domain.BatchResult {
	existing, err := e.api.GetTags(ctx, resourceID)
	if err != nil {
		return domain.BatchResult{ID: resourceID, Error: err.Error()}
	}
	return e.removeTagsFromSet(ctx, resourceID, existing, tags)
}

// removeTagsFromSet removes requested∩existing and reports requested−existing
// as missing. When nothing intersects the mutation is skipped entirely.
func (e *BatchExecutor) removeTagsFromSet(ctx context.Context, resourceID string, existing, requested []string) domain.BatchResult {
	existingSet := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		existingSet[t] = struct{}{}
	}

	var tagsToRemove, missingTags []string
	for _, t := range requested {
		if _, ok := existingSet[t]; ok {
			tagsToRemove = append(tagsToRemove, t)
		} else {
			missingTags = append(missingTags, t)
		}
	}

	if len(tagsToRemove) == 0 {
		return domain.BatchResult{
			ID:    resourceID,
			Error: fmt.Sprintf("Tags not present: %s", strings.Join(missingTags, ", ")),
		}
	}

	if err := e.api.RemoveTags(ctx, resourceID, tagsToRemove); err != nil {
		return domain.BatchResult{ID: resourceID, Error: err.Error()}
	}

	result := domain.BatchResult{
		ID:          resourceID,
		Success:     true,
		RemovedTags: tagsToRemove,
	}
	if len(missingTags) > 0 {
		// soft warning on an otherwise successful row
		result.Error = fmt.Sprintf("Missing tags: %s", strings.Join(missingTags, ", "))
	}
	return result
}

// RemoveMetafieldRows runs the CSV-specific metafield delete batch. The
// pre-delete value is snapshotted into each successful result for undo.
func (e *BatchExecutor) RemoveMetafieldRows(ctx context.Context, objectType domain.ObjectType, rows []domain.IdentifierRow, namespace, key string, isNativeID bool, progress ProgressFunc) ([]domain.BatchResult, error) {
	results := make([]domain.BatchResult, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		resourceID, err := e.resolveRow(ctx, locator.ModeMetafield, objectType, row.Identifier, isNativeID)
		if err != nil {
			results = append(results, domain.BatchResult{
				ID:    row.Identifier,
				Error: rowError(err, fmt.Sprintf("Could not resolve ID for: %s", row.Identifier)),
			})
			report(progress, i+1, len(rows))
			continue
		}

		results = append(results, e.deleteMetafieldFromOwner(ctx, resourceID, namespace, key))
		report(progress, i+1, len(rows))
	}
	return results, nil
}

// RemoveMetafieldPage processes one page of the store-wide metafield
// removal: up to 200 owner ids, each checked for presence before deletion.
func (e *BatchExecutor) RemoveMetafieldPage(ctx context.Context, walker *Walker, objectType domain.ObjectType, namespace, key, cursor string) ([]domain.BatchResult, string, bool, error) {
	page, err := walker.OwnerPage(ctx, objectType, cursor)
	if err != nil {
		return nil, "", false, err
	}

	results := make([]domain.BatchResult, 0, len(page.Items))
	for _, ownerID := range page.Items {
		if err := ctx.Err(); err != nil {
			return results, "", false, err
		}
		results = append(results, e.deleteMetafieldFromOwner(ctx, ownerID, namespace, key))
	}
	return results, page.NextCursor, page.HasMore, nil
}

// deleteMetafieldFromOwner checks presence, snapshots the current value and
// deletes. An absent metafield fails the row without issuing the delete.
func (e *BatchExecutor) deleteMetafieldFromOwner(ctx context.Context, ownerID, namespace, key string) domain.BatchResult {
	found, err := e.api.GetMetafield(ctx, ownerID, namespace, key)
	if err != nil {
		return domain.BatchResult{ID: ownerID, Error: err.Error()}
	}
	if found == nil {
		return domain.BatchResult{ID: ownerID, Error: "Metafield is not present"}
	}

	if err := e.api.DeleteMetafield(ctx, ownerID, namespace, key); err != nil {
		return domain.BatchResult{ID: ownerID, Error: err.Error(), Data: found}
	}
	return domain.BatchResult{ID: ownerID, Success: true, Data: found}
}

// UpdateMetafieldRows runs the CSV update batch. Each raw value is
// normalized for the declared type; list-typed metafields are reconciled
// against the stored value per listMode, and a reconciliation that empties
// the list deletes the metafield instead of setting [].
func (e *BatchExecutor) UpdateMetafieldRows(ctx context.Context, objectType domain.ObjectType, rows []domain.IdentifierRow, desc domain.MetafieldDescriptor, listMode ListMode, isNativeID bool, progress ProgressFunc) ([]domain.BatchResult, error) {
	results := make([]domain.BatchResult, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		resourceID, err := e.resolveRow(ctx, locator.ModeMetafield, objectType, row.Identifier, isNativeID)
		if err != nil {
			results = append(results, domain.BatchResult{
				ID:    row.Identifier,
				Error: rowError(err, fmt.Sprintf("Could not resolve ID for: %s", row.Identifier)),
			})
			report(progress, i+1, len(rows))
			continue
		}

		results = append(results, e.updateOwnerMetafield(ctx, resourceID, desc, row.Value, listMode))
		report(progress, i+1, len(rows))
	}
	return results, nil
}

func (e *BatchExecutor) updateOwnerMetafield(ctx context.Context, ownerID string, desc domain.MetafieldDescriptor, rawValue string, listMode ListMode) domain.BatchResult {
	if IsListType(desc.Type) {
		return e.updateOwnerListMetafield(ctx, ownerID, desc, rawValue, listMode)
	}

	normalized, err := NormalizeMetafieldValue(desc.Type, rawValue)
	if err != nil {
		return domain.BatchResult{ID: ownerID, Error: err.Error()}
	}

	result := domain.BatchResult{
		ID: ownerID,
		Data: &domain.MetafieldData{
			Namespace: desc.Namespace,
			Key:       desc.Key,
			Type:      desc.Type,
			Value:     normalized,
		},
	}
	if err := e.api.SetMetafield(ctx, shopify.MetafieldsSetInput{
		OwnerID:   ownerID,
		Namespace: desc.Namespace,
		Key:       desc.Key,
		Type:      desc.Type,
		Value:     normalized,
	}); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

func (e *BatchExecutor) updateOwnerListMetafield(ctx context.Context, ownerID string, desc domain.MetafieldDescriptor, rawValue string, listMode ListMode) domain.BatchResult {
	incoming, err := ParseListValue(rawValue)
	if err != nil {
		return domain.BatchResult{
			ID:    ownerID,
			Error: fmt.Sprintf("Invalid value for list metafield (%s)", desc.Type),
		}
	}

	// metaobject references may arrive as human handles
	if strings.Contains(desc.Type, "metaobject_reference") {
		incoming, err = ResolveReferenceList(ctx, e.api, metaobjectTypeOf(desc), incoming)
		if err != nil {
			return domain.BatchResult{ID: ownerID, Error: err.Error()}
		}
	}

	var existing []string
	if listMode != ListReplace {
		stored, err := e.api.GetMetafield(ctx, ownerID, desc.Namespace, desc.Key)
		if err != nil {
			return domain.BatchResult{ID: ownerID, Error: err.Error()}
		}
		if stored != nil {
			existing = ParseExistingList(stored.Value)
		}
	}

	reconciled := ReconcileList(existing, incoming, listMode)

	applied, err := EncodeList(incoming)
	if err != nil {
		return domain.BatchResult{ID: ownerID, Error: err.Error()}
	}
	result := domain.BatchResult{
		ID: ownerID,
		Data: &domain.MetafieldData{
			Namespace: desc.Namespace,
			Key:       desc.Key,
			Type:      desc.Type,
			Value:     applied,
		},
	}

	// An empty reconciled list means delete, never set-to-[]
	if len(reconciled) == 0 {
		if err := e.api.DeleteMetafield(ctx, ownerID, desc.Namespace, desc.Key); err != nil {
			result.Error = err.Error()
			return result
		}
		result.Success = true
		return result
	}

	value, err := EncodeList(reconciled)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if err := e.api.SetMetafield(ctx, shopify.MetafieldsSetInput{
		OwnerID:   ownerID,
		Namespace: desc.Namespace,
		Key:       desc.Key,
		Type:      desc.Type,
		Value:     value,
	}); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

// metaobjectTypeOf derives the metaobject definition type a reference list
// resolves handles against. The definition name is conventionally the
// metafield key.
func metaobjectTypeOf(desc domain.MetafieldDescriptor) string {
	return desc.Key
}

func report(progress ProgressFunc, processed, total int) {
	if progress != nil {
		progress(Progress(processed, total))
	}
}
