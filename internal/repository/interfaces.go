package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jafarshop/bulkeditor/internal/domain"
)

// AuditLogRepository defines audit log data access methods
type AuditLogRepository interface {
	// Record inserts a new audit entry. Implementations also drop entries
	// older than the retention window as part of the same write.
	Record(ctx context.Context, entry *domain.AuditLogEntry) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLogEntry, error)

	// ListByDomain returns non-expired entries for a shop, newest first.
	ListByDomain(ctx context.Context, myshopifyDomain string) ([]*domain.AuditLogEntry, error)

	// Claim atomically flips the restore flag from true to false. It returns
	// false when the flag was already spent, so concurrent restores of the
	// same entry cannot both proceed.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)

	// PurgeExpired deletes entries past the retention window and reports how
	// many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	AuditLog AuditLogRepository
}
