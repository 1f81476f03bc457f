package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/pkg/errors"
)

// retentionWindow is how long an entry stays restorable before it is
// eligible for deletion.
const retentionWindow = 24 * time.Hour

type auditLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *sql.DB, logger *zap.Logger) *auditLogRepository {
	return &auditLogRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts the entry and sweeps expired entries in the same call, so
// the table never grows past the retention window without a dedicated cron.
func (r *auditLogRepository) Record(ctx context.Context, entry *domain.AuditLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	entry.Restore = true

	value, err := json.Marshal(entry.Value)
	if err != nil {
		r.logger.Error("Failed to marshal audit value", zap.Error(err))
		return err
	}

	query := `
		INSERT INTO audit_logs (id, user_name, operation, value, object_type, myshopify_domain, time, restore)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserName,
		string(entry.Operation),
		value,
		string(entry.ObjectType),
		entry.MyshopifyDomain,
		entry.Time,
		entry.Restore,
	)
	if err != nil {
		r.logger.Error("Failed to record audit entry", zap.Error(err))
		return err
	}

	if _, err := r.sweepExpired(ctx); err != nil {
		// The insert already succeeded; the next write will sweep again.
		r.logger.Warn("Failed to sweep expired audit entries", zap.Error(err))
	}
	return nil
}

func (r *auditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLogEntry, error) {
	query := `
		SELECT id, user_name, operation, value, object_type, myshopify_domain, time, restore
		FROM audit_logs
		WHERE id = $1
	`

	var entry domain.AuditLogEntry
	var operation, objectType string
	var value []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.UserName,
		&operation,
		&value,
		&objectType,
		&entry.MyshopifyDomain,
		&entry.Time,
		&entry.Restore,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "audit log", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get audit entry by ID", zap.Error(err))
		return nil, err
	}

	entry.Operation = domain.Operation(operation)
	entry.ObjectType = domain.ObjectType(objectType)
	if err := json.Unmarshal(value, &entry.Value); err != nil {
		r.logger.Error("Failed to unmarshal audit value", zap.Error(err))
		return nil, err
	}
	return &entry, nil
}

func (r *auditLogRepository) ListByDomain(ctx context.Context, myshopifyDomain string) ([]*domain.AuditLogEntry, error) {
	query := `
		SELECT id, user_name, operation, value, object_type, myshopify_domain, time, restore
		FROM audit_logs
		WHERE myshopify_domain = $1 AND time > $2
		ORDER BY time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, myshopifyDomain, time.Now().Add(-retentionWindow))
	if err != nil {
		r.logger.Error("Failed to list audit entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AuditLogEntry
	for rows.Next() {
		var entry domain.AuditLogEntry
		var operation, objectType string
		var value []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.UserName,
			&operation,
			&value,
			&objectType,
			&entry.MyshopifyDomain,
			&entry.Time,
			&entry.Restore,
		); err != nil {
			r.logger.Error("Failed to scan audit entry", zap.Error(err))
			return nil, err
		}
		entry.Operation = domain.Operation(operation)
		entry.ObjectType = domain.ObjectType(objectType)
		if err := json.Unmarshal(value, &entry.Value); err != nil {
			r.logger.Error("Failed to unmarshal audit value", zap.Error(err))
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Claim flips restore from true to false in one statement. Exactly one of
// any set of concurrent callers sees a row count of 1.
func (r *auditLogRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE audit_logs
		SET restore = false
		WHERE id = $1 AND restore = true
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to claim audit entry", zap.Error(err))
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *auditLogRepository) PurgeExpired(ctx context.Context) (int64, error) {
	return r.sweepExpired(ctx)
}

func (r *auditLogRepository) sweepExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_logs WHERE time < $1`,
		time.Now().Add(-retentionWindow),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
