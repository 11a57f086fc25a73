package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sendcycle/sendcycle/internal/domain"
)

// SendAttemptRepository implements domain.SendAttemptRepository. The table
// is append-only; rows are never updated or deleted by the engine.
type SendAttemptRepository struct {
	db *sql.DB
}

// NewSendAttemptRepository creates a new SendAttemptRepository
func NewSendAttemptRepository(db *sql.DB) domain.SendAttemptRepository {
	return &SendAttemptRepository{db: db}
}

// Record appends one attempt row
func (r *SendAttemptRepository) Record(ctx context.Context, attempt *domain.SendAttempt) error {
	query, args, err := psql.
		Insert("send_attempts").
		Columns(
			"id", "tenant_id", "batch_id", "recipient_email",
			"status", "attempt", "error_message", "correlation_id", "created_at",
		).
		Values(
			attempt.ID, attempt.TenantID, attempt.BatchID, attempt.RecipientEmail,
			attempt.Status, attempt.Attempt, attempt.ErrorMessage, attempt.CorrelationID, attempt.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert send attempt: %w", err)
	}
	return nil
}

// CountForTenantSince counts attempts for a tenant in a rolling window
func (r *SendAttemptRepository) CountForTenantSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM send_attempts
		WHERE tenant_id = $1 AND created_at >= $2
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, tenantID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count send attempts: %w", err)
	}
	return count, nil
}
