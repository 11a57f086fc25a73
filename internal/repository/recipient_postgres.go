package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sendcycle/sendcycle/internal/domain"
)

// RecipientRepository implements domain.RecipientRepository over both
// recipient storage models: direct batch assignments and legacy group
// memberships with their per-batch completion records.
type RecipientRepository struct {
	db *sql.DB
}

// NewRecipientRepository creates a new RecipientRepository
func NewRecipientRepository(db *sql.DB) domain.RecipientRepository {
	return &RecipientRepository{db: db}
}

const directColumns = `id, batch_id, email, name,
	emails_sent_count, last_email_sent_at, next_email_due_at,
	is_completed, completed_at, documents_received, created_at, updated_at`

// ListDirect returns all direct assignment rows for a batch
func (r *RecipientRepository) ListDirect(ctx context.Context, batchID string) ([]*domain.BatchRecipient, error) {
	query := fmt.Sprintf(`SELECT %s FROM batch_recipients WHERE batch_id = $1 ORDER BY created_at ASC`, directColumns)

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch recipients: %w", err)
	}
	defer rows.Close()

	var recipients []*domain.BatchRecipient
	for rows.Next() {
		var rec domain.BatchRecipient
		var lastSent, nextDue, completedAt sql.NullTime
		err := rows.Scan(
			&rec.ID, &rec.BatchID, &rec.Email, &rec.Name,
			&rec.EmailsSentCount, &lastSent, &nextDue,
			&rec.IsCompleted, &completedAt, &rec.DocumentsReceived, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch recipient: %w", err)
		}
		if lastSent.Valid {
			rec.LastEmailSentAt = &lastSent.Time
		}
		if nextDue.Valid {
			rec.NextEmailDueAt = &nextDue.Time
		}
		if completedAt.Valid {
			rec.CompletedAt = &completedAt.Time
		}
		recipients = append(recipients, &rec)
	}
	return recipients, rows.Err()
}

// AddDirect inserts a direct assignment row
func (r *RecipientRepository) AddDirect(ctx context.Context, recipient *domain.BatchRecipient) error {
	query, args, err := psql.
		Insert("batch_recipients").
		Columns(
			"id", "batch_id", "email", "name",
			"emails_sent_count", "last_email_sent_at", "next_email_due_at",
			"is_completed", "completed_at", "documents_received", "created_at", "updated_at",
		).
		Values(
			recipient.ID, recipient.BatchID, domain.NormalizeEmail(recipient.Email), recipient.Name,
			recipient.EmailsSentCount, recipient.LastEmailSentAt, recipient.NextEmailDueAt,
			recipient.IsCompleted, recipient.CompletedAt, recipient.DocumentsReceived, recipient.CreatedAt, recipient.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert batch recipient: %w", err)
	}
	return nil
}

// CountDirect counts direct assignment rows for a batch
func (r *RecipientRepository) CountDirect(ctx context.Context, batchID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM batch_recipients WHERE batch_id = $1`, batchID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count batch recipients: %w", err)
	}
	return count, nil
}

// ListGroupMembers returns member rows of every legacy group linked to the
// batch
func (r *RecipientRepository) ListGroupMembers(ctx context.Context, batchID string) ([]*domain.GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.email, gm.name
		FROM group_members gm
		JOIN batch_groups bg ON bg.group_id = gm.group_id
		WHERE bg.batch_id = $1
		ORDER BY gm.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var members []*domain.GroupMember
	for rows.Next() {
		var m domain.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Email, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

const legacyColumns = `id, batch_id, email, name,
	emails_sent_count, last_email_sent_at, next_email_due_at,
	is_completed, completed_at, documents_received, created_at, updated_at`

// ListLegacyStatuses returns all legacy completion records for a batch
func (r *RecipientRepository) ListLegacyStatuses(ctx context.Context, batchID string) ([]*domain.LegacyRecipientStatus, error) {
	query := fmt.Sprintf(`SELECT %s FROM legacy_recipient_status WHERE batch_id = $1`, legacyColumns)

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy statuses: %w", err)
	}
	defer rows.Close()

	var statuses []*domain.LegacyRecipientStatus
	for rows.Next() {
		var s domain.LegacyRecipientStatus
		var lastSent, nextDue, completedAt sql.NullTime
		err := rows.Scan(
			&s.ID, &s.BatchID, &s.Email, &s.Name,
			&s.EmailsSentCount, &lastSent, &nextDue,
			&s.IsCompleted, &completedAt, &s.DocumentsReceived, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legacy status: %w", err)
		}
		if lastSent.Valid {
			s.LastEmailSentAt = &lastSent.Time
		}
		if nextDue.Valid {
			s.NextEmailDueAt = &nextDue.Time
		}
		if completedAt.Valid {
			s.CompletedAt = &completedAt.Time
		}
		statuses = append(statuses, &s)
	}
	return statuses, rows.Err()
}

// CreateLegacyStatus inserts a legacy completion record. The unique index on
// (batch_id, email) rejects a concurrent duplicate; callers handle that by
// re-reading.
func (r *RecipientRepository) CreateLegacyStatus(ctx context.Context, status *domain.LegacyRecipientStatus) error {
	query, args, err := psql.
		Insert("legacy_recipient_status").
		Columns(
			"id", "batch_id", "email", "name",
			"emails_sent_count", "last_email_sent_at", "next_email_due_at",
			"is_completed", "completed_at", "documents_received", "created_at", "updated_at",
		).
		Values(
			status.ID, status.BatchID, domain.NormalizeEmail(status.Email), status.Name,
			status.EmailsSentCount, status.LastEmailSentAt, status.NextEmailDueAt,
			status.IsCompleted, status.CompletedAt, status.DocumentsReceived, status.CreatedAt, status.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert legacy status: %w", err)
	}
	return nil
}

// UpdateCursor writes send progress for one target, routed to the table the
// target came from
func (r *RecipientRepository) UpdateCursor(ctx context.Context, batchID, email string, source domain.RecipientSource, cursor domain.RecipientCursor) error {
	table, err := tableForSource(source)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET emails_sent_count = $1,
		    last_email_sent_at = $2,
		    next_email_due_at = $3,
		    is_completed = $4,
		    completed_at = $5,
		    updated_at = NOW()
		WHERE batch_id = $6 AND LOWER(email) = $7
	`, table)

	result, err := r.db.ExecContext(ctx, query,
		cursor.EmailsSentCount, cursor.LastEmailSentAt, cursor.NextEmailDueAt,
		cursor.IsCompleted, cursor.CompletedAt,
		batchID, domain.NormalizeEmail(email),
	)
	if err != nil {
		return fmt.Errorf("failed to update recipient cursor: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "recipient", ID: email}
	}
	return nil
}

// MarkCompleted records the external documents-received action for one
// target
func (r *RecipientRepository) MarkCompleted(ctx context.Context, batchID, email string, source domain.RecipientSource, at time.Time) error {
	table, err := tableForSource(source)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET documents_received = TRUE,
		    is_completed = TRUE,
		    completed_at = $1,
		    updated_at = NOW()
		WHERE batch_id = $2 AND LOWER(email) = $3
	`, table)

	result, err := r.db.ExecContext(ctx, query, at, batchID, domain.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to mark recipient completed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "recipient", ID: email}
	}
	return nil
}

// CountIncomplete counts distinct incomplete targets across both models.
// Legacy rows shadowed by a direct assignment with the same email are
// excluded, mirroring the merge precedence.
func (r *RecipientRepository) CountIncomplete(ctx context.Context, batchID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM (
			SELECT LOWER(email) AS email
			FROM batch_recipients
			WHERE batch_id = $1 AND NOT is_completed AND NOT documents_received
			UNION
			SELECT LOWER(email) AS email
			FROM legacy_recipient_status
			WHERE batch_id = $1 AND NOT is_completed AND NOT documents_received
			  AND LOWER(email) NOT IN (SELECT LOWER(email) FROM batch_recipients WHERE batch_id = $1)
		) AS pending
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, batchID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count incomplete recipients: %w", err)
	}
	return count, nil
}

func tableForSource(source domain.RecipientSource) (string, error) {
	switch source {
	case domain.RecipientSourceDirect:
		return "batch_recipients", nil
	case domain.RecipientSourceLegacy:
		return "legacy_recipient_status", nil
	default:
		return "", fmt.Errorf("unknown recipient source: %s", source)
	}
}
