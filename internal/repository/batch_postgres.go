package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/sendcycle/sendcycle/internal/domain"
)

// psql is a Squirrel StatementBuilder configured for PostgreSQL
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const batchColumns = `id, tenant_id, name, template_id, email_config_id, status,
	start_time, end_time, interval_minutes,
	sub_cycle_enabled, sub_cycle_interval_minutes, auto_complete_on_all_received, next_sub_cycle_time,
	total_recipients, emails_sent, emails_failed, sub_cycles_completed,
	support_fields, created_at, updated_at`

// BatchRepository implements domain.BatchRepository on PostgreSQL
type BatchRepository struct {
	db *sql.DB
}

// NewBatchRepository creates a new BatchRepository
func NewBatchRepository(db *sql.DB) domain.BatchRepository {
	return &BatchRepository{db: db}
}

// Create inserts a new batch
func (r *BatchRepository) Create(ctx context.Context, batch *domain.Batch) error {
	supportFields, err := json.Marshal(batch.SupportFields)
	if err != nil {
		return fmt.Errorf("failed to marshal support fields: %w", err)
	}

	query, args, err := psql.
		Insert("batches").
		Columns(
			"id", "tenant_id", "name", "template_id", "email_config_id", "status",
			"start_time", "end_time", "interval_minutes",
			"sub_cycle_enabled", "sub_cycle_interval_minutes", "auto_complete_on_all_received", "next_sub_cycle_time",
			"total_recipients", "emails_sent", "emails_failed", "sub_cycles_completed",
			"support_fields", "created_at", "updated_at",
		).
		Values(
			batch.ID, batch.TenantID, batch.Name, batch.TemplateID, batch.EmailConfigID, batch.Status,
			batch.StartTime, batch.EndTime, batch.IntervalMinutes,
			batch.SubCycleEnabled, batch.SubCycleIntervalMinutes, batch.AutoCompleteOnAllReceived, batch.NextSubCycleTime,
			batch.TotalRecipients, batch.EmailsSent, batch.EmailsFailed, batch.SubCyclesCompleted,
			supportFields, batch.CreatedAt, batch.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}

// Get retrieves a batch by ID
func (r *BatchRepository) Get(ctx context.Context, id string) (*domain.Batch, error) {
	query := fmt.Sprintf(`SELECT %s FROM batches WHERE id = $1`, batchColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	batch, err := scanBatch(row)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "batch", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return batch, nil
}

// Update persists mutable batch fields. Counters and status are excluded:
// those only move through UpdateCounters and Transition.
func (r *BatchRepository) Update(ctx context.Context, batch *domain.Batch) error {
	supportFields, err := json.Marshal(batch.SupportFields)
	if err != nil {
		return fmt.Errorf("failed to marshal support fields: %w", err)
	}

	query, args, err := psql.
		Update("batches").
		Set("name", batch.Name).
		Set("template_id", batch.TemplateID).
		Set("email_config_id", batch.EmailConfigID).
		Set("start_time", batch.StartTime).
		Set("end_time", batch.EndTime).
		Set("interval_minutes", batch.IntervalMinutes).
		Set("sub_cycle_enabled", batch.SubCycleEnabled).
		Set("sub_cycle_interval_minutes", batch.SubCycleIntervalMinutes).
		Set("auto_complete_on_all_received", batch.AutoCompleteOnAllReceived).
		Set("total_recipients", batch.TotalRecipients).
		Set("support_fields", supportFields).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": batch.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "batch", ID: batch.ID}
	}
	return nil
}

// Transition performs the compare-and-set status change. The WHERE clause on
// the current status makes concurrent writers race safely: exactly one
// update affects a row, the rest see zero rows and report false.
func (r *BatchRepository) Transition(ctx context.Context, id string, from, to domain.BatchStatus) (bool, error) {
	query := `
		UPDATE batches
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition batch: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// UpdateCounters applies counter deltas as increments in a single statement,
// optionally setting a new status atomically with the counts.
func (r *BatchRepository) UpdateCounters(ctx context.Context, id string, sentDelta, failedDelta, subCycleDelta int, newStatus *domain.BatchStatus) error {
	var (
		result sql.Result
		err    error
	)
	if newStatus != nil {
		query := `
			UPDATE batches
			SET emails_sent = emails_sent + $1,
			    emails_failed = emails_failed + $2,
			    sub_cycles_completed = sub_cycles_completed + $3,
			    status = $4,
			    updated_at = NOW()
			WHERE id = $5
		`
		result, err = r.db.ExecContext(ctx, query, sentDelta, failedDelta, subCycleDelta, *newStatus, id)
	} else {
		query := `
			UPDATE batches
			SET emails_sent = emails_sent + $1,
			    emails_failed = emails_failed + $2,
			    sub_cycles_completed = sub_cycles_completed + $3,
			    updated_at = NOW()
			WHERE id = $4
		`
		result, err = r.db.ExecContext(ctx, query, sentDelta, failedDelta, subCycleDelta, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update batch counters: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "batch", ID: id}
	}
	return nil
}

// SetNextSubCycleTime stores or clears the next sub-cycle instant
func (r *BatchRepository) SetNextSubCycleTime(ctx context.Context, id string, next *time.Time) error {
	query := `
		UPDATE batches
		SET next_sub_cycle_time = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := r.db.ExecContext(ctx, query, next, id); err != nil {
		return fmt.Errorf("failed to set next sub-cycle time: %w", err)
	}
	return nil
}

// ResetCounters zeroes the send counters
func (r *BatchRepository) ResetCounters(ctx context.Context, id string) error {
	query := `
		UPDATE batches
		SET emails_sent = 0, emails_failed = 0, sub_cycles_completed = 0, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to reset batch counters: %w", err)
	}
	return nil
}

// ListDue returns scheduled batches whose trigger time has elapsed. The
// start time only triggers the first pass; once a next sub-cycle time is
// stored it alone decides when the batch is due again.
func (r *BatchRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Batch, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM batches
		WHERE status = 'scheduled'
		  AND ((next_sub_cycle_time IS NULL AND start_time <= $1) OR next_sub_cycle_time <= $1)
		ORDER BY start_time ASC
		LIMIT $2
	`, batchColumns)

	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due batches: %w", err)
	}
	defer rows.Close()

	var batches []*domain.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBatch(row rowScanner) (*domain.Batch, error) {
	var batch domain.Batch
	var endTime, nextSubCycleTime sql.NullTime
	var supportFields []byte

	err := row.Scan(
		&batch.ID, &batch.TenantID, &batch.Name, &batch.TemplateID, &batch.EmailConfigID, &batch.Status,
		&batch.StartTime, &endTime, &batch.IntervalMinutes,
		&batch.SubCycleEnabled, &batch.SubCycleIntervalMinutes, &batch.AutoCompleteOnAllReceived, &nextSubCycleTime,
		&batch.TotalRecipients, &batch.EmailsSent, &batch.EmailsFailed, &batch.SubCyclesCompleted,
		&supportFields, &batch.CreatedAt, &batch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		batch.EndTime = &endTime.Time
	}
	if nextSubCycleTime.Valid {
		batch.NextSubCycleTime = &nextSubCycleTime.Time
	}
	if len(supportFields) > 0 {
		if err := json.Unmarshal(supportFields, &batch.SupportFields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal support fields: %w", err)
		}
	}
	return &batch, nil
}
