package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sendcycle/sendcycle/internal/domain"
)

// TaskRepository implements domain.TaskRepository on PostgreSQL. Claiming
// uses FOR UPDATE SKIP LOCKED so any number of workers can poll the same
// table without double-claiming.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, tenant_id, batch_id, kind, status,
	recipient_email, recipient_name, source, send_attempt,
	attempts, max_attempts, last_error, next_run_after,
	created_at, updated_at, processed_at`

// Enqueue inserts a pending task
func (r *TaskRepository) Enqueue(ctx context.Context, task *domain.DispatchTask) error {
	query, args, err := psql.
		Insert("dispatch_tasks").
		Columns(
			"id", "tenant_id", "batch_id", "kind", "status",
			"recipient_email", "recipient_name", "source", "send_attempt",
			"attempts", "max_attempts", "last_error", "next_run_after",
			"created_at", "updated_at",
		).
		Values(
			task.ID, task.TenantID, task.BatchID, task.Kind, domain.TaskStatusPending,
			task.RecipientEmail, task.RecipientName, task.Source, task.SendAttempt,
			task.Attempts, task.MaxAttempts, task.LastError, task.NextRunAfter,
			task.CreatedAt, task.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// ClaimDue atomically claims due pending tasks and marks them processing.
// Stuck processing tasks older than five minutes are reclaimed so a worker
// crash cannot strand work.
func (r *TaskRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*domain.DispatchTask, error) {
	query := fmt.Sprintf(`
		UPDATE dispatch_tasks
		SET status = 'processing', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM dispatch_tasks
			WHERE (status = 'pending' AND (next_run_after IS NULL OR next_run_after <= $1))
			   OR (status = 'processing' AND updated_at < NOW() - INTERVAL '5 minutes')
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING %s
	`, taskColumns)

	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.DispatchTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// MarkCompleted finishes a claimed task
func (r *TaskRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `
		UPDATE dispatch_tasks
		SET status = 'completed', processed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark task completed: %w", err)
	}
	return nil
}

// MarkFailed records an execution error, counting the attempt. A non-nil
// nextRetryAt sends the task back to pending for another run.
func (r *TaskRepository) MarkFailed(ctx context.Context, id string, errMsg string, nextRetryAt *time.Time) error {
	var query string
	if nextRetryAt != nil {
		query = `
			UPDATE dispatch_tasks
			SET status = 'pending', attempts = attempts + 1, last_error = $2, next_run_after = $3, updated_at = NOW()
			WHERE id = $1
		`
		if _, err := r.db.ExecContext(ctx, query, id, errMsg, *nextRetryAt); err != nil {
			return fmt.Errorf("failed to mark task for retry: %w", err)
		}
		return nil
	}

	query = `
		UPDATE dispatch_tasks
		SET status = 'failed', attempts = attempts + 1, last_error = $2, processed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, errMsg); err != nil {
		return fmt.Errorf("failed to mark task failed: %w", err)
	}
	return nil
}

// Defer pushes a claimed task back to pending without counting an attempt
func (r *TaskRepository) Defer(ctx context.Context, id string, until time.Time) error {
	query := `
		UPDATE dispatch_tasks
		SET status = 'pending', next_run_after = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, until); err != nil {
		return fmt.Errorf("failed to defer task: %w", err)
	}
	return nil
}

func scanTask(rows *sql.Rows) (*domain.DispatchTask, error) {
	var task domain.DispatchTask
	var recipientEmail, recipientName, source sql.NullString
	var lastError sql.NullString
	var nextRunAfter, processedAt sql.NullTime

	err := rows.Scan(
		&task.ID, &task.TenantID, &task.BatchID, &task.Kind, &task.Status,
		&recipientEmail, &recipientName, &source, &task.SendAttempt,
		&task.Attempts, &task.MaxAttempts, &lastError, &nextRunAfter,
		&task.CreatedAt, &task.UpdatedAt, &processedAt,
	)
	if err != nil {
		return nil, err
	}

	task.RecipientEmail = recipientEmail.String
	task.RecipientName = recipientName.String
	task.Source = domain.RecipientSource(source.String)
	if lastError.Valid {
		task.LastError = &lastError.String
	}
	if nextRunAfter.Valid {
		task.NextRunAfter = &nextRunAfter.Time
	}
	if processedAt.Valid {
		task.ProcessedAt = &processedAt.Time
	}
	return &task, nil
}
