package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_task_repository.go -package mocks github.com/sendcycle/sendcycle/internal/domain TaskRepository

// TaskKind identifies what a dispatch task does when claimed
type TaskKind string

const (
	// TaskKindDispatchPass runs one coordinator pass over a batch
	TaskKindDispatchPass TaskKind = "dispatch_pass"
	// TaskKindSendRetry re-attempts a single recipient send
	TaskKindSendRetry TaskKind = "send_retry"
)

// TaskStatus is the lifecycle of a queued task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// DispatchTask is one unit of deferred work. Sub-cycle reschedules and send
// retries are both expressed as delayed task re-enqueues so they survive
// process restarts; nothing in the engine sleeps on a timer.
//
// Delivery is at-least-once: duplicate claims are tolerated because the
// coordinator's compare-and-set transition and per-recipient cursors make a
// duplicate pass a no-op.
type DispatchTask struct {
	ID       string     `json:"id"`
	TenantID string     `json:"tenant_id"`
	BatchID  string     `json:"batch_id"`
	Kind     TaskKind   `json:"kind"`
	Status   TaskStatus `json:"status"`

	// Send-retry payload
	RecipientEmail string          `json:"recipient_email,omitempty"`
	RecipientName  string          `json:"recipient_name,omitempty"`
	Source         RecipientSource `json:"source,omitempty"`
	SendAttempt    int             `json:"send_attempt,omitempty"` // attempt number of the upcoming try

	// Task-level execution bookkeeping
	Attempts    int     `json:"attempts"`
	MaxAttempts int     `json:"max_attempts"`
	LastError   *string `json:"last_error,omitempty"`

	NextRunAfter *time.Time `json:"next_run_after,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

// TaskRepository is the DB-backed task queue the worker polls.
type TaskRepository interface {
	// Enqueue inserts a pending task, honoring NextRunAfter as its earliest
	// execution time
	Enqueue(ctx context.Context, task *DispatchTask) error

	// ClaimDue atomically claims up to limit due pending tasks, marking them
	// processing. Implementations use FOR UPDATE SKIP LOCKED so concurrent
	// workers never claim the same task.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*DispatchTask, error)

	// MarkCompleted finishes a claimed task
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed records an execution error; when nextRetryAt is non-nil the
	// task returns to pending for another run
	MarkFailed(ctx context.Context, id string, errMsg string, nextRetryAt *time.Time) error

	// Defer pushes a claimed task back to pending to run at a later time
	// without counting an attempt (used while a circuit is open)
	Defer(ctx context.Context, id string, until time.Time) error
}
