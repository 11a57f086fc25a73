package domain

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_batch_repository.go -package mocks github.com/sendcycle/sendcycle/internal/domain BatchRepository

// BatchStatus defines the current status of a reminder batch
type BatchStatus string

const (
	BatchStatusDraft     BatchStatus = "draft"
	BatchStatusScheduled BatchStatus = "scheduled"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusPaused    BatchStatus = "paused"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusCancelled BatchStatus = "cancelled"
	BatchStatusFailed    BatchStatus = "failed"
)

// allowedTransitions is the batch status transition table. A batch may only
// move along these edges; everything else is rejected.
var allowedTransitions = map[BatchStatus][]BatchStatus{
	BatchStatusDraft:     {BatchStatusScheduled},
	BatchStatusScheduled: {BatchStatusRunning, BatchStatusPaused, BatchStatusCancelled},
	BatchStatusRunning:   {BatchStatusScheduled, BatchStatusPaused, BatchStatusCompleted, BatchStatusFailed, BatchStatusCancelled},
	BatchStatusPaused:    {BatchStatusScheduled, BatchStatusCancelled},
	BatchStatusFailed:    {BatchStatusScheduled},
}

// CanTransition reports whether moving a batch from one status to another is
// allowed by the state machine.
func CanTransition(from, to BatchStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s BatchStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Batch is one configured reminder campaign: a recipient set, a template, a
// schedule, and the counters the dispatch engine maintains.
type Batch struct {
	ID            string `json:"id"`
	TenantID      string `json:"tenant_id"`
	Name          string `json:"name"`
	TemplateID    string `json:"template_id"`
	EmailConfigID string `json:"email_config_id"`

	Status BatchStatus `json:"status"`

	// Scheduling
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	IntervalMinutes int        `json:"interval_minutes"` // whole-batch recurrence, 0 = once only

	// Sub-cycle reminders
	SubCycleEnabled           bool       `json:"sub_cycle_enabled"`
	SubCycleIntervalMinutes   int        `json:"sub_cycle_interval_minutes"`
	AutoCompleteOnAllReceived bool       `json:"auto_complete_on_all_received"`
	NextSubCycleTime          *time.Time `json:"next_sub_cycle_time,omitempty"`

	// Counters, monotonically non-decreasing except on explicit reset
	TotalRecipients    int `json:"total_recipients"`
	EmailsSent         int `json:"emails_sent"`
	EmailsFailed       int `json:"emails_failed"`
	SubCyclesCompleted int `json:"sub_cycles_completed"`

	// Batch-level template variables forwarded to the renderer
	SupportFields map[string]string `json:"support_fields,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the batch configuration is internally consistent
func (b *Batch) Validate() error {
	if b.TenantID == "" {
		return fmt.Errorf("tenant id is required")
	}
	if b.Name == "" {
		return fmt.Errorf("batch name is required")
	}
	if b.TemplateID == "" {
		return fmt.Errorf("template id is required")
	}
	if b.EmailConfigID == "" {
		return fmt.Errorf("email configuration id is required")
	}
	switch b.Status {
	case BatchStatusDraft, BatchStatusScheduled, BatchStatusRunning,
		BatchStatusPaused, BatchStatusCompleted, BatchStatusCancelled,
		BatchStatusFailed:
	default:
		return fmt.Errorf("invalid batch status: %s", b.Status)
	}
	if b.IntervalMinutes < 0 {
		return fmt.Errorf("interval minutes cannot be negative")
	}
	if b.SubCycleEnabled && b.SubCycleIntervalMinutes <= 0 {
		return fmt.Errorf("sub-cycle interval must be positive when sub-cycles are enabled")
	}
	if b.EndTime != nil && !b.EndTime.After(b.StartTime) {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}

// IsRecurring reports whether the batch sends more than one reminder per
// recipient, either through whole-batch recurrence or sub-cycles.
func (b *Batch) IsRecurring() bool {
	return b.IntervalMinutes > 0 || b.SubCycleEnabled
}

// Expired reports whether the batch's end time has passed.
func (b *Batch) Expired(now time.Time) bool {
	return b.EndTime != nil && now.After(*b.EndTime)
}

// BatchRepository defines data access for batches. Transition and
// UpdateCounters are the engine's concurrency-correctness boundary and must
// run under row-level locking.
type BatchRepository interface {
	Create(ctx context.Context, batch *Batch) error
	Get(ctx context.Context, id string) (*Batch, error)
	Update(ctx context.Context, batch *Batch) error

	// Transition performs a compare-and-set status change: the update only
	// applies if the stored status still equals from. Returns false when
	// another writer won the race.
	Transition(ctx context.Context, id string, from, to BatchStatus) (bool, error)

	// UpdateCounters applies counter deltas atomically (increment, never
	// overwrite) and optionally sets a new status in the same statement.
	UpdateCounters(ctx context.Context, id string, sentDelta, failedDelta, subCycleDelta int, newStatus *BatchStatus) error

	// SetNextSubCycleTime stores or clears the batch's next sub-cycle instant
	SetNextSubCycleTime(ctx context.Context, id string, next *time.Time) error

	// ResetCounters zeroes the send counters, used when a draft edit replaces
	// the recipient list
	ResetCounters(ctx context.Context, id string) error

	// ListDue returns scheduled batches whose start time or next sub-cycle
	// time has elapsed, for the dispatch sweep
	ListDue(ctx context.Context, now time.Time, limit int) ([]*Batch, error)
}
