package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// Scheduler owns the sub-cycle timing decisions: when a recipient gets its
// next reminder, whether the batch re-enqueues a future pass, and whether it
// auto-completes.
type Scheduler interface {
	// NextDueForRecipient computes a recipient's next reminder time after a
	// send. Returns nil when it would land past the batch end time, which is
	// the only mechanism stopping unbounded recurrence.
	NextDueForRecipient(batch *domain.Batch, now time.Time) *time.Time

	// ShouldAutoComplete reports whether every target has completed and the
	// batch is configured to finish on that condition
	ShouldAutoComplete(ctx context.Context, batch *domain.Batch) (bool, error)

	// ScheduleNextCycle stores the batch's next sub-cycle time and enqueues a
	// dispatch pass at that instant. anyPending is whether at least one
	// recipient still has a non-nil next due time; when false the stored time
	// is cleared and nothing is enqueued.
	ScheduleNextCycle(ctx context.Context, batch *domain.Batch, anyPending bool) (*time.Time, error)
}

type scheduler struct {
	batchRepo     domain.BatchRepository
	recipientRepo domain.RecipientRepository
	taskRepo      domain.TaskRepository
	timeProvider  TimeProvider
	logger        logger.Logger
}

// NewScheduler creates a sub-cycle scheduler
func NewScheduler(batchRepo domain.BatchRepository, recipientRepo domain.RecipientRepository, taskRepo domain.TaskRepository, timeProvider TimeProvider, log logger.Logger) Scheduler {
	if timeProvider == nil {
		timeProvider = NewRealTimeProvider()
	}
	return &scheduler{
		batchRepo:     batchRepo,
		recipientRepo: recipientRepo,
		taskRepo:      taskRepo,
		timeProvider:  timeProvider,
		logger:        log,
	}
}

func (s *scheduler) NextDueForRecipient(batch *domain.Batch, now time.Time) *time.Time {
	interval := s.interval(batch)
	if interval <= 0 {
		return nil
	}
	next := now.Add(interval)
	if batch.EndTime != nil && next.After(*batch.EndTime) {
		return nil
	}
	return &next
}

func (s *scheduler) ShouldAutoComplete(ctx context.Context, batch *domain.Batch) (bool, error) {
	if !batch.AutoCompleteOnAllReceived {
		return false, nil
	}
	incomplete, err := s.recipientRepo.CountIncomplete(ctx, batch.ID)
	if err != nil {
		return false, err
	}
	return incomplete == 0, nil
}

func (s *scheduler) ScheduleNextCycle(ctx context.Context, batch *domain.Batch, anyPending bool) (*time.Time, error) {
	if !batch.IsRecurring() || !anyPending {
		if err := s.batchRepo.SetNextSubCycleTime(ctx, batch.ID, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}

	// Next cycle is anchored at now, not at the previous due time, so
	// processing delay shifts the whole cadence rather than compressing it.
	now := s.timeProvider.Now()
	next := now.Add(s.interval(batch))
	if batch.EndTime != nil && next.After(*batch.EndTime) {
		if err := s.batchRepo.SetNextSubCycleTime(ctx, batch.ID, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := s.batchRepo.SetNextSubCycleTime(ctx, batch.ID, &next); err != nil {
		return nil, err
	}

	task := &domain.DispatchTask{
		ID:           uuid.New().String(),
		TenantID:     batch.TenantID,
		BatchID:      batch.ID,
		Kind:         domain.TaskKindDispatchPass,
		Status:       domain.TaskStatusPending,
		MaxAttempts:  1,
		NextRunAfter: &next,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.taskRepo.Enqueue(ctx, task); err != nil {
		return nil, NewDispatchErrorWithBatch(ErrCodeEnqueueFailed,
			fmt.Sprintf("failed to enqueue next sub-cycle pass: %v", err), batch.ID, true, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"batch_id":   batch.ID,
		"next_cycle": next.Format(time.RFC3339),
	}).Info("Scheduled next sub-cycle pass")

	return &next, nil
}

func (s *scheduler) interval(batch *domain.Batch) time.Duration {
	if batch.SubCycleEnabled && batch.SubCycleIntervalMinutes > 0 {
		return time.Duration(batch.SubCycleIntervalMinutes) * time.Minute
	}
	if batch.IntervalMinutes > 0 {
		return time.Duration(batch.IntervalMinutes) * time.Minute
	}
	return 0
}
