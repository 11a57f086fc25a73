package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// BatchService is the lifecycle surface callers use to move batches through
// the state machine. All status mutation funnels through here or the
// coordinator; nothing else writes batch status.
type BatchService interface {
	CreateBatch(ctx context.Context, batch *domain.Batch) error
	AttachRecipients(ctx context.Context, batchID string, recipients []*domain.BatchRecipient) error
	ScheduleBatch(ctx context.Context, batchID string) error
	PauseBatch(ctx context.Context, batchID string) error
	ResumeBatch(ctx context.Context, batchID string) error
	CancelBatch(ctx context.Context, batchID string) error
	RetryFailedBatch(ctx context.Context, batchID string) error
	ResetBatchCounters(ctx context.Context, batchID string) error

	// MarkDocumentsReceived records the external completion action for one
	// recipient; the next pass skips them
	MarkDocumentsReceived(ctx context.Context, batchID, email string) error
}

type batchService struct {
	batchRepo     domain.BatchRepository
	recipientRepo domain.RecipientRepository
	taskRepo      domain.TaskRepository
	configStore   domain.EmailConfigStore
	stateMachine  StateMachine
	dedup         Deduplicator
	timeProvider  TimeProvider
	logger        logger.Logger
}

// NewBatchService creates the batch lifecycle service
func NewBatchService(
	batchRepo domain.BatchRepository,
	recipientRepo domain.RecipientRepository,
	taskRepo domain.TaskRepository,
	configStore domain.EmailConfigStore,
	stateMachine StateMachine,
	dedup Deduplicator,
	timeProvider TimeProvider,
	log logger.Logger,
) BatchService {
	if timeProvider == nil {
		timeProvider = NewRealTimeProvider()
	}
	return &batchService{
		batchRepo:     batchRepo,
		recipientRepo: recipientRepo,
		taskRepo:      taskRepo,
		configStore:   configStore,
		stateMachine:  stateMachine,
		dedup:         dedup,
		timeProvider:  timeProvider,
		logger:        log,
	}
}

func (s *batchService) CreateBatch(ctx context.Context, batch *domain.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	batch.Status = domain.BatchStatusDraft
	now := s.timeProvider.Now()
	batch.CreatedAt = now
	batch.UpdatedAt = now
	if err := batch.Validate(); err != nil {
		return domain.NewValidationError(err.Error())
	}
	return s.batchRepo.Create(ctx, batch)
}

func (s *batchService) AttachRecipients(ctx context.Context, batchID string, recipients []*domain.BatchRecipient) error {
	batch, err := s.batchRepo.Get(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.Status != domain.BatchStatusDraft {
		return domain.NewValidationError("recipients can only be attached to a draft batch")
	}

	now := s.timeProvider.Now()
	for _, recipient := range recipients {
		if recipient.ID == "" {
			recipient.ID = uuid.New().String()
		}
		recipient.BatchID = batchID
		recipient.Email = domain.NormalizeEmail(recipient.Email)
		recipient.CreatedAt = now
		recipient.UpdatedAt = now
		if err := s.recipientRepo.AddDirect(ctx, recipient); err != nil {
			return fmt.Errorf("failed to attach recipient %s: %w", recipient.Email, err)
		}
	}
	return nil
}

// ScheduleBatch validates the batch is runnable and moves it draft→scheduled,
// enqueuing the first dispatch pass at its start time
func (s *batchService) ScheduleBatch(ctx context.Context, batchID string) error {
	batch, err := s.batchRepo.Get(ctx, batchID)
	if err != nil {
		return err
	}
	if err := batch.Validate(); err != nil {
		return domain.NewValidationError(err.Error())
	}

	cfg, err := s.configStore.GetActive(ctx, batch.TenantID, batch.EmailConfigID)
	if err != nil {
		return NewDispatchErrorWithBatch(ErrCodeConfigMissing,
			fmt.Sprintf("cannot schedule without an active email configuration: %v", err), batchID, false, err)
	}
	if !cfg.IsActive {
		return NewDispatchErrorWithBatch(ErrCodeConfigInactive,
			"cannot schedule against an inactive email configuration", batchID, false, nil)
	}

	targets, err := s.dedup.Merge(ctx, batch)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return NewDispatchErrorWithBatch(ErrCodeNoRecipients,
			"batch has no recipients", batchID, false, nil)
	}

	ok, err := s.stateMachine.Transition(ctx, batchID, domain.BatchStatusDraft, domain.BatchStatusScheduled)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewValidationError("batch is not in draft")
	}

	return s.enqueuePass(ctx, batch, batch.StartTime)
}

func (s *batchService) PauseBatch(ctx context.Context, batchID string) error {
	batch, err := s.batchRepo.Get(ctx, batchID)
	if err != nil {
		return err
	}
	ok, err := s.stateMachine.Transition(ctx, batchID, batch.Status, domain.BatchStatusPaused)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewValidationError(fmt.Sprintf("cannot pause a %s batch", batch.Status))
	}
	return nil
}

// ResumeBatch moves a paused batch back to scheduled and enqueues an
// immediate pass so it does not wait for the next sweep
func (s *batchService) ResumeBatch(ctx context.Context, batchID string) error {
	batch, err := s.batchRepo.Get(ctx, batchID)
	if err != nil {
		return err
	}
	ok, err := s.stateMachine.Transition(ctx, batchID, domain.BatchStatusPaused, domain.BatchStatusScheduled)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewValidationError(fmt.Sprintf("cannot resume a %s batch", batch.Status))
	}
	return s.enqueuePass(ctx, batch, s.timeProvider.Now())
}

func (s *batchService) CancelBatch(ctx context.Context, batchID string) error {
	batch, err := s.batchRepo.Get(ctx, batchID)
	if err != nil {
		return err
	}
	ok, err := s.stateMachine.Transition(ctx, batchID, batch.Status, domain.BatchStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewValidationError(fmt.Sprintf("cannot cancel a %s batch", batch.Status))
	}
	// Recipient cursors stay intact; only forward progress stops
	if err := s.batchRepo.SetNextSubCycleTime(ctx, batchID, nil); err != nil {
		s.logger.WithField("batch_id", batchID).Warn("Failed to clear next sub-cycle time on cancel")
	}
	return nil
}

// RetryFailedBatch is the manual failed→scheduled edge
func (s *batchService) RetryFailedBatch(ctx context.Context, batchID string) error {
	batch, err := s.batchRepo.Get(ctx, batchID)
	if err != nil {
		return err
	}
	ok, err := s.stateMachine.Transition(ctx, batchID, domain.BatchStatusFailed, domain.BatchStatusScheduled)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewValidationError(fmt.Sprintf("cannot retry a %s batch", batch.Status))
	}
	return s.enqueuePass(ctx, batch, s.timeProvider.Now())
}

// ResetBatchCounters zeroes the send counters after a draft edit replaces
// the recipient list. Counters are otherwise monotonic.
func (s *batchService) ResetBatchCounters(ctx context.Context, batchID string) error {
	batch, err := s.batchRepo.Get(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.Status != domain.BatchStatusDraft {
		return domain.NewValidationError("counters can only be reset on a draft batch")
	}
	return s.batchRepo.ResetCounters(ctx, batchID)
}

func (s *batchService) MarkDocumentsReceived(ctx context.Context, batchID, email string) error {
	batch, err := s.batchRepo.Get(ctx, batchID)
	if err != nil {
		return err
	}
	targets, err := s.dedup.Merge(ctx, batch)
	if err != nil {
		return err
	}

	key := domain.NormalizeEmail(email)
	for _, target := range targets {
		if target.Email == key {
			return s.recipientRepo.MarkCompleted(ctx, batchID, key, target.Source, s.timeProvider.Now())
		}
	}
	return &domain.ErrNotFound{Entity: "recipient", ID: key}
}

func (s *batchService) enqueuePass(ctx context.Context, batch *domain.Batch, runAt time.Time) error {
	now := s.timeProvider.Now()
	if runAt.Before(now) {
		runAt = now
	}
	task := &domain.DispatchTask{
		ID:           uuid.New().String(),
		TenantID:     batch.TenantID,
		BatchID:      batch.ID,
		Kind:         domain.TaskKindDispatchPass,
		Status:       domain.TaskStatusPending,
		MaxAttempts:  1,
		NextRunAfter: &runAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.taskRepo.Enqueue(ctx, task); err != nil {
		return NewDispatchErrorWithBatch(ErrCodeEnqueueFailed,
			fmt.Sprintf("failed to enqueue dispatch pass: %v", err), batch.ID, true, err)
	}
	return nil
}
