package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// PassOutcome summarizes how one dispatch pass ended
type PassOutcome string

const (
	// PassOutcomeAborted means another pass won the running transition
	PassOutcomeAborted PassOutcome = "aborted"
	// PassOutcomePaused means the tenant had no rate-limit headroom
	PassOutcomePaused PassOutcome = "paused"
	// PassOutcomeCompleted means the batch reached a clean end state
	PassOutcomeCompleted PassOutcome = "completed"
	// PassOutcomePartial means some sends failed but the batch completed
	PassOutcomePartial PassOutcome = "partial"
	// PassOutcomeFailed means every attempted send failed
	PassOutcomeFailed PassOutcome = "failed"
	// PassOutcomeRescheduled means a future pass was enqueued
	PassOutcomeRescheduled PassOutcome = "rescheduled"
)

// PassResult reports what one dispatch pass did
type PassResult struct {
	BatchID       string
	Outcome       PassOutcome
	Eligible      int
	Sent          int
	Failed        int
	Retried       int
	Skipped       int
	NextCycleTime *time.Time
}

// Coordinator orchestrates dispatch passes and retry sends. RunPass is the
// engine's entry point: the worker invokes it for every due batch.
type Coordinator interface {
	RunPass(ctx context.Context, batchID string) (*PassResult, error)
	RunRetry(ctx context.Context, task *domain.DispatchTask) error
}

type coordinator struct {
	config        *Config
	batchRepo     domain.BatchRepository
	recipientRepo domain.RecipientRepository
	attemptRepo   domain.SendAttemptRepository
	taskRepo      domain.TaskRepository
	configStore   domain.EmailConfigStore
	transports    domain.TransportFactory
	renderer      domain.TemplateRenderer
	stateMachine  StateMachine
	dedup         Deduplicator
	rateLimiter   RateLimiter
	retryPolicy   RetryPolicy
	scheduler     Scheduler
	timeProvider  TimeProvider
	logger        logger.Logger
}

// NewCoordinator creates a dispatch coordinator
func NewCoordinator(
	config *Config,
	batchRepo domain.BatchRepository,
	recipientRepo domain.RecipientRepository,
	attemptRepo domain.SendAttemptRepository,
	taskRepo domain.TaskRepository,
	configStore domain.EmailConfigStore,
	transports domain.TransportFactory,
	renderer domain.TemplateRenderer,
	stateMachine StateMachine,
	dedup Deduplicator,
	rateLimiter RateLimiter,
	retryPolicy RetryPolicy,
	scheduler Scheduler,
	timeProvider TimeProvider,
	log logger.Logger,
) Coordinator {
	if config == nil {
		config = DefaultConfig()
	}
	if timeProvider == nil {
		timeProvider = NewRealTimeProvider()
	}
	return &coordinator{
		config:        config,
		batchRepo:     batchRepo,
		recipientRepo: recipientRepo,
		attemptRepo:   attemptRepo,
		taskRepo:      taskRepo,
		configStore:   configStore,
		transports:    transports,
		renderer:      renderer,
		stateMachine:  stateMachine,
		dedup:         dedup,
		rateLimiter:   rateLimiter,
		retryPolicy:   retryPolicy,
		scheduler:     scheduler,
		timeProvider:  timeProvider,
		logger:        log,
	}
}

// RunPass executes one dispatch pass over a batch. Losing the running
// transition to a concurrent pass is a silent abort, not an error.
func (c *coordinator) RunPass(ctx context.Context, batchID string) (*PassResult, error) {
	result := &PassResult{BatchID: batchID}

	batch, err := c.batchRepo.Get(ctx, batchID)
	if err != nil {
		return nil, NewDispatchErrorWithBatch(ErrCodeBatchNotFound,
			fmt.Sprintf("failed to load batch: %v", err), batchID, false, err)
	}

	ok, err := c.stateMachine.Transition(ctx, batchID, domain.BatchStatusScheduled, domain.BatchStatusRunning)
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Outcome = PassOutcomeAborted
		return result, nil
	}
	batch.Status = domain.BatchStatusRunning

	// Everything below runs as the single active pass. Configuration
	// failures are the only class that fails the batch outright.
	cfg, err := c.loadEmailConfig(ctx, batch)
	if err != nil {
		c.failBatch(ctx, batch, err)
		return nil, err
	}

	limit := cfg.RateLimitPerHour
	if allowed, count := c.rateLimiter.Allow(ctx, batch.TenantID, limit); !allowed {
		// Capacity, not failure: pause and let a later trigger resume
		c.logger.WithFields(map[string]interface{}{
			"batch_id":   batchID,
			"tenant_id":  batch.TenantID,
			"hour_count": count,
		}).Warn("Tenant rate limit exhausted, pausing batch")
		if _, terr := c.stateMachine.Transition(ctx, batchID, domain.BatchStatusRunning, domain.BatchStatusPaused); terr != nil {
			return nil, terr
		}
		result.Outcome = PassOutcomePaused
		return result, nil
	}

	targets, err := c.dedup.Merge(ctx, batch)
	if err != nil {
		c.failBatch(ctx, batch, err)
		return nil, err
	}

	now := c.timeProvider.Now()
	eligible := make([]*domain.RecipientTarget, 0, len(targets))
	waiting := 0
	for _, target := range targets {
		if reason, auditFail := c.skipReason(batch, target, now); reason != "" {
			result.Skipped++
			if auditFail {
				c.recordAttempt(ctx, batch, target.Email, domain.SendAttemptStatusFailed, 1, &reason)
			}
			// A skipped target whose next reminder is still ahead keeps
			// the recurrence alive even though this pass sent nothing to it
			if awaitingNextReminder(target, now) {
				waiting++
			}
			continue
		}
		eligible = append(eligible, target)
	}
	result.Eligible = len(eligible)

	var pending int64
	truncated := false
	if len(eligible) > 0 {
		sent, failed, retried, pendingCount, cut := c.sendAll(ctx, batch, cfg, eligible)
		result.Sent = sent
		result.Failed = failed
		result.Retried = retried
		pending = pendingCount
		truncated = cut
	}
	if truncated {
		return c.continuePass(ctx, batch, result)
	}

	return c.finishPass(ctx, batch, result, pending > 0 || waiting > 0)
}

// finishPass applies counters and decides the batch's next state
func (c *coordinator) finishPass(ctx context.Context, batch *domain.Batch, result *PassResult, anyPending bool) (*PassResult, error) {
	subCycleDelta := 0
	if batch.SubCycleEnabled {
		subCycleDelta = 1
	}
	if err := c.stateMachine.UpdateCounters(ctx, batch.ID, result.Sent, result.Failed, subCycleDelta, nil); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"batch_id": batch.ID,
			"error":    err.Error(),
		}).Error("Failed to update batch counters")
	}

	// Auto-completion short-circuits any pending reschedule
	done, err := c.scheduler.ShouldAutoComplete(ctx, batch)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"batch_id": batch.ID,
			"error":    err.Error(),
		}).Warn("Auto-completion check failed, continuing without it")
	}
	if done {
		if _, err := c.stateMachine.Transition(ctx, batch.ID, domain.BatchStatusRunning, domain.BatchStatusCompleted); err != nil {
			return nil, err
		}
		if err := c.batchRepo.SetNextSubCycleTime(ctx, batch.ID, nil); err != nil {
			c.logger.WithField("batch_id", batch.ID).Warn("Failed to clear next sub-cycle time")
		}
		result.Outcome = PassOutcomeCompleted
		return result, nil
	}

	next, err := c.scheduler.ScheduleNextCycle(ctx, batch, anyPending)
	if err != nil {
		return nil, err
	}
	if next != nil {
		if _, err := c.stateMachine.Transition(ctx, batch.ID, domain.BatchStatusRunning, domain.BatchStatusScheduled); err != nil {
			return nil, err
		}
		result.Outcome = PassOutcomeRescheduled
		result.NextCycleTime = next
		return result, nil
	}

	// Terminal decision for a pass with no future cycle
	switch {
	case result.Sent == 0 && result.Failed > 0:
		if _, err := c.stateMachine.Transition(ctx, batch.ID, domain.BatchStatusRunning, domain.BatchStatusFailed); err != nil {
			return nil, err
		}
		result.Outcome = PassOutcomeFailed
	case result.Failed > 0:
		if _, err := c.stateMachine.Transition(ctx, batch.ID, domain.BatchStatusRunning, domain.BatchStatusCompleted); err != nil {
			return nil, err
		}
		result.Outcome = PassOutcomePartial
	default:
		if _, err := c.stateMachine.Transition(ctx, batch.ID, domain.BatchStatusRunning, domain.BatchStatusCompleted); err != nil {
			return nil, err
		}
		result.Outcome = PassOutcomeCompleted
	}
	return result, nil
}

// sendAll drives the chunked send loop. Within a chunk sends run in
// parallel under a semaphore; between chunks the stored status is polled so
// an external pause or cancel stops the pass at the next boundary. truncated
// reports that the pass hit its processing time budget before reaching every
// target.
func (c *coordinator) sendAll(ctx context.Context, batch *domain.Batch, cfg *domain.EmailConfiguration, targets []*domain.RecipientTarget) (sent, failed, retried int, pending int64, truncated bool) {
	transport := c.transports.ForConfig(cfg)

	var pacer *rate.Limiter
	if cfg.RateLimitPerMinute > 0 {
		pacer = rate.NewLimiter(rate.Limit(float64(cfg.RateLimitPerMinute)/60.0), 1)
	}

	// A pass never holds its worker slot past the process budget; the
	// chunker stops at the next boundary and the remainder continues in a
	// follow-up pass
	var cancel context.CancelFunc
	var passCtx context.Context
	if c.config.MaxProcessTime > 0 {
		passCtx, cancel = context.WithTimeout(ctx, c.config.MaxProcessTime)
	} else {
		passCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var mu sync.Mutex
	processor := NewChunkedProcessor[*domain.RecipientTarget](c.config.ChunkSize, c.config.InterChunkPause, c.logger).
		WithProgressLogging(c.config.ProgressLogInterval)

	firstChunk := true
	result := processor.Process(passCtx, targets, func(chunkCtx context.Context, chunk []*domain.RecipientTarget) (int, int, error) {
		if !firstChunk && c.externallyStopped(chunkCtx, batch.ID) {
			cancel()
			return 0, 0, nil
		}
		firstChunk = false

		sem := semaphore.NewWeighted(int64(c.config.MaxParallelism))
		var wg sync.WaitGroup
		var chunkSent, chunkFailed int

		for _, target := range chunk {
			if err := sem.Acquire(chunkCtx, 1); err != nil {
				break
			}
			wg.Add(1)
			go func(target *domain.RecipientTarget) {
				defer wg.Done()
				defer sem.Release(1)

				outcome := c.sendOne(chunkCtx, batch, cfg, transport, pacer, target, 1)
				mu.Lock()
				defer mu.Unlock()
				switch outcome {
				case sendOutcomeSent:
					chunkSent++
					sent++
				case sendOutcomeFailed:
					chunkFailed++
					failed++
				case sendOutcomeRetried:
					retried++
				case sendOutcomePending:
					chunkSent++
					sent++
					pending++
				}
			}(target)
		}
		wg.Wait()
		return chunkSent, chunkFailed, nil
	})

	// The chunker's failure total includes whole chunks that errored or
	// panicked; fold anything beyond the per-recipient tally in.
	if extra := result.Failure - failed; extra > 0 {
		failed += extra
	}

	if errors.Is(passCtx.Err(), context.DeadlineExceeded) {
		if remaining := len(targets) - (sent + failed + retried); remaining > 0 {
			c.logger.WithFields(map[string]interface{}{
				"batch_id":  batch.ID,
				"remaining": remaining,
			}).Warn("Pass exhausted its processing time budget")
			truncated = true
		}
	}
	return sent, failed, retried, pending, truncated
}

// continuePass hands the unprocessed remainder of a time-bounded pass to an
// immediate follow-up pass instead of finishing the batch
func (c *coordinator) continuePass(ctx context.Context, batch *domain.Batch, result *PassResult) (*PassResult, error) {
	if err := c.stateMachine.UpdateCounters(ctx, batch.ID, result.Sent, result.Failed, 0, nil); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"batch_id": batch.ID,
			"error":    err.Error(),
		}).Error("Failed to update batch counters")
	}

	now := c.timeProvider.Now()
	if err := c.batchRepo.SetNextSubCycleTime(ctx, batch.ID, &now); err != nil {
		return nil, err
	}

	task := &domain.DispatchTask{
		ID:           uuid.New().String(),
		TenantID:     batch.TenantID,
		BatchID:      batch.ID,
		Kind:         domain.TaskKindDispatchPass,
		Status:       domain.TaskStatusPending,
		MaxAttempts:  1,
		NextRunAfter: &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.taskRepo.Enqueue(ctx, task); err != nil {
		return nil, NewDispatchErrorWithBatch(ErrCodeEnqueueFailed,
			fmt.Sprintf("failed to enqueue continuation pass: %v", err), batch.ID, true, err)
	}

	if _, err := c.stateMachine.Transition(ctx, batch.ID, domain.BatchStatusRunning, domain.BatchStatusScheduled); err != nil {
		return nil, err
	}
	result.Outcome = PassOutcomeRescheduled
	result.NextCycleTime = &now
	return result, nil
}

type sendOutcome int

const (
	sendOutcomeSent sendOutcome = iota
	sendOutcomePending
	sendOutcomeFailed
	sendOutcomeRetried
)

// sendOne renders and sends one reminder, records the audit row, and
// advances the recipient cursor. attempt is 1-based.
func (c *coordinator) sendOne(ctx context.Context, batch *domain.Batch, cfg *domain.EmailConfiguration, transport domain.EmailTransport, pacer *rate.Limiter, target *domain.RecipientTarget, attempt int) sendOutcome {
	if pacer != nil {
		if err := pacer.Wait(ctx); err != nil {
			return sendOutcomeFailed
		}
	}

	c.rateLimiter.RecordSend(ctx, batch.TenantID)

	message, err := c.render(ctx, batch, target)
	if err != nil {
		msg := err.Error()
		c.recordAttempt(ctx, batch, target.Email, domain.SendAttemptStatusFailed, attempt, &msg)
		return sendOutcomeFailed
	}

	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	err = transport.Send(ctx, from, target.Email, message.Subject, message.Body, message.IsHTML)
	if err != nil {
		return c.handleSendFailure(ctx, batch, target, attempt, err)
	}

	c.recordAttempt(ctx, batch, target.Email, domain.SendAttemptStatusSent, attempt, nil)
	return c.advanceCursor(ctx, batch, target)
}

// handleSendFailure classifies a transport error and either re-enqueues the
// send or records it permanently failed. The retry is a new task, never an
// in-line wait.
func (c *coordinator) handleSendFailure(ctx context.Context, batch *domain.Batch, target *domain.RecipientTarget, attempt int, sendErr error) sendOutcome {
	msg := sendErr.Error()
	c.recordAttempt(ctx, batch, target.Email, domain.SendAttemptStatusFailed, attempt, &msg)

	if !c.retryPolicy.ShouldRetry(attempt, sendErr) {
		c.logger.WithFields(map[string]interface{}{
			"batch_id":  batch.ID,
			"recipient": target.Email,
			"attempt":   attempt,
			"error":     msg,
		}).Warn("Send permanently failed")
		return sendOutcomeFailed
	}

	delay := c.retryPolicy.NextDelay(attempt)
	runAt := c.timeProvider.Now().Add(delay)
	task := &domain.DispatchTask{
		ID:             uuid.New().String(),
		TenantID:       batch.TenantID,
		BatchID:        batch.ID,
		Kind:           domain.TaskKindSendRetry,
		Status:         domain.TaskStatusPending,
		RecipientEmail: target.Email,
		RecipientName:  target.Name,
		Source:         target.Source,
		SendAttempt:    attempt + 1,
		MaxAttempts:    c.config.MaxRetries,
		NextRunAfter:   &runAt,
		CreatedAt:      c.timeProvider.Now(),
		UpdatedAt:      c.timeProvider.Now(),
	}
	if err := c.taskRepo.Enqueue(ctx, task); err != nil {
		// Could not schedule the retry, so the failure stands
		c.logger.WithFields(map[string]interface{}{
			"batch_id":  batch.ID,
			"recipient": target.Email,
			"error":     err.Error(),
		}).Error("Failed to enqueue send retry")
		return sendOutcomeFailed
	}

	c.logger.WithFields(map[string]interface{}{
		"batch_id":  batch.ID,
		"recipient": target.Email,
		"attempt":   attempt + 1,
		"delay":     delay.String(),
	}).Info("Send retry scheduled")
	return sendOutcomeRetried
}

// advanceCursor stamps the recipient's send progress and next due time
func (c *coordinator) advanceCursor(ctx context.Context, batch *domain.Batch, target *domain.RecipientTarget) sendOutcome {
	now := c.timeProvider.Now()
	next := c.scheduler.NextDueForRecipient(batch, now)

	cursor := target.Cursor
	cursor.EmailsSentCount++
	cursor.LastEmailSentAt = &now
	cursor.NextEmailDueAt = next

	if err := c.recipientRepo.UpdateCursor(ctx, batch.ID, target.Email, target.Source, cursor); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"batch_id":  batch.ID,
			"recipient": target.Email,
			"error":     err.Error(),
		}).Error("Failed to update recipient cursor")
	}

	if next != nil {
		return sendOutcomePending
	}
	return sendOutcomeSent
}

// RunRetry re-attempts a single recipient send from a queued retry task.
// A batch may finish its pass before the retry's delay elapses, so completed
// batches still honor outstanding retries; only paused, cancelled, and failed
// batches drop them.
func (c *coordinator) RunRetry(ctx context.Context, task *domain.DispatchTask) error {
	batch, err := c.batchRepo.Get(ctx, task.BatchID)
	if err != nil {
		return NewDispatchErrorWithBatch(ErrCodeBatchNotFound,
			fmt.Sprintf("failed to load batch for retry: %v", err), task.BatchID, false, err)
	}

	switch batch.Status {
	case domain.BatchStatusRunning, domain.BatchStatusScheduled, domain.BatchStatusCompleted:
	default:
		c.logger.WithFields(map[string]interface{}{
			"batch_id":  batch.ID,
			"recipient": task.RecipientEmail,
			"status":    string(batch.Status),
		}).Info("Dropping retry for inactive batch")
		return nil
	}

	cfg, err := c.loadEmailConfig(ctx, batch)
	if err != nil {
		return err
	}

	target, err := c.findTarget(ctx, batch, task.RecipientEmail)
	if err != nil {
		return err
	}
	if target == nil || target.IsCompleted || target.DocumentsReceived {
		// Completed between the failure and the retry; nothing to send
		return nil
	}

	var pacer *rate.Limiter
	if cfg.RateLimitPerMinute > 0 {
		pacer = rate.NewLimiter(rate.Limit(float64(cfg.RateLimitPerMinute)/60.0), 1)
	}

	outcome := c.sendOne(ctx, batch, cfg, c.transports.ForConfig(cfg), pacer, target, task.SendAttempt)
	switch outcome {
	case sendOutcomeSent, sendOutcomePending:
		return c.stateMachine.UpdateCounters(ctx, batch.ID, 1, 0, 0, nil)
	case sendOutcomeFailed:
		return c.stateMachine.UpdateCounters(ctx, batch.ID, 0, 1, 0, nil)
	}
	// A further retry was enqueued; counters move when it resolves
	return nil
}

// findTarget locates one recipient in the merged view by lowercase email
func (c *coordinator) findTarget(ctx context.Context, batch *domain.Batch, email string) (*domain.RecipientTarget, error) {
	targets, err := c.dedup.Merge(ctx, batch)
	if err != nil {
		return nil, err
	}
	key := domain.NormalizeEmail(email)
	for _, target := range targets {
		if target.Email == key {
			return target, nil
		}
	}
	return nil, nil
}

func (c *coordinator) loadEmailConfig(ctx context.Context, batch *domain.Batch) (*domain.EmailConfiguration, error) {
	cfg, err := c.configStore.GetActive(ctx, batch.TenantID, batch.EmailConfigID)
	if err != nil {
		return nil, NewDispatchErrorWithBatch(ErrCodeConfigMissing,
			fmt.Sprintf("no active email configuration: %v", err), batch.ID, false, err)
	}
	if !cfg.IsActive {
		return nil, NewDispatchErrorWithBatch(ErrCodeConfigInactive,
			"email configuration is inactive", batch.ID, false, nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewDispatchErrorWithBatch(ErrCodeConfigInactive,
			fmt.Sprintf("email configuration is invalid: %v", err), batch.ID, false, err)
	}
	return cfg, nil
}

// skipReason decides whether a target is excluded from this pass. A
// non-empty reason means skip; auditFail marks validation skips that still
// get a failed audit row.
func (c *coordinator) skipReason(batch *domain.Batch, target *domain.RecipientTarget, now time.Time) (reason string, auditFail bool) {
	if !govalidator.IsEmail(target.Email) {
		return "invalid email address format", true
	}
	for _, bounceDomain := range c.config.BounceDomains {
		if strings.HasSuffix(target.Email, "@"+bounceDomain) {
			return "recipient domain on bounce list", true
		}
	}
	if target.DocumentsReceived {
		return "documents already received", false
	}
	if target.IsCompleted {
		return "recipient already completed", false
	}
	if target.EmailAlreadySent && !batch.IsRecurring() {
		return "once-only batch already sent to recipient", false
	}
	if !target.Due(now) {
		return "recipient not due yet", false
	}
	return "", false
}

// awaitingNextReminder reports whether a skipped target still has a future
// reminder due before anything else stops it
func awaitingNextReminder(target *domain.RecipientTarget, now time.Time) bool {
	if target.IsCompleted || target.DocumentsReceived {
		return false
	}
	return target.Cursor.NextEmailDueAt != nil && target.Cursor.NextEmailDueAt.After(now)
}

// externallyStopped polls the stored status between chunks so an external
// pause or cancel takes effect at the next boundary
func (c *coordinator) externallyStopped(ctx context.Context, batchID string) bool {
	batch, err := c.batchRepo.Get(ctx, batchID)
	if err != nil {
		return false
	}
	switch batch.Status {
	case domain.BatchStatusCancelled, domain.BatchStatusPaused:
		return true
	}
	return false
}

// failBatch moves a running batch to failed after a configuration-class
// error. The transition failing too is only logged; the original error is
// what surfaces.
func (c *coordinator) failBatch(ctx context.Context, batch *domain.Batch, cause error) {
	if _, err := c.stateMachine.Transition(ctx, batch.ID, domain.BatchStatusRunning, domain.BatchStatusFailed); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"batch_id": batch.ID,
			"cause":    cause.Error(),
			"error":    err.Error(),
		}).Error("Failed to mark batch failed")
	}
}

func (c *coordinator) render(ctx context.Context, batch *domain.Batch, target *domain.RecipientTarget) (*domain.RenderedMessage, error) {
	variables := map[string]interface{}{
		"recipient_name":  target.Name,
		"reminder_number": target.Cursor.EmailsSentCount + 1,
	}
	for key, value := range batch.SupportFields {
		variables[key] = value
	}
	message, err := c.renderer.Render(ctx, batch.TemplateID, variables)
	if err != nil {
		return nil, NewDispatchErrorWithBatch(ErrCodeTemplateRender,
			fmt.Sprintf("template render failed: %v", err), batch.ID, false, err)
	}
	return message, nil
}

// recordAttempt appends one audit row. Sink failures are absorbed: an audit
// outage must never abort an otherwise-successful send.
func (c *coordinator) recordAttempt(ctx context.Context, batch *domain.Batch, email string, status domain.SendAttemptStatus, attempt int, errMsg *string) {
	row := &domain.SendAttempt{
		ID:             uuid.New().String(),
		TenantID:       batch.TenantID,
		BatchID:        batch.ID,
		RecipientEmail: email,
		Status:         status,
		Attempt:        attempt,
		ErrorMessage:   errMsg,
		CorrelationID:  batch.ID,
		CreatedAt:      c.timeProvider.Now(),
	}
	if err := c.attemptRepo.Record(ctx, row); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"batch_id":  batch.ID,
			"recipient": email,
			"error":     err.Error(),
		}).Warn("Failed to record send attempt")
	}
}
