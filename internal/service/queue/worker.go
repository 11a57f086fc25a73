package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/internal/service/dispatch"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// WorkerConfig holds configuration for the dispatch worker
type WorkerConfig struct {
	WorkerCount  int           // Concurrent task executions (default: 5)
	PollInterval time.Duration // How often to poll for due work (default: 1s)
	ClaimBatch   int           // Tasks claimed per poll (default: 50)
	SweepBatch   int           // Due batches picked up per sweep (default: 20)

	// Circuit breaker settings
	CircuitBreakerThreshold int
	CircuitBreakerCooldown  time.Duration
}

// DefaultWorkerConfig returns sensible default configuration
func DefaultWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		WorkerCount:             5,
		PollInterval:            1 * time.Second,
		ClaimBatch:              50,
		SweepBatch:              20,
		CircuitBreakerThreshold: 5,
		CircuitBreakerCooldown:  time.Minute,
	}
}

// Worker polls the task table and drives the dispatch engine. It is the
// at-least-once execution substrate: duplicate claims are harmless because
// the coordinator's compare-and-set transition makes a duplicate pass a
// no-op.
type Worker struct {
	taskRepo       domain.TaskRepository
	batchRepo      domain.BatchRepository
	coordinator    dispatch.Coordinator
	retryPolicy    dispatch.RetryPolicy
	circuitBreaker *TenantCircuitBreaker
	config         *WorkerConfig
	logger         logger.Logger

	// Control
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex
}

// NewWorker creates a dispatch worker
func NewWorker(
	taskRepo domain.TaskRepository,
	batchRepo domain.BatchRepository,
	coordinator dispatch.Coordinator,
	retryPolicy dispatch.RetryPolicy,
	config *WorkerConfig,
	log logger.Logger,
) *Worker {
	if config == nil {
		config = DefaultWorkerConfig()
	}

	cbConfig := CircuitBreakerConfig{
		Threshold:      config.CircuitBreakerThreshold,
		CooldownPeriod: config.CircuitBreakerCooldown,
	}

	return &Worker{
		taskRepo:       taskRepo,
		batchRepo:      batchRepo,
		coordinator:    coordinator,
		retryPolicy:    retryPolicy,
		circuitBreaker: NewTenantCircuitBreaker(cbConfig),
		config:         config,
		logger:         log,
	}
}

// Start begins polling for due work
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.running = true
	w.mu.Unlock()

	w.logger.WithFields(map[string]interface{}{
		"worker_count":  w.config.WorkerCount,
		"poll_interval": w.config.PollInterval.String(),
		"claim_batch":   w.config.ClaimBatch,
	}).Info("Starting dispatch worker")

	w.wg.Add(1)
	go w.processLoop()

	return nil
}

// Stop gracefully stops the worker, waiting for in-flight tasks
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.logger.Info("Stopping dispatch worker...")
	w.wg.Wait()
	w.logger.Info("Dispatch worker stopped")
}

// IsRunning returns whether the worker is currently running
func (w *Worker) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Worker) processLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.sweepDueBatches()
			w.processDueTasks()
		}
	}
}

// sweepDueBatches enqueues a dispatch pass for every scheduled batch whose
// start or next sub-cycle time has elapsed. Duplicate enqueues against a
// batch already carrying a pending pass are tolerated downstream.
func (w *Worker) sweepDueBatches() {
	now := time.Now().UTC()
	batches, err := w.batchRepo.ListDue(w.ctx, now, w.config.SweepBatch)
	if err != nil {
		w.logger.WithField("error", err.Error()).Error("Failed to list due batches")
		return
	}

	for _, batch := range batches {
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
		if err := w.taskRepo.Enqueue(w.ctx, task); err != nil {
			w.logger.WithFields(map[string]interface{}{
				"batch_id": batch.ID,
				"error":    err.Error(),
			}).Error("Failed to enqueue dispatch pass for due batch")
		}
	}
}

// processDueTasks claims due tasks and executes them concurrently under the
// worker-count bound
func (w *Worker) processDueTasks() {
	tasks, err := w.taskRepo.ClaimDue(w.ctx, time.Now().UTC(), w.config.ClaimBatch)
	if err != nil {
		w.logger.WithField("error", err.Error()).Error("Failed to claim due tasks")
		return
	}
	if len(tasks) == 0 {
		return
	}

	w.logger.WithField("count", len(tasks)).Debug("Processing claimed tasks")

	var processWg sync.WaitGroup
	sem := make(chan struct{}, w.config.WorkerCount)

	for _, task := range tasks {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		sem <- struct{}{}
		processWg.Add(1)

		go func(task *domain.DispatchTask) {
			defer processWg.Done()
			defer func() { <-sem }()

			w.processTask(task)
		}(task)
	}
	processWg.Wait()
}

// processTask executes one claimed task. A task claimed while its tenant's
// circuit is open is deferred past the cooldown without counting an attempt.
func (w *Worker) processTask(task *domain.DispatchTask) {
	if w.circuitBreaker.IsOpen(task.TenantID) {
		until := time.Now().Add(w.circuitBreaker.GetConfig().CooldownPeriod)
		w.logger.WithFields(map[string]interface{}{
			"task_id":   task.ID,
			"tenant_id": task.TenantID,
		}).Debug("Circuit open, deferring task without counting an attempt")
		if err := w.taskRepo.Defer(w.ctx, task.ID, until); err != nil {
			w.logger.WithFields(map[string]interface{}{
				"task_id": task.ID,
				"error":   err.Error(),
			}).Warn("Failed to defer task while circuit open")
		}
		return
	}

	var err error
	switch task.Kind {
	case domain.TaskKindDispatchPass:
		_, err = w.coordinator.RunPass(w.ctx, task.BatchID)
	case domain.TaskKindSendRetry:
		err = w.coordinator.RunRetry(w.ctx, task)
	default:
		w.logger.WithFields(map[string]interface{}{
			"task_id": task.ID,
			"kind":    string(task.Kind),
		}).Error("Unknown task kind")
		if markErr := w.taskRepo.MarkFailed(w.ctx, task.ID, "unknown task kind", nil); markErr != nil {
			w.logger.WithField("task_id", task.ID).Error("Failed to mark unknown task failed")
		}
		return
	}

	if err != nil {
		w.handleTaskError(task, err)
		return
	}

	w.circuitBreaker.RecordSuccess(task.TenantID)
	if err := w.taskRepo.MarkCompleted(w.ctx, task.ID); err != nil {
		w.logger.WithFields(map[string]interface{}{
			"task_id": task.ID,
			"error":   err.Error(),
		}).Error("Failed to mark task completed")
	}
}

// handleTaskError classifies a task failure: infrastructure-class errors
// feed the tenant's circuit breaker and retry with backoff; everything else
// fails permanently.
func (w *Worker) handleTaskError(task *domain.DispatchTask, taskErr error) {
	retryable := dispatch.IsRetryable(taskErr)
	w.circuitBreaker.RecordFailure(task.TenantID, taskErr, retryable)

	attempts := task.Attempts + 1
	permanent := !retryable || attempts >= task.MaxAttempts

	w.logger.WithFields(map[string]interface{}{
		"task_id":      task.ID,
		"batch_id":     task.BatchID,
		"kind":         string(task.Kind),
		"attempts":     attempts,
		"max_attempts": task.MaxAttempts,
		"error":        taskErr.Error(),
		"is_permanent": permanent,
	}).Warn("Task execution failed")

	var nextRetry *time.Time
	if !permanent {
		at := time.Now().Add(w.retryPolicy.NextDelay(attempts))
		nextRetry = &at
	}
	if err := w.taskRepo.MarkFailed(w.ctx, task.ID, taskErr.Error(), nextRetry); err != nil {
		w.logger.WithFields(map[string]interface{}{
			"task_id": task.ID,
			"error":   err.Error(),
		}).Error("Failed to record task failure")
	}
}

// GetCircuitBreakerStats returns statistics about all tenant breakers
func (w *Worker) GetCircuitBreakerStats() map[string]CircuitBreakerStats {
	return w.circuitBreaker.GetStats()
}

// GetConfig returns the worker configuration
func (w *Worker) GetConfig() *WorkerConfig {
	return w.config
}
