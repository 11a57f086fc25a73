package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/internal/domain/mocks"
	"github.com/sendcycle/sendcycle/internal/service/dispatch"
	pkgmocks "github.com/sendcycle/sendcycle/pkg/mocks"
)

func lenientLogger(ctrl *gomock.Controller) *pkgmocks.MockLogger {
	log := pkgmocks.NewMockLogger(ctrl)
	log.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(log).AnyTimes()
	log.EXPECT().WithFields(gomock.Any()).Return(log).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

// stubCoordinator lets tests script pass and retry outcomes
type stubCoordinator struct {
	mu         sync.Mutex
	passErr    error
	retryErr   error
	passCalls  []string
	retryCalls []*domain.DispatchTask
	passResult *dispatch.PassResult
}

func (s *stubCoordinator) RunPass(ctx context.Context, batchID string) (*dispatch.PassResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passCalls = append(s.passCalls, batchID)
	if s.passErr != nil {
		return nil, s.passErr
	}
	if s.passResult != nil {
		return s.passResult, nil
	}
	return &dispatch.PassResult{BatchID: batchID, Outcome: dispatch.PassOutcomeCompleted}, nil
}

func (s *stubCoordinator) RunRetry(ctx context.Context, task *domain.DispatchTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryCalls = append(s.retryCalls, task)
	return s.retryErr
}

func newTestWorker(t *testing.T, coord dispatch.Coordinator) (*Worker, *mocks.MockTaskRepository, *mocks.MockBatchRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	taskRepo := mocks.NewMockTaskRepository(ctrl)
	batchRepo := mocks.NewMockBatchRepository(ctrl)

	config := DefaultWorkerConfig()
	config.PollInterval = 10 * time.Millisecond
	config.CircuitBreakerThreshold = 2
	config.CircuitBreakerCooldown = time.Minute

	worker := NewWorker(taskRepo, batchRepo, coord,
		dispatch.NewRetryPolicy(nil), config, lenientLogger(ctrl))
	worker.ctx, worker.cancel = context.WithCancel(context.Background())
	t.Cleanup(worker.cancel)
	return worker, taskRepo, batchRepo
}

func pendingTask(kind domain.TaskKind) *domain.DispatchTask {
	return &domain.DispatchTask{
		ID:          "task-1",
		TenantID:    "tenant-1",
		BatchID:     "batch-1",
		Kind:        kind,
		Status:      domain.TaskStatusProcessing,
		Attempts:    0,
		MaxAttempts: 3,
	}
}

func TestWorker_ProcessTask(t *testing.T) {
	t.Run("dispatch pass success completes the task", func(t *testing.T) {
		coord := &stubCoordinator{}
		worker, taskRepo, _ := newTestWorker(t, coord)

		taskRepo.EXPECT().MarkCompleted(gomock.Any(), "task-1").Return(nil)

		worker.processTask(pendingTask(domain.TaskKindDispatchPass))
		assert.Equal(t, []string{"batch-1"}, coord.passCalls)
	})

	t.Run("send retry routes to the retry path", func(t *testing.T) {
		coord := &stubCoordinator{}
		worker, taskRepo, _ := newTestWorker(t, coord)

		taskRepo.EXPECT().MarkCompleted(gomock.Any(), "task-1").Return(nil)

		task := pendingTask(domain.TaskKindSendRetry)
		task.RecipientEmail = "slow@corp.test"
		worker.processTask(task)

		require.Len(t, coord.retryCalls, 1)
		assert.Equal(t, "slow@corp.test", coord.retryCalls[0].RecipientEmail)
	})

	t.Run("retryable failure reschedules with backoff", func(t *testing.T) {
		coord := &stubCoordinator{
			passErr: dispatch.NewDispatchError(dispatch.ErrCodeSendFailed, "transport down", true, nil),
		}
		worker, taskRepo, _ := newTestWorker(t, coord)

		taskRepo.EXPECT().
			MarkFailed(gomock.Any(), "task-1", gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id, msg string, nextRetryAt *time.Time) error {
				require.NotNil(t, nextRetryAt)
				assert.True(t, nextRetryAt.After(time.Now()))
				return nil
			})

		worker.processTask(pendingTask(domain.TaskKindDispatchPass))
	})

	t.Run("non-retryable failure is permanent", func(t *testing.T) {
		coord := &stubCoordinator{
			passErr: dispatch.NewDispatchError(dispatch.ErrCodeConfigMissing, "no configuration", false, nil),
		}
		worker, taskRepo, _ := newTestWorker(t, coord)

		taskRepo.EXPECT().
			MarkFailed(gomock.Any(), "task-1", gomock.Any(), nil).
			Return(nil)

		worker.processTask(pendingTask(domain.TaskKindDispatchPass))
	})

	t.Run("exhausted attempts are permanent even when retryable", func(t *testing.T) {
		coord := &stubCoordinator{
			passErr: dispatch.NewDispatchError(dispatch.ErrCodeSendFailed, "transport down", true, nil),
		}
		worker, taskRepo, _ := newTestWorker(t, coord)

		task := pendingTask(domain.TaskKindDispatchPass)
		task.Attempts = 2 // next failure is the third of three

		taskRepo.EXPECT().
			MarkFailed(gomock.Any(), "task-1", gomock.Any(), nil).
			Return(nil)

		worker.processTask(task)
	})

	t.Run("open circuit defers without executing", func(t *testing.T) {
		coord := &stubCoordinator{
			passErr: dispatch.NewDispatchError(dispatch.ErrCodeSendFailed, "transport down", true, nil),
		}
		worker, taskRepo, _ := newTestWorker(t, coord)

		// Trip the breaker (threshold 2)
		taskRepo.EXPECT().MarkFailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		worker.processTask(pendingTask(domain.TaskKindDispatchPass))
		worker.processTask(pendingTask(domain.TaskKindDispatchPass))
		require.True(t, worker.circuitBreaker.IsOpen("tenant-1"))

		taskRepo.EXPECT().
			Defer(gomock.Any(), "task-1", gomock.Any()).
			DoAndReturn(func(ctx context.Context, id string, until time.Time) error {
				assert.True(t, until.After(time.Now()))
				return nil
			})

		calls := len(coord.passCalls)
		worker.processTask(pendingTask(domain.TaskKindDispatchPass))
		assert.Equal(t, calls, len(coord.passCalls), "deferred task must not execute")
	})

	t.Run("success closes a tripped tenant count", func(t *testing.T) {
		coord := &stubCoordinator{}
		worker, taskRepo, _ := newTestWorker(t, coord)

		worker.circuitBreaker.RecordFailure("tenant-1", errors.New("boom"), true)

		taskRepo.EXPECT().MarkCompleted(gomock.Any(), "task-1").Return(nil)
		worker.processTask(pendingTask(domain.TaskKindDispatchPass))

		stats := worker.GetCircuitBreakerStats()
		assert.Equal(t, 0, stats["tenant-1"].Failures)
	})
}

func TestWorker_SweepDueBatches(t *testing.T) {
	coord := &stubCoordinator{}
	worker, taskRepo, batchRepo := newTestWorker(t, coord)

	batchRepo.EXPECT().
		ListDue(gomock.Any(), gomock.Any(), 20).
		Return([]*domain.Batch{
			{ID: "batch-1", TenantID: "tenant-1"},
			{ID: "batch-2", TenantID: "tenant-2"},
		}, nil)

	var enqueued []string
	taskRepo.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, task *domain.DispatchTask) error {
			assert.Equal(t, domain.TaskKindDispatchPass, task.Kind)
			enqueued = append(enqueued, task.BatchID)
			return nil
		}).
		Times(2)

	worker.sweepDueBatches()
	assert.ElementsMatch(t, []string{"batch-1", "batch-2"}, enqueued)
}

func TestWorker_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	taskRepo := mocks.NewMockTaskRepository(ctrl)
	batchRepo := mocks.NewMockBatchRepository(ctrl)
	taskRepo.EXPECT().ClaimDue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	batchRepo.EXPECT().ListDue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	config := DefaultWorkerConfig()
	config.PollInterval = 5 * time.Millisecond

	worker := NewWorker(taskRepo, batchRepo, &stubCoordinator{},
		dispatch.NewRetryPolicy(nil), config, lenientLogger(ctrl))

	require.NoError(t, worker.Start(context.Background()))
	assert.True(t, worker.IsRunning())

	// Second start is a no-op
	require.NoError(t, worker.Start(context.Background()))

	time.Sleep(20 * time.Millisecond)
	worker.Stop()
	assert.False(t, worker.IsRunning())

	// Second stop is a no-op
	worker.Stop()
}
