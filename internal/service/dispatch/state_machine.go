package dispatch

import (
	"context"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// StateMachine validates and performs batch status transitions. All status
// mutation in the engine funnels through here; the repository backs each
// transition with a compare-and-set under a row lock, which is what keeps
// two concurrent dispatch passes from both running the same batch.
type StateMachine interface {
	// Transition moves a batch from one status to another. Returns false
	// when the transition is disallowed by the state table or when another
	// writer changed the status first (the CAS lost). Losing the race is not
	// an error: the caller aborts its pass without side effects.
	Transition(ctx context.Context, batchID string, from, to domain.BatchStatus) (bool, error)

	// UpdateCounters applies counter deltas atomically, optionally moving the
	// batch to a new status in the same statement
	UpdateCounters(ctx context.Context, batchID string, sentDelta, failedDelta, subCycleDelta int, newStatus *domain.BatchStatus) error
}

type stateMachine struct {
	batchRepo domain.BatchRepository
	logger    logger.Logger
}

// NewStateMachine creates a new batch state machine
func NewStateMachine(batchRepo domain.BatchRepository, log logger.Logger) StateMachine {
	return &stateMachine{
		batchRepo: batchRepo,
		logger:    log,
	}
}

func (s *stateMachine) Transition(ctx context.Context, batchID string, from, to domain.BatchStatus) (bool, error) {
	if !domain.CanTransition(from, to) {
		s.logger.WithFields(map[string]interface{}{
			"batch_id": batchID,
			"from":     string(from),
			"to":       string(to),
		}).Warn("Rejected disallowed batch transition")
		return false, nil
	}

	ok, err := s.batchRepo.Transition(ctx, batchID, from, to)
	if err != nil {
		return false, err
	}

	if !ok {
		// Lost the compare-and-set race; another pass owns the batch
		s.logger.WithFields(map[string]interface{}{
			"batch_id": batchID,
			"from":     string(from),
			"to":       string(to),
		}).Debug("Batch transition lost compare-and-set race")
		return false, nil
	}

	s.logger.WithFields(map[string]interface{}{
		"batch_id": batchID,
		"from":     string(from),
		"to":       string(to),
	}).Info("Batch status transitioned")
	return true, nil
}

func (s *stateMachine) UpdateCounters(ctx context.Context, batchID string, sentDelta, failedDelta, subCycleDelta int, newStatus *domain.BatchStatus) error {
	return s.batchRepo.UpdateCounters(ctx, batchID, sentDelta, failedDelta, subCycleDelta, newStatus)
}
