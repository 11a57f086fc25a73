package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// Deduplicator reconciles the two recipient storage models into one
// canonical work list, at most one target per lowercase email per batch.
type Deduplicator interface {
	// Merge builds the deduplicated target list for a batch. Direct
	// assignments win ties against legacy group members. The only side effect
	// is lazily creating a legacy completion record the first time a group
	// member is referenced without one. Output order is unspecified.
	Merge(ctx context.Context, batch *domain.Batch) ([]*domain.RecipientTarget, error)
}

type deduplicator struct {
	recipientRepo domain.RecipientRepository
	timeProvider  TimeProvider
	logger        logger.Logger
}

// NewDeduplicator creates a recipient deduplicator
func NewDeduplicator(recipientRepo domain.RecipientRepository, timeProvider TimeProvider, log logger.Logger) Deduplicator {
	if timeProvider == nil {
		timeProvider = NewRealTimeProvider()
	}
	return &deduplicator{
		recipientRepo: recipientRepo,
		timeProvider:  timeProvider,
		logger:        log,
	}
}

func (d *deduplicator) Merge(ctx context.Context, batch *domain.Batch) ([]*domain.RecipientTarget, error) {
	merged := make(map[string]*domain.RecipientTarget)

	// First pass: direct assignments. These take precedence, so they go in
	// unconditionally.
	direct, err := d.recipientRepo.ListDirect(ctx, batch.ID)
	if err != nil {
		return nil, NewDispatchErrorWithBatch(ErrCodeRecipientFetch,
			fmt.Sprintf("failed to list direct recipients: %v", err), batch.ID, true, err)
	}
	for _, r := range direct {
		target := domain.TargetFromDirect(r)
		merged[target.Email] = target
	}

	// Second pass: legacy group members. Only emails not already claimed by a
	// direct assignment get a legacy-sourced target.
	members, err := d.recipientRepo.ListGroupMembers(ctx, batch.ID)
	if err != nil {
		return nil, NewDispatchErrorWithBatch(ErrCodeRecipientFetch,
			fmt.Sprintf("failed to list group members: %v", err), batch.ID, true, err)
	}

	var statuses []*domain.LegacyRecipientStatus
	if len(members) > 0 {
		statuses, err = d.recipientRepo.ListLegacyStatuses(ctx, batch.ID)
		if err != nil {
			return nil, NewDispatchErrorWithBatch(ErrCodeRecipientFetch,
				fmt.Sprintf("failed to list legacy statuses: %v", err), batch.ID, true, err)
		}
	}
	statusByEmail := make(map[string]*domain.LegacyRecipientStatus, len(statuses))
	for _, s := range statuses {
		statusByEmail[domain.NormalizeEmail(s.Email)] = s
	}

	for _, m := range members {
		email := domain.NormalizeEmail(m.Email)
		if email == "" {
			continue
		}
		if _, exists := merged[email]; exists {
			// Direct assignment wins, or the same member appeared in a second
			// group attached to this batch.
			continue
		}

		status, ok := statusByEmail[email]
		if !ok {
			// First time this member is seen for this batch: create the
			// completion record so later cursor writes have somewhere to land.
			status = &domain.LegacyRecipientStatus{
				ID:        uuid.New().String(),
				BatchID:   batch.ID,
				Email:     email,
				Name:      m.Name,
				CreatedAt: d.timeProvider.Now(),
				UpdatedAt: d.timeProvider.Now(),
			}
			if err := d.recipientRepo.CreateLegacyStatus(ctx, status); err != nil {
				// A concurrent merge may have created it already; re-read once
				// before giving up on this member.
				refreshed, listErr := d.recipientRepo.ListLegacyStatuses(ctx, batch.ID)
				if listErr != nil {
					return nil, NewDispatchErrorWithBatch(ErrCodeRecipientFetch,
						fmt.Sprintf("failed to create legacy status for %s: %v", email, err), batch.ID, true, err)
				}
				found := false
				for _, s := range refreshed {
					if domain.NormalizeEmail(s.Email) == email {
						status = s
						found = true
						break
					}
				}
				if !found {
					return nil, NewDispatchErrorWithBatch(ErrCodeRecipientFetch,
						fmt.Sprintf("failed to create legacy status for %s: %v", email, err), batch.ID, true, err)
				}
			}
			statusByEmail[email] = status
		}

		merged[email] = domain.TargetFromLegacy(status)
	}

	targets := make([]*domain.RecipientTarget, 0, len(merged))
	for _, t := range merged {
		targets = append(targets, t)
	}

	d.logger.WithFields(map[string]interface{}{
		"batch_id":      batch.ID,
		"direct_count":  len(direct),
		"member_count":  len(members),
		"merged_count":  len(targets),
	}).Debug("Merged recipient targets")

	return targets, nil
}
