package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_send_attempt_repository.go -package mocks github.com/sendcycle/sendcycle/internal/domain SendAttemptRepository

// SendAttemptStatus is the outcome of one send attempt
type SendAttemptStatus string

const (
	SendAttemptStatusQueued SendAttemptStatus = "queued"
	SendAttemptStatusSent   SendAttemptStatus = "sent"
	SendAttemptStatusFailed SendAttemptStatus = "failed"
)

// SendAttempt is one append-only audit row per email actually attempted.
// The engine writes these; the rate limiter's fallback path counts them.
// Detailed per-recipient error text lives here, never in batch state.
type SendAttempt struct {
	ID             string            `json:"id"`
	TenantID       string            `json:"tenant_id"`
	BatchID        string            `json:"batch_id"`
	RecipientEmail string            `json:"recipient_email"`
	Status         SendAttemptStatus `json:"status"`
	Attempt        int               `json:"attempt"`
	ErrorMessage   *string           `json:"error_message,omitempty"`
	CorrelationID  string            `json:"correlation_id"`
	CreatedAt      time.Time         `json:"created_at"`
}

// SendAttemptRepository is the append-only audit sink
type SendAttemptRepository interface {
	// Record appends one attempt row
	Record(ctx context.Context, attempt *SendAttempt) error

	// CountForTenantSince counts attempts for a tenant in a rolling window,
	// the authoritative source for rate limiting
	CountForTenantSince(ctx context.Context, tenantID string, since time.Time) (int, error)
}
