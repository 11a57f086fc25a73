package domain

import (
	"context"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_recipient_repository.go -package mocks github.com/sendcycle/sendcycle/internal/domain RecipientRepository

// RecipientSource tags which storage model a merged target came from.
// Callers never branch on it after the merge; it only routes cursor writes
// back to the right table.
type RecipientSource string

const (
	RecipientSourceDirect RecipientSource = "direct"
	RecipientSourceLegacy RecipientSource = "legacy"
)

// RecipientCursor holds the per-recipient send progress shared by both
// storage models.
type RecipientCursor struct {
	EmailsSentCount int        `json:"emails_sent_count"`
	LastEmailSentAt *time.Time `json:"last_email_sent_at,omitempty"`
	NextEmailDueAt  *time.Time `json:"next_email_due_at,omitempty"` // nil = no further email due
	IsCompleted     bool       `json:"is_completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// RecipientTarget is the canonical, deduplicated view of one recipient in a
// batch, reconciled across direct assignments and legacy group memberships.
type RecipientTarget struct {
	BatchID string          `json:"batch_id"`
	Email   string          `json:"email"` // lowercased
	Name    string          `json:"name"`
	Source  RecipientSource `json:"source"`

	// Skip conditions evaluated before a send attempt
	DocumentsReceived bool `json:"documents_received"`
	EmailAlreadySent  bool `json:"email_already_sent"`
	IsCompleted       bool `json:"is_completed"`

	Cursor RecipientCursor `json:"cursor"`
}

// Due reports whether the target should receive a reminder now. A target
// that has never been sent anything is due immediately; afterwards the
// cursor's next due time decides. A nil next due time means no further
// reminders.
func (t *RecipientTarget) Due(now time.Time) bool {
	if t.IsCompleted {
		return false
	}
	if t.Cursor.EmailsSentCount == 0 {
		return true
	}
	if t.Cursor.NextEmailDueAt == nil {
		return false
	}
	return !t.Cursor.NextEmailDueAt.After(now)
}

// BatchRecipient is a direct (batch, recipient) assignment row
type BatchRecipient struct {
	ID                string     `json:"id"`
	BatchID           string     `json:"batch_id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	EmailsSentCount   int        `json:"emails_sent_count"`
	LastEmailSentAt   *time.Time `json:"last_email_sent_at,omitempty"`
	NextEmailDueAt    *time.Time `json:"next_email_due_at,omitempty"`
	IsCompleted       bool       `json:"is_completed"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	DocumentsReceived bool       `json:"documents_received"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ReminderGroup is a legacy named recipient group owned by a tenant
type ReminderGroup struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMember is one email/name pair inside a legacy group
type GroupMember struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// LegacyRecipientStatus holds completion state for a legacy group member,
// keyed by (batch, lowercased email). Created lazily the first time the
// member is referenced by a merge.
type LegacyRecipientStatus struct {
	ID                string     `json:"id"`
	BatchID           string     `json:"batch_id"`
	Email             string     `json:"email"` // lowercased
	Name              string     `json:"name"`
	EmailsSentCount   int        `json:"emails_sent_count"`
	LastEmailSentAt   *time.Time `json:"last_email_sent_at,omitempty"`
	NextEmailDueAt    *time.Time `json:"next_email_due_at,omitempty"`
	IsCompleted       bool       `json:"is_completed"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	DocumentsReceived bool       `json:"documents_received"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an address for dedup keying
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TargetFromDirect builds a merge target from a direct assignment row
func TargetFromDirect(r *BatchRecipient) *RecipientTarget {
	return &RecipientTarget{
		BatchID:           r.BatchID,
		Email:             NormalizeEmail(r.Email),
		Name:              r.Name,
		Source:            RecipientSourceDirect,
		DocumentsReceived: r.DocumentsReceived,
		EmailAlreadySent:  r.EmailsSentCount > 0,
		IsCompleted:       r.IsCompleted,
		Cursor: RecipientCursor{
			EmailsSentCount: r.EmailsSentCount,
			LastEmailSentAt: r.LastEmailSentAt,
			NextEmailDueAt:  r.NextEmailDueAt,
			IsCompleted:     r.IsCompleted,
			CompletedAt:     r.CompletedAt,
		},
	}
}

// TargetFromLegacy builds a merge target from a legacy completion record
func TargetFromLegacy(s *LegacyRecipientStatus) *RecipientTarget {
	return &RecipientTarget{
		BatchID:           s.BatchID,
		Email:             NormalizeEmail(s.Email),
		Name:              s.Name,
		Source:            RecipientSourceLegacy,
		DocumentsReceived: s.DocumentsReceived,
		EmailAlreadySent:  s.EmailsSentCount > 0,
		IsCompleted:       s.IsCompleted,
		Cursor: RecipientCursor{
			EmailsSentCount: s.EmailsSentCount,
			LastEmailSentAt: s.LastEmailSentAt,
			NextEmailDueAt:  s.NextEmailDueAt,
			IsCompleted:     s.IsCompleted,
			CompletedAt:     s.CompletedAt,
		},
	}
}

// RecipientRepository defines data access for both recipient storage models.
// Cursor mutation goes through UpdateCursor and MarkCompleted only.
type RecipientRepository interface {
	// Direct assignment model
	ListDirect(ctx context.Context, batchID string) ([]*BatchRecipient, error)
	AddDirect(ctx context.Context, recipient *BatchRecipient) error
	CountDirect(ctx context.Context, batchID string) (int, error)

	// Legacy group model
	ListGroupMembers(ctx context.Context, batchID string) ([]*GroupMember, error)
	ListLegacyStatuses(ctx context.Context, batchID string) ([]*LegacyRecipientStatus, error)
	CreateLegacyStatus(ctx context.Context, status *LegacyRecipientStatus) error

	// UpdateCursor writes send progress for one target, routed by source
	UpdateCursor(ctx context.Context, batchID, email string, source RecipientSource, cursor RecipientCursor) error

	// MarkCompleted records the external "documents received" action
	MarkCompleted(ctx context.Context, batchID, email string, source RecipientSource, at time.Time) error

	// CountIncomplete returns how many targets across both models are not yet
	// completed, for the auto-completion decision
	CountIncomplete(ctx context.Context, batchID string) (int, error)
}
