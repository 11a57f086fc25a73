package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sendcycle/sendcycle/internal/domain"
)

// TemplateStore implements domain.TemplateStore
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore
func NewTemplateStore(db *sql.DB) domain.TemplateStore {
	return &TemplateStore{db: db}
}

// Get retrieves a reminder template by ID
func (s *TemplateStore) Get(ctx context.Context, id string) (*domain.ReminderTemplate, error) {
	query := `
		SELECT id, tenant_id, name, subject, body, is_html
		FROM reminder_templates
		WHERE id = $1
	`

	var tpl domain.ReminderTemplate
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&tpl.ID, &tpl.TenantID, &tpl.Name, &tpl.Subject, &tpl.Body, &tpl.IsHTML,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "template", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &tpl, nil
}
