package domain

import "context"

//go:generate mockgen -destination mocks/mock_template.go -package mocks github.com/sendcycle/sendcycle/internal/domain TemplateStore,TemplateRenderer

// ReminderTemplate is the stored source of a reminder email. Bodies are
// liquid templates; the engine only supplies variables, it never inspects
// the markup.
type ReminderTemplate struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	IsHTML   bool   `json:"is_html"`
}

// TemplateStore provides read access to reminder templates
type TemplateStore interface {
	Get(ctx context.Context, id string) (*ReminderTemplate, error)
}

// RenderedMessage is a template rendered for one recipient
type RenderedMessage struct {
	Subject string
	Body    string
	IsHTML  bool
}

// TemplateRenderer substitutes variables into a stored template. The engine
// passes recipient_name, reminder_number, and the batch's support fields.
type TemplateRenderer interface {
	Render(ctx context.Context, templateID string, variables map[string]interface{}) (*RenderedMessage, error)
}
