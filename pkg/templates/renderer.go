package templates

import (
	"context"
	"fmt"

	"github.com/osteele/liquid"

	"github.com/sendcycle/sendcycle/internal/domain"
)

// Renderer renders stored reminder templates with liquid. Subject and body
// are both templates; variables come from the dispatch engine
// (recipient_name, reminder_number, batch support fields).
type Renderer struct {
	store  domain.TemplateStore
	engine *liquid.Engine
}

// NewRenderer creates a liquid-backed template renderer
func NewRenderer(store domain.TemplateStore) *Renderer {
	return &Renderer{
		store:  store,
		engine: liquid.NewEngine(),
	}
}

// Render loads a template and substitutes the given variables
func (r *Renderer) Render(ctx context.Context, templateID string, variables map[string]interface{}) (*domain.RenderedMessage, error) {
	template, err := r.store.Get(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", templateID, err)
	}

	subject, err := r.engine.ParseAndRenderString(template.Subject, variables)
	if err != nil {
		return nil, fmt.Errorf("failed to render subject of template %s: %w", templateID, err)
	}

	body, err := r.engine.ParseAndRenderString(template.Body, variables)
	if err != nil {
		return nil, fmt.Errorf("failed to render body of template %s: %w", templateID, err)
	}

	return &domain.RenderedMessage{
		Subject: subject,
		Body:    body,
		IsHTML:  template.IsHTML,
	}, nil
}
