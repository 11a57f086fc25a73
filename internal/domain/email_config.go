package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination mocks/mock_email_config.go -package mocks github.com/sendcycle/sendcycle/internal/domain EmailConfigStore,EmailTransport,TransportFactory

// EmailConfiguration holds a tenant's outbound email settings. Credential
// decryption is handled by the store; the engine treats Password as opaque.
type EmailConfiguration struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`

	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
	UseTLS    bool   `json:"use_tls"`
	IsActive  bool   `json:"is_active"`

	// RateLimitPerHour bounds total sends per rolling hour (0 = unlimited)
	RateLimitPerHour int `json:"rate_limit_per_hour"`
	// RateLimitPerMinute smooths burst rate inside a pass (0 = unlimited)
	RateLimitPerMinute int `json:"rate_limit_per_minute"`
}

// Validate checks the configuration can be used for sending
func (c *EmailConfiguration) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from address is required")
	}
	return nil
}

// EmailConfigStore provides read access to tenant email configurations
type EmailConfigStore interface {
	// GetActive returns the configuration only if it exists and is active
	GetActive(ctx context.Context, tenantID, configID string) (*EmailConfiguration, error)
}

// EmailTransport is the only boundary where bytes leave the system
type EmailTransport interface {
	Send(ctx context.Context, from, to, subject, body string, isHTML bool) error
}

// TransportFactory builds a transport bound to one email configuration
type TransportFactory interface {
	ForConfig(cfg *EmailConfiguration) EmailTransport
}
