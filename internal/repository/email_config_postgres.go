package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/pkg/crypto"
)

// EmailConfigStore implements domain.EmailConfigStore. Passwords are stored
// encrypted; the store decrypts them with the instance secret key so the
// engine only ever sees plaintext credentials in memory.
type EmailConfigStore struct {
	db        *sql.DB
	secretKey string
}

// NewEmailConfigStore creates a new EmailConfigStore
func NewEmailConfigStore(db *sql.DB, secretKey string) domain.EmailConfigStore {
	return &EmailConfigStore{db: db, secretKey: secretKey}
}

// GetActive returns the configuration only if it exists, belongs to the
// tenant, and is active
func (s *EmailConfigStore) GetActive(ctx context.Context, tenantID, configID string) (*domain.EmailConfiguration, error) {
	query := `
		SELECT id, tenant_id, host, port, username, encrypted_password,
		       from_email, from_name, use_tls, is_active,
		       rate_limit_per_hour, rate_limit_per_minute
		FROM email_configurations
		WHERE id = $1 AND tenant_id = $2
	`

	var cfg domain.EmailConfiguration
	var encryptedPassword sql.NullString
	err := s.db.QueryRowContext(ctx, query, configID, tenantID).Scan(
		&cfg.ID, &cfg.TenantID, &cfg.Host, &cfg.Port, &cfg.Username, &encryptedPassword,
		&cfg.FromEmail, &cfg.FromName, &cfg.UseTLS, &cfg.IsActive,
		&cfg.RateLimitPerHour, &cfg.RateLimitPerMinute,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "email configuration", ID: configID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email configuration: %w", err)
	}

	if !cfg.IsActive {
		return nil, &domain.ErrInactiveConfiguration{ConfigID: configID}
	}

	if encryptedPassword.Valid && encryptedPassword.String != "" {
		password, err := crypto.DecryptFromHexString(encryptedPassword.String, s.secretKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt smtp password: %w", err)
		}
		cfg.Password = password
	}
	return &cfg, nil
}
