package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/internal/repository/testutil"
	"github.com/sendcycle/sendcycle/pkg/crypto"
)

func emailConfigRows(encryptedPassword string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "host", "port", "username", "encrypted_password",
		"from_email", "from_name", "use_tls", "is_active",
		"rate_limit_per_hour", "rate_limit_per_minute",
	}).AddRow(
		"cfg-1", "tenant-1", "smtp.example.com", 587, "mailer", encryptedPassword,
		"reminders@example.com", "Reminders", true, active,
		500, 30,
	)
}

func TestEmailConfigStore_GetActive(t *testing.T) {
	const secretKey = "test-secret"

	t.Run("returns config with decrypted password", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		encrypted, err := crypto.EncryptToHexString("hunter2", secretKey)
		require.NoError(t, err)

		store := NewEmailConfigStore(db, secretKey)

		mock.ExpectQuery(`SELECT .+ FROM email_configurations\s+WHERE id = \$1 AND tenant_id = \$2`).
			WithArgs("cfg-1", "tenant-1").
			WillReturnRows(emailConfigRows(encrypted, true))

		cfg, err := store.GetActive(context.Background(), "tenant-1", "cfg-1")
		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com", cfg.Host)
		assert.Equal(t, "hunter2", cfg.Password)
		assert.Equal(t, 500, cfg.RateLimitPerHour)
	})

	t.Run("rejects inactive configuration", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		store := NewEmailConfigStore(db, secretKey)

		mock.ExpectQuery(`SELECT .+ FROM email_configurations`).
			WithArgs("cfg-1", "tenant-1").
			WillReturnRows(emailConfigRows("", false))

		cfg, err := store.GetActive(context.Background(), "tenant-1", "cfg-1")
		assert.Nil(t, cfg)
		var inactive *domain.ErrInactiveConfiguration
		assert.ErrorAs(t, err, &inactive)
	})

	t.Run("returns not found for missing config", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		store := NewEmailConfigStore(db, secretKey)

		mock.ExpectQuery(`SELECT .+ FROM email_configurations`).
			WithArgs("missing", "tenant-1").
			WillReturnError(sql.ErrNoRows)

		cfg, err := store.GetActive(context.Background(), "tenant-1", "missing")
		assert.Nil(t, cfg)
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("fails on undecryptable password", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		store := NewEmailConfigStore(db, secretKey)

		mock.ExpectQuery(`SELECT .+ FROM email_configurations`).
			WithArgs("cfg-1", "tenant-1").
			WillReturnRows(emailConfigRows("deadbeef", true))

		cfg, err := store.GetActive(context.Background(), "tenant-1", "cfg-1")
		assert.Nil(t, cfg)
		assert.Error(t, err)
	})

	t.Run("allows empty password for open relays", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		store := NewEmailConfigStore(db, secretKey)

		mock.ExpectQuery(`SELECT .+ FROM email_configurations`).
			WithArgs("cfg-1", "tenant-1").
			WillReturnRows(emailConfigRows("", true))

		cfg, err := store.GetActive(context.Background(), "tenant-1", "cfg-1")
		require.NoError(t, err)
		assert.Empty(t, cfg.Password)
	})
}
