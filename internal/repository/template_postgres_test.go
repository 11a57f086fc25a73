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
)

func TestTemplateStore_Get(t *testing.T) {
	t.Run("returns stored template", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		store := NewTemplateStore(db)

		mock.ExpectQuery(`SELECT id, tenant_id, name, subject, body, is_html\s+FROM reminder_templates\s+WHERE id = \$1`).
			WithArgs("tpl-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "subject", "body", "is_html"}).
				AddRow("tpl-1", "tenant-1", "First chase", "Reminder {{ reminder_number }}", "<p>Hi {{ recipient_name }}</p>", true))

		tpl, err := store.Get(context.Background(), "tpl-1")
		require.NoError(t, err)
		assert.Equal(t, "First chase", tpl.Name)
		assert.True(t, tpl.IsHTML)
	})

	t.Run("returns not found for missing template", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		store := NewTemplateStore(db)

		mock.ExpectQuery(`SELECT .+ FROM reminder_templates`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		tpl, err := store.Get(context.Background(), "missing")
		assert.Nil(t, tpl)
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}
