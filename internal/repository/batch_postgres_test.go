package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/internal/repository/testutil"
)

func batchRows(batch *domain.Batch) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "name", "template_id", "email_config_id", "status",
		"start_time", "end_time", "interval_minutes",
		"sub_cycle_enabled", "sub_cycle_interval_minutes", "auto_complete_on_all_received", "next_sub_cycle_time",
		"total_recipients", "emails_sent", "emails_failed", "sub_cycles_completed",
		"support_fields", "created_at", "updated_at",
	}).AddRow(
		batch.ID, batch.TenantID, batch.Name, batch.TemplateID, batch.EmailConfigID, batch.Status,
		batch.StartTime, batch.EndTime, batch.IntervalMinutes,
		batch.SubCycleEnabled, batch.SubCycleIntervalMinutes, batch.AutoCompleteOnAllReceived, batch.NextSubCycleTime,
		batch.TotalRecipients, batch.EmailsSent, batch.EmailsFailed, batch.SubCyclesCompleted,
		[]byte(`{"company":"Acme"}`), batch.CreatedAt, batch.UpdatedAt,
	)
}

func sampleBatch() *domain.Batch {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Batch{
		ID:                      "batch-1",
		TenantID:                "tenant-1",
		Name:                    "Q3 document chase",
		TemplateID:              "tpl-1",
		EmailConfigID:           "cfg-1",
		Status:                  domain.BatchStatusScheduled,
		StartTime:               now,
		SubCycleEnabled:         true,
		SubCycleIntervalMinutes: 60,
		TotalRecipients:         10,
		SupportFields:           map[string]string{"company": "Acme"},
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

func TestBatchRepository_Create(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewBatchRepository(db)
	batch := sampleBatch()

	mock.ExpectExec(`INSERT INTO batches`).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), batch)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepository_Get(t *testing.T) {
	t.Run("returns batch with parsed support fields", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)
		batch := sampleBatch()

		mock.ExpectQuery(`SELECT .+ FROM batches WHERE id = \$1`).
			WithArgs("batch-1").
			WillReturnRows(batchRows(batch))

		got, err := repo.Get(context.Background(), "batch-1")
		require.NoError(t, err)
		assert.Equal(t, "batch-1", got.ID)
		assert.Equal(t, domain.BatchStatusScheduled, got.Status)
		assert.Equal(t, map[string]string{"company": "Acme"}, got.SupportFields)
		assert.Nil(t, got.EndTime)
	})

	t.Run("returns not found for missing batch", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM batches WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.Get(context.Background(), "missing")
		assert.Nil(t, got)
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestBatchRepository_Transition(t *testing.T) {
	t.Run("wins the compare-and-set", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)

		mock.ExpectExec(`UPDATE batches\s+SET status = \$1, updated_at = NOW\(\)\s+WHERE id = \$2 AND status = \$3`).
			WithArgs(domain.BatchStatusRunning, "batch-1", domain.BatchStatusScheduled).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Transition(context.Background(), "batch-1", domain.BatchStatusScheduled, domain.BatchStatusRunning)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loses the compare-and-set when status moved", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)

		mock.ExpectExec(`UPDATE batches`).
			WithArgs(domain.BatchStatusRunning, "batch-1", domain.BatchStatusScheduled).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Transition(context.Background(), "batch-1", domain.BatchStatusScheduled, domain.BatchStatusRunning)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("propagates database errors", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)

		mock.ExpectExec(`UPDATE batches`).
			WillReturnError(errors.New("connection refused"))

		ok, err := repo.Transition(context.Background(), "batch-1", domain.BatchStatusScheduled, domain.BatchStatusRunning)
		assert.False(t, ok)
		assert.Error(t, err)
	})
}

func TestBatchRepository_UpdateCounters(t *testing.T) {
	t.Run("increments counters without status change", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)

		mock.ExpectExec(`UPDATE batches\s+SET emails_sent = emails_sent \+ \$1`).
			WithArgs(3, 1, 1, "batch-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateCounters(context.Background(), "batch-1", 3, 1, 1, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sets status atomically with counters", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)
		status := domain.BatchStatusCompleted

		mock.ExpectExec(`UPDATE batches\s+SET emails_sent = emails_sent \+ \$1`).
			WithArgs(5, 0, 1, status, "batch-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateCounters(context.Background(), "batch-1", 5, 0, 1, &status)
		assert.NoError(t, err)
	})

	t.Run("reports not found when no row matched", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)

		mock.ExpectExec(`UPDATE batches`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateCounters(context.Background(), "missing", 1, 0, 0, nil)
		var notFound *domain.ErrNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestBatchRepository_SetNextSubCycleTime(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewBatchRepository(db)
	next := time.Now().UTC().Add(time.Hour)

	mock.ExpectExec(`UPDATE batches\s+SET next_sub_cycle_time = \$1`).
		WithArgs(&next, "batch-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetNextSubCycleTime(context.Background(), "batch-1", &next)
	assert.NoError(t, err)

	mock.ExpectExec(`UPDATE batches\s+SET next_sub_cycle_time = \$1`).
		WithArgs(nil, "batch-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetNextSubCycleTime(context.Background(), "batch-1", nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepository_ResetCounters(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewBatchRepository(db)

	mock.ExpectExec(`UPDATE batches\s+SET emails_sent = 0, emails_failed = 0, sub_cycles_completed = 0`).
		WithArgs("batch-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ResetCounters(context.Background(), "batch-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepository_ListDue(t *testing.T) {
	t.Run("returns due scheduled batches", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)
		now := time.Now().UTC()

		// Start time only triggers while no sub-cycle time is stored;
		// afterwards the sub-cycle time alone decides dueness
		mock.ExpectQuery(`SELECT .+ FROM batches\s+WHERE status = 'scheduled'\s+AND \(\(next_sub_cycle_time IS NULL AND start_time <= \$1\) OR next_sub_cycle_time <= \$1\)`).
			WithArgs(now, 50).
			WillReturnRows(batchRows(sampleBatch()))

		batches, err := repo.ListDue(context.Background(), now, 50)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, "batch-1", batches[0].ID)
	})

	t.Run("returns empty slice when nothing is due", func(t *testing.T) {
		db, mock, cleanup := testutil.SetupMockDB(t)
		defer cleanup()

		repo := NewBatchRepository(db)
		now := time.Now().UTC()

		mock.ExpectQuery(`SELECT .+ FROM batches`).
			WithArgs(now, 50).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		batches, err := repo.ListDue(context.Background(), now, 50)
		require.NoError(t, err)
		assert.Empty(t, batches)
	})
}
