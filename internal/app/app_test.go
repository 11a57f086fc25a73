package app

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendcycle/sendcycle/config"
	"github.com/sendcycle/sendcycle/internal/database/schema"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Security:    config.SecurityConfig{SecretKey: "test-secret"},
		Environment: "test",
		LogLevel:    "debug",
		Version:     "test",
		Worker: config.WorkerConfig{
			WorkerCount:             2,
			PollInterval:            10 * time.Millisecond,
			ClaimBatch:              10,
			SweepBatch:              5,
			CircuitBreakerThreshold: 3,
			CircuitBreakerCooldown:  time.Minute,
		},
		Dispatch: config.DispatchConfig{
			ChunkSize:               5,
			MaxParallelism:          2,
			MaxRetries:              3,
			RetryBaseDelay:          time.Second,
			RetryMaxDelay:           10 * time.Second,
			DefaultRateLimitPerHour: 100,
		},
	}
}

func expectSchema(mock sqlmock.Sqlmock) {
	for _, query := range schema.TableDefinitions {
		mock.ExpectExec(regexp.QuoteMeta(query)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func TestAppInitialize(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	expectSchema(mock)

	application := NewApp(testConfig(), WithMockDB(db), WithLogger(logger.NewTestLogger(t)))
	require.NoError(t, application.Initialize())

	assert.NotNil(t, application.GetBatchService())
	assert.NotNil(t, application.GetCoordinator())
	assert.NotNil(t, application.GetWorker())
	assert.Equal(t, db, application.GetDB())
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	assert.NoError(t, application.Shutdown(context.Background()))
}

func TestAppStartAndShutdown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	expectSchema(mock)
	// Worker sweep and claim polls; tolerate any number of them
	mock.MatchExpectationsInOrder(false)

	application := NewApp(testConfig(), WithMockDB(db), WithLogger(logger.NewTestLogger(t)))
	require.NoError(t, application.Initialize())

	ctx := context.Background()
	require.NoError(t, application.Start(ctx))
	assert.True(t, application.GetWorker().IsRunning())

	mock.ExpectClose()
	require.NoError(t, application.Shutdown(ctx))
	assert.False(t, application.GetWorker().IsRunning())
}

func TestAppInitDBFailsOnSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(schema.TableDefinitions[0])).
		WillReturnError(assert.AnError)
	mock.ExpectClose()

	application := NewApp(testConfig(), WithMockDB(db), WithLogger(logger.NewTestLogger(t)))
	err = application.Initialize()
	assert.Error(t, err)
}
