package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sendcycle/sendcycle/config"
	"github.com/sendcycle/sendcycle/internal/database"
	"github.com/sendcycle/sendcycle/internal/domain"
	"github.com/sendcycle/sendcycle/internal/repository"
	"github.com/sendcycle/sendcycle/internal/service/dispatch"
	"github.com/sendcycle/sendcycle/internal/service/queue"
	"github.com/sendcycle/sendcycle/pkg/cache"
	"github.com/sendcycle/sendcycle/pkg/logger"
	"github.com/sendcycle/sendcycle/pkg/mailer"
	"github.com/sendcycle/sendcycle/pkg/templates"
)

// App wires the dispatch engine together: database, repositories, the
// coordinator and its sub-components, and the polling worker.
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB

	// Repositories
	batchRepo     domain.BatchRepository
	recipientRepo domain.RecipientRepository
	attemptRepo   domain.SendAttemptRepository
	taskRepo      domain.TaskRepository
	configStore   domain.EmailConfigStore
	templateStore domain.TemplateStore

	// Services
	coordinator  dispatch.Coordinator
	batchService dispatch.BatchService
	retryPolicy  dispatch.RetryPolicy
	worker       *queue.Worker

	rateCounters *cache.InMemoryCache
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use an injected database connection
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger sets a custom logger
func WithLogger(log logger.Logger) AppOption {
	return func(a *App) {
		a.logger = log
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	app := &App{
		config: cfg,
		logger: logger.NewLoggerWithLevel(cfg.LogLevel),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitDB connects to the database and ensures the schema exists
func (a *App) InitDB() error {
	if a.db == nil {
		a.logger.WithFields(map[string]interface{}{
			"host":    a.config.Database.Host,
			"port":    a.config.Database.Port,
			"dbname":  a.config.Database.DBName,
			"sslmode": a.config.Database.SSLMode,
		}).Info("Connecting to database")

		db, err := database.Connect(&a.config.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
	}

	if err := database.EnsureSchema(a.db); err != nil {
		a.db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return nil
}

// InitRepositories creates the repository layer
func (a *App) InitRepositories() error {
	a.batchRepo = repository.NewBatchRepository(a.db)
	a.recipientRepo = repository.NewRecipientRepository(a.db)
	a.attemptRepo = repository.NewSendAttemptRepository(a.db)
	a.taskRepo = repository.NewTaskRepository(a.db)
	a.configStore = repository.NewEmailConfigStore(a.db, a.config.Security.SecretKey)
	a.templateStore = repository.NewTemplateStore(a.db)
	return nil
}

// InitServices creates the dispatch engine and its worker
func (a *App) InitServices() error {
	dispatchConfig := &dispatch.Config{
		ChunkSize:               a.config.Dispatch.ChunkSize,
		MaxParallelism:          a.config.Dispatch.MaxParallelism,
		InterChunkPause:         a.config.Dispatch.InterChunkPause,
		MaxProcessTime:          dispatch.DefaultConfig().MaxProcessTime,
		MaxRetries:              a.config.Dispatch.MaxRetries,
		RetryBaseDelay:          a.config.Dispatch.RetryBaseDelay,
		RetryMaxDelay:           a.config.Dispatch.RetryMaxDelay,
		DefaultRateLimitPerHour: a.config.Dispatch.DefaultRateLimitPerHour,
		RateCounterTTL:          dispatch.DefaultConfig().RateCounterTTL,
		ProgressLogInterval:     dispatch.DefaultConfig().ProgressLogInterval,
		BounceDomains:           a.config.Dispatch.BounceDomains,
	}

	a.rateCounters = cache.NewInMemoryCache(0)

	stateMachine := dispatch.NewStateMachine(a.batchRepo, a.logger)
	dedup := dispatch.NewDeduplicator(a.recipientRepo, nil, a.logger)
	rateLimiter := dispatch.NewRateLimiter(a.rateCounters, a.attemptRepo, dispatchConfig, nil, a.logger)
	a.retryPolicy = dispatch.NewRetryPolicy(dispatchConfig)
	scheduler := dispatch.NewScheduler(a.batchRepo, a.recipientRepo, a.taskRepo, nil, a.logger)

	var transports domain.TransportFactory
	if a.config.Environment == "test" {
		transports = mailer.NewTestFactory(a.logger)
	} else {
		transports = mailer.NewFactory(a.logger)
	}

	renderer := templates.NewRenderer(a.templateStore)

	a.coordinator = dispatch.NewCoordinator(
		dispatchConfig,
		a.batchRepo,
		a.recipientRepo,
		a.attemptRepo,
		a.taskRepo,
		a.configStore,
		transports,
		renderer,
		stateMachine,
		dedup,
		rateLimiter,
		a.retryPolicy,
		scheduler,
		nil,
		a.logger,
	)

	a.batchService = dispatch.NewBatchService(
		a.batchRepo,
		a.recipientRepo,
		a.taskRepo,
		a.configStore,
		stateMachine,
		dedup,
		nil,
		a.logger,
	)

	workerConfig := &queue.WorkerConfig{
		WorkerCount:             a.config.Worker.WorkerCount,
		PollInterval:            a.config.Worker.PollInterval,
		ClaimBatch:              a.config.Worker.ClaimBatch,
		SweepBatch:              a.config.Worker.SweepBatch,
		CircuitBreakerThreshold: a.config.Worker.CircuitBreakerThreshold,
		CircuitBreakerCooldown:  a.config.Worker.CircuitBreakerCooldown,
	}
	a.worker = queue.NewWorker(a.taskRepo, a.batchRepo, a.coordinator, a.retryPolicy, workerConfig, a.logger)

	return nil
}

// Initialize runs all initialization steps in order
func (a *App) Initialize() error {
	if err := a.InitDB(); err != nil {
		return err
	}
	if err := a.InitRepositories(); err != nil {
		return err
	}
	if err := a.InitServices(); err != nil {
		return err
	}
	a.logger.WithFields(map[string]interface{}{
		"version":     a.config.Version,
		"environment": a.config.Environment,
	}).Info("Application initialized")
	return nil
}

// Start runs the worker until the context is cancelled
func (a *App) Start(ctx context.Context) error {
	return a.worker.Start(ctx)
}

// Shutdown stops the worker and releases resources
func (a *App) Shutdown(ctx context.Context) error {
	if a.worker != nil {
		a.worker.Stop()
	}
	if a.rateCounters != nil {
		a.rateCounters.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	a.logger.Info("Application shut down")
	return nil
}

// GetConfig returns the application configuration
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetLogger returns the application logger
func (a *App) GetLogger() logger.Logger {
	return a.logger
}

// GetDB returns the database connection
func (a *App) GetDB() *sql.DB {
	return a.db
}

// GetBatchService returns the batch lifecycle service
func (a *App) GetBatchService() dispatch.BatchService {
	return a.batchService
}

// GetCoordinator returns the dispatch coordinator
func (a *App) GetCoordinator() dispatch.Coordinator {
	return a.coordinator
}

// GetWorker returns the task worker
func (a *App) GetWorker() *queue.Worker {
	return a.worker
}
