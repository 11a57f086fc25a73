package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sendcycle/sendcycle/config"
	"github.com/sendcycle/sendcycle/internal/app"
	"github.com/sendcycle/sendcycle/pkg/logger"
)

// osExit is a variable to allow mocking os.Exit in tests
var osExit = os.Exit

// signalNotify allows mocking the signal channel in tests
var signalNotify = signal.Notify

// runWorker contains the core worker logic, extracted for testability
func runWorker(cfg *config.Config, appLogger logger.Logger) error {
	application := app.NewApp(cfg, app.WithLogger(appLogger))

	if err := application.Initialize(); err != nil {
		appLogger.WithField("error", err.Error()).Error("Initialization failed")
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		appLogger.WithField("error", err.Error()).Error("Failed to start worker")
		return err
	}
	appLogger.Info("Dispatch worker started")

	shutdown := make(chan os.Signal, 1)
	signalNotify(shutdown, os.Interrupt, syscall.SIGTERM)

	sig := <-shutdown
	appLogger.WithField("signal", sig.String()).Info("Shutdown signal received - starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		appLogger.WithField("error", err.Error()).Error("Error during graceful shutdown")
		return err
	}

	appLogger.Info("Dispatch worker stopped")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		osExit(1)
		return
	}

	appLogger := logger.NewLoggerWithLevel(cfg.LogLevel)

	if err := runWorker(cfg, appLogger); err != nil {
		osExit(1)
	}
}
