package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/scc-reporter/config"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/bootstrap"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/observability"
	cronjob "github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/cron"
	"go.uber.org/zap"
)

const (
	shutdownTimeout     = 30 * time.Second
	scheduledRunTimeout = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := observability.InitializeLogger(cfg.Logger)
	if err := run(cfg, logger); err != nil {
		logger.Error("api exited", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

// run returns instead of exiting so deferred cleanup always happens.
func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter, err := bootstrap.BuildReporter(ctx, cfg, nil, logger)
	if err != nil {
		return fmt.Errorf("build reporter: %w", err)
	}
	defer reporter.Close()

	if cfg.Report.Bucket == "" {
		logger.Warn("GCS_BUCKET is not set; report runs will be rejected")
	}

	var scheduler *cronjob.Scheduler
	if cfg.Report.Schedule != "" {
		scheduler = cronjob.NewScheduler(reporter.Generator, cfg.Report.Bucket, logger.Named("cron"))
		if err := scheduler.Start(cfg.Report.Schedule); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.Logger.ServiceName,
		Version:        cfg.App.Version,
		Bucket:         cfg.Report.Bucket,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Runner:         reporter.Generator,
		Logger:         logger.Named("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	if scheduler != nil {
		if !scheduler.StopAndWait(scheduledRunTimeout) {
			logger.Warn("scheduled run still in flight at shutdown", zap.Duration("waited", scheduledRunTimeout))
		}
	}

	return runErr
}
