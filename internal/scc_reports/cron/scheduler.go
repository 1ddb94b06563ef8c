package cronjob

import (
	"context"
	"errors"
	"time"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule runs every night at 12:00 AM.
const DefaultSchedule = "0 0 0 * * *"

// Scheduler triggers report runs on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	runner service.Runner
	bucket string
	logger *zap.Logger
}

func NewScheduler(runner service.Runner, bucket string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		runner: runner,
		bucket: bucket,
		logger: logger,
	}
}

// Start registers the report job with a six-field spec (seconds first) and
// starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}

	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return err
	}

	s.logger.Info("Cron scheduler started", zap.String("schedule", spec))
	s.cron.Start()
	return nil
}

// Stop halts the schedule. The returned context is done once a running job
// has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// StopAndWait halts the schedule and waits up to timeout for a running job.
// It reports whether the job finished in time.
func (s *Scheduler) StopAndWait(timeout time.Duration) bool {
	done := s.Stop().Done()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// RunOnce performs one scheduled run and logs its summary.
func (s *Scheduler) RunOnce() {
	start := time.Now()
	s.logger.Info("Scheduled report run started")

	summary, err := s.runner.Run(context.Background(), s.bucket)
	if err != nil {
		if errors.Is(err, domain.ErrBucketNotConfigured) {
			s.logger.Error("Scheduled report run skipped", zap.Error(err))
			return
		}
		s.logger.Error("Scheduled report run failed", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled report run completed",
		zap.String("run_id", summary.RunID),
		zap.Int("failed", summary.Failed()),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("summary", summary.Body()))
}
