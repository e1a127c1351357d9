// Package jobs runs the periodic report warming.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ReportWarmer recomputes cached reports.
type ReportWarmer interface {
	WarmReports(ctx context.Context) error
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron    *cron.Cron
	warmer  ReportWarmer
	logger  *slog.Logger
	timeout time.Duration
}

func NewScheduler(warmer ReportWarmer, logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{cron: c, warmer: warmer, logger: logger, timeout: 2 * time.Minute}
}

// Start registers the warming job on schedule and starts the scheduler.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.WarmReports); err != nil {
		return fmt.Errorf("failed to schedule report warming: %w", err)
	}
	s.logger.Info("scheduled report warming job", "schedule", schedule)
	s.cron.Start()
	return nil
}

// WarmReports runs one warming pass.
func (s *Scheduler) WarmReports() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.WarmReports(ctx); err != nil {
		s.logger.Error("report warming failed", "error", err)
		return
	}
	s.logger.Info("reports warmed", "duration_ms", time.Since(start).Milliseconds())
}

// Stop stops the scheduler; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
