// Package watch runs scheduled analyses over a symbol list.
package watch

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"stock-companion/internal/interfaces"
	"stock-companion/internal/logger"
	"stock-companion/internal/report"
	"stock-companion/internal/store"
)

// Scheduler re-analyzes the watched symbols on a cron schedule and
// appends the results to the recommendation log.
type Scheduler struct {
	cron    *cron.Cron
	advisor interfaces.Advisor
	log     *report.Log
	cfg     *store.Config
	ctx     context.Context
}

// New builds a scheduler. The cron expression uses six fields, seconds
// first, matching the config default.
func New(ctx context.Context, cfg *store.Config, adv interfaces.Advisor, recLog *report.Log) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		advisor: adv,
		log:     recLog,
		cfg:     cfg,
		ctx:     ctx,
	}
}

// Register installs the analysis task and the report retention sweep.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.cfg.Watch.Schedule, s.runAll); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	// Retention sweep once a day at 01:00.
	if _, err := s.cron.AddFunc("0 0 1 * * *", func() {
		if err := report.CompressOlder(s.cfg.Report.Dir, s.cfg.Report.RetentionDays); err != nil {
			logger.ErrorWithErr(s.ctx, "Report retention sweep failed", err)
		}
	}); err != nil {
		return fmt.Errorf("register retention task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Watch scheduler started",
		"schedule", s.cfg.Watch.Schedule,
		"symbols", len(s.cfg.Watch.Symbols))
}

// Stop stops the scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logger.Info(s.ctx, "Watch scheduler stopped")
}

// RunNow analyzes the watch list immediately, outside the schedule.
func (s *Scheduler) RunNow() {
	s.runAll()
}

func (s *Scheduler) runAll() {
	for _, symbol := range s.cfg.Watch.Symbols {
		rec, err := s.advisor.Analyze(s.ctx, symbol)
		if err != nil {
			logger.ErrorWithErr(s.ctx, "Watch analysis failed", err, "symbol", symbol)
			continue
		}
		if err := s.log.Append(rec); err != nil {
			logger.ErrorWithErr(s.ctx, "Failed to append recommendation log", err, "symbol", symbol)
		}
	}
}
