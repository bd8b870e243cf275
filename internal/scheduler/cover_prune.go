// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// NextRun returns the first activation of schedule after from.
func NextRun(schedule string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// Job is the work run on every activation.
type Job func(ctx context.Context) error

// CoverPruneScheduler periodically clears stale entries from the cover cache.
type CoverPruneScheduler struct {
	schedule string
	job      Job
	logger   *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewCoverPruneScheduler creates a scheduler running job on schedule.
// An empty schedule disables it.
func NewCoverPruneScheduler(schedule string, job Job, logger *zap.Logger) *CoverPruneScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverPruneScheduler{
		schedule: schedule,
		job:      job,
		logger:   logger,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the job. It returns an error for an invalid schedule.
func (s *CoverPruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.schedule == "" {
		s.logger.Info("Cover prune scheduler disabled")
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		s.cancel()
		return fmt.Errorf("failed to schedule cover prune job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRun(s.schedule, time.Now())
	s.logger.Info("Cover prune scheduler started",
		zap.String("schedule", s.schedule), zap.Time("next_run", next))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *CoverPruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.isRunning = false

	s.logger.Info("Cover prune scheduler stopped")
}

// IsRunning reports whether the job is scheduled.
func (s *CoverPruneScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunNow runs the job immediately in the calling goroutine.
func (s *CoverPruneScheduler) RunNow(ctx context.Context) error {
	return s.job(ctx)
}

func (s *CoverPruneScheduler) run() {
	start := time.Now()
	if err := s.job(s.ctx); err != nil {
		s.logger.Error("Cover prune job failed", zap.Error(err))
		return
	}
	s.logger.Debug("Cover prune job finished", zap.Duration("took", time.Since(start)))
}
