package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler writes snapshots on a cron schedule so the dashboard
// document stays current without a write per append.
type Scheduler struct {
	writer   *Writer
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a snapshot scheduler.
//
// Common cron expressions:
//   - "*/5 * * * *" - Every 5 minutes
//   - "0 * * * *"   - Hourly
//   - "0 3 * * *"   - Daily at 3 AM
func NewScheduler(writer *Writer, schedule string) *Scheduler {
	return &Scheduler{
		writer:   writer,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "bench.snapshot.scheduler"),
	}
}

// Start begins scheduled snapshot writes. If the schedule is empty the
// scheduler does nothing. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("snapshot schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runWrite); err != nil {
		return fmt.Errorf("failed to schedule snapshot writes: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("snapshot scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runWrite() {
	if err := s.writer.Write(); err != nil {
		s.logger.Error("scheduled snapshot write failed", "error", err)
	}
}

// Stop stops the scheduler and waits for any running write to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("snapshot scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
