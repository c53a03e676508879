// Package schedule re-runs a job on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled run.
type Job func(ctx context.Context) error

// Scheduler runs a Job on a standard five-field cron schedule. Runs never
// overlap: a tick that fires while the previous run is still going is
// skipped.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	job      Job
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	runs    int
}

// New parses spec and returns a scheduler for job.
func New(spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, fmt.Errorf("schedule: nil job")
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{spec: spec, schedule: sched, job: job, logger: logger}, nil
}

// Next returns the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// RunOnce runs the job immediately. It reports false without running when
// another run is in progress.
func (s *Scheduler) RunOnce(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false, nil
	}
	s.running = true
	s.runs++
	n := s.runs
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	s.logger.Info("scheduled run starting", "run", n)
	err := s.job(ctx)
	if err != nil {
		s.logger.Error("scheduled run failed", "run", n, "elapsed", time.Since(start), "err", err)
		return true, err
	}
	s.logger.Info("scheduled run finished", "run", n, "elapsed", time.Since(start))
	return true, nil
}

// Run starts the cron loop and blocks until ctx is done. Job errors are
// logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithLogger(cron.DiscardLogger))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if ran, _ := s.RunOnce(ctx); !ran {
			s.logger.Warn("previous run still in progress, skipping tick")
		}
	}))

	c.Start()
	s.logger.Info("scheduler started", "schedule", s.spec, "next", s.Next(time.Now()))

	<-ctx.Done()
	// Wait for a run that is in flight to notice cancellation and return.
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return ctx.Err()
}
