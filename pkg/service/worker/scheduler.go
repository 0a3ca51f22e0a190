// Package worker runs the periodic reminder check on a cron schedule.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"

	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

// CheckFunc is one reminder check cycle.
type CheckFunc func(ctx context.Context) error

// Scheduler triggers the reminder check according to a standard
// five-field cron expression.
type Scheduler struct {
	check CheckFunc

	mu       sync.Mutex
	cron     *cron.Cron
	schedule string
	lastRun  time.Time
	lastErr  error
}

// Status is a snapshot of the scheduler state.
type Status struct {
	Running   bool       `json:"running"`
	Schedule  string     `json:"schedule,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// NewScheduler creates a stopped scheduler around the check function.
func NewScheduler(check CheckFunc) *Scheduler {
	return &Scheduler{check: check}
}

// Start begins triggering the check on the given schedule. Returns an
// error on an invalid expression; an already running scheduler is
// restarted with the new schedule.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return goerr.Wrap(err, "invalid cron schedule", goerr.V("schedule", schedule))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		s.runCheck(ctx)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to register cron job", goerr.V("schedule", schedule))
	}

	c.Start()
	s.cron = c
	s.schedule = schedule

	logging.Default().Info("reminder scheduler started", "schedule", schedule)
	return nil
}

// Stop halts scheduling and waits for a running check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.schedule = ""
	s.mu.Unlock()

	if c == nil {
		return
	}

	<-c.Stop().Done()
	logging.Default().Info("reminder scheduler stopped")
}

// Status reports the current scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Running:  s.cron != nil,
		Schedule: s.schedule,
	}
	if !s.lastRun.IsZero() {
		lastRun := s.lastRun
		st.LastRun = &lastRun
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.cron != nil {
		if entries := s.cron.Entries(); len(entries) > 0 {
			next := entries[0].Next
			st.NextRun = &next
		}
	}

	return st
}

func (s *Scheduler) runCheck(ctx context.Context) {
	start := time.Now()
	logging.Default().Info("scheduled reminder check starting")

	err := s.check(ctx)

	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		logging.Default().Error("scheduled reminder check failed", "error", err.Error())
		return
	}
	logging.Default().Info("scheduled reminder check completed",
		"duration", time.Since(start).String())
}
