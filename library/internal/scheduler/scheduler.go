package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Jobs are the daily maintenance routines run on a fixed interval.
type Jobs interface {
	RunOverdueSweep(ctx context.Context) (int, error)
	RunDueReminders(ctx context.Context) (int, error)
	RunOverdueReminders(ctx context.Context) (int, error)
}

type Scheduler struct {
	jobs     Jobs
	interval time.Duration
	log      *zap.Logger
}

func New(jobs Jobs, interval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		jobs:     jobs,
		interval: interval,
		log:      log.Named("scheduler"),
	}
}

// Run fires the job cycle once at start and then on every tick until ctx is
// cancelled. The sweep goes first so reminders see freshly marked overdue
// loans.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	type job struct {
		name string
		run  func(ctx context.Context) (int, error)
	}
	for _, j := range []job{
		{"overdue-sweep", s.jobs.RunOverdueSweep},
		{"due-reminders", s.jobs.RunDueReminders},
		{"overdue-reminders", s.jobs.RunOverdueReminders},
	} {
		if ctx.Err() != nil {
			return
		}
		processed, err := j.run(ctx)
		if err != nil {
			s.log.Error("job run", zap.String("job", j.name), zap.Error(err))
			continue
		}
		s.log.Info("job done", zap.String("job", j.name), zap.Int("processed", processed))
	}
}
