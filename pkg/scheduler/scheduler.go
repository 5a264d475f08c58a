package scheduler

import (
	"context"

	"github.com/parlorbot/parlor/internal/logging"
	"github.com/robfig/cron/v3"
)

// Scheduler runs background maintenance jobs on cron schedules
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler. Jobs do not run until Start is called.
func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// AddJob registers a named job on a cron schedule. Job errors are logged,
// never fatal.
func (s *Scheduler) AddJob(name string, spec string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		logging.Default.Info("Running scheduled job: %s", name)
		if err := job(context.Background()); err != nil {
			logging.Default.Error("Scheduled job %s failed: %v", name, err)
		}
	})
	return err
}

// Start begins running scheduled jobs in their own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
