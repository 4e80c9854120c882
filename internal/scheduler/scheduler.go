package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler periodically snapshots assistant usage statistics into the
// log, so long-running sessions leave a trail of request/token/error
// counts.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	reportFunc func()
}

// New creates a scheduler with the given cron spec ("0 * * * *" means
// hourly).
func New(spec string) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
	}
}

// SetReportFunction sets the stats-snapshot callback.
func (s *Scheduler) SetReportFunction(f func()) {
	s.reportFunc = f
}

// Start registers the report job and starts the cron loop. With no
// report function or an empty spec this is a no-op.
func (s *Scheduler) Start() error {
	if s.reportFunc == nil || s.spec == "" {
		log.Printf("stats reporting disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.reportFunc); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("stats reporting scheduled: %q", s.spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Printf("stats reporting stopped")
}

// IsRunning reports whether any job is registered.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
