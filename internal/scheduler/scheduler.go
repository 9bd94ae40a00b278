// Package scheduler runs the nightly export on a cron expression.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	// robfig/cron/v3 standard parser: min, hour, dom, month, dow.
	return &Scheduler{cron: cron.New()}
}

// Add schedules a job. The job receives a background context; a failed
// run logs and waits for the next tick rather than crashing the worker.
func (s *Scheduler) Add(spec, name string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx := context.Background()
		slog.InfoContext(ctx, "Scheduled job starting", "job", name, "spec", spec)
		if err := job(ctx); err != nil {
			slog.ErrorContext(ctx, "Scheduled job failed", "job", name, "error", err)
			return
		}
		slog.InfoContext(ctx, "Scheduled job finished", "job", name)
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
