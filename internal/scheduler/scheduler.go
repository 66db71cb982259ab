// Package scheduler re-runs the forecast pipeline on a cron schedule, for
// deployments that keep a report or dashboard database fresh.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work, typically a full pipeline run plus
// report write.
type Job func(ctx context.Context)

// Scheduler wraps the cron runner.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

// New creates a Scheduler bound to ctx; jobs observe its cancellation.
func New(ctx context.Context) *Scheduler {
	return &Scheduler{cron: cron.New(), ctx: ctx}
}

// Register adds a job under the given cron expression.
func (s *Scheduler) Register(spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() {
		if s.ctx.Err() != nil {
			return
		}
		job(s.ctx)
	}); err != nil {
		return fmt.Errorf("register cron job %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
