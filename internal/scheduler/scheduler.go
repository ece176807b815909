package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/photon00/twstock-correlation/internal/catalog"
)

// Scheduler runs the periodic catalog refresh. Refresh failures are logged
// and swallowed; they never reach request-serving paths.
type Scheduler struct {
	Cron    *cron.Cron
	Updater *catalog.Updater
	Ctx     context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, updater *catalog.Updater) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Updater: updater,
		Ctx:     ctx,
	}
}

// Register adds the daily catalog refresh job.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refresh); err != nil {
		return fmt.Errorf("register catalog refresh: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow triggers a refresh immediately, used at process start so the
// catalog warms without waiting for the first cron fire.
func (s *Scheduler) RunNow() {
	s.refresh()
}

func (s *Scheduler) refresh() {
	log.Println("[INFO] running catalog refresh")
	if err := s.Updater.Refresh(s.Ctx); err != nil {
		log.Printf("[WARN] catalog refresh: %v", err)
	}
}
