package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/kiosk-feed/internal/board"
)

// Refresher rebuilds and caches the aggregated document.
type Refresher interface {
	Refresh(ctx context.Context) board.AggregatedResponse
}

// Scheduler periodically re-aggregates so display clients rarely wait on upstreams.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds a single refresh run.
func New(interval, timeout time.Duration, refresher Refresher, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the refresh job (first run immediately) and starts the
// underlying scheduler. A non-positive interval disables it.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("INFO: scheduler: refresh interval not set; cache is filled on demand only")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		log.Println("DEBUG: scheduler: refreshing aggregated document")

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.refresher.Refresh(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
