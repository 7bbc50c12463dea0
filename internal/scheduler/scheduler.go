package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher fills in forecasts that could not be resolved earlier.
type Refresher interface {
	RefreshMissingWeather(ctx context.Context) int
}

// Scheduler periodically retries weather lookups for reminders without a forecast.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. A non-positive interval disables the job.
func New(interval time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		timeout:   2 * time.Minute,
	}
}

// Start schedules the backfill job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: weather backfill disabled; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: weather backfill every %d minute(s)", minutes)
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running weather backfill job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	filled := s.refresher.RefreshMissingWeather(ctx)
	log.Printf("scheduler: completed weather backfill job; %d reminder(s) updated", filled)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
