package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Job is one maintenance step run on every tick.
type Job struct {
	Name string
	Run  func() error
}

// MaintenanceScheduler runs catalog housekeeping (orphan cleanup, audit
// retention) on a cron schedule.
type MaintenanceScheduler struct {
	schedule string
	jobs     []Job

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewMaintenanceScheduler creates a scheduler for the given jobs. Nothing
// runs until Start.
func NewMaintenanceScheduler(schedule string, jobs ...Job) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		schedule: schedule,
		jobs:     jobs,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start validates the schedule and starts the cron loop. The scheduler
// stops on its own when ctx is cancelled.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runJobs)
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule)
	log.Printf("Maintenance scheduler: started with schedule '%s' (%d jobs). Next run: %v",
		s.schedule, len(s.jobs), nextRun)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running tick to finish and stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	log.Printf("Maintenance scheduler: stopped")
}

// RunNow runs every job synchronously and returns the first error.
func (s *MaintenanceScheduler) RunNow() error {
	for _, job := range s.jobs {
		if err := job.Run(); err != nil {
			return fmt.Errorf("%s: %w", job.Name, err)
		}
	}
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next tick will occur
func (s *MaintenanceScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runJobs keeps going after a failed job so one broken step does not
// starve the others.
func (s *MaintenanceScheduler) runJobs() {
	for _, job := range s.jobs {
		start := time.Now()
		if err := job.Run(); err != nil {
			log.Printf("Maintenance: %s failed: %v", job.Name, err)
			continue
		}
		log.Printf("Maintenance: %s done in %v", job.Name, time.Since(start).Round(time.Millisecond))
	}
}

// ValidateCronSchedule checks a standard five field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetNextRunTime calculates when the schedule next fires
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}
