package tasks

import "time"

// Config tunes the maintenance queue. The catalog only runs occasional
// cleanup tasks, so a single worker is enough and keeps the tasks database
// to one writer.
type Config struct {
	Workers     int
	MaxRetries  int
	RetryDelay  time.Duration
	TaskTimeout time.Duration

	// ReleaseAfter hands a task claimed by a crashed worker back to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval and RetentionDuration bound how long finished tasks stay
	// queryable through GET /api/tasks/:id.
	CleanupInterval   time.Duration
	RetentionDuration time.Duration
}

// DefaultConfig is the source of the TASK_* environment defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           1,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// withDefaults fills every unset field from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = d.TaskTimeout
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.RetentionDuration <= 0 {
		c.RetentionDuration = d.RetentionDuration
	}
	return c
}
