// Package tasks runs the catalog's maintenance work on a backlite queue:
// orphan author/category cleanup (queue "cleanup_orphans") and write
// journal retention (queue "cleanup_audit_journal"). Tasks are enqueued by
// POST /api/admin/cleanup-orphans and by the maintenance schedule, and their
// progress is read back through GET /api/tasks/:id.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client owns the tasks database and the backlite dispatcher working on it.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
}

// NewClient opens (or creates) the queue database at tasksDBPath, normally
// the catalog path with a -tasks suffix, and installs the backlite schema.
// The queue never shares a file with the catalog, so a long cleanup cannot
// hold the lock book writes wait on. Zero fields of cfg take DefaultConfig
// values.
func NewClient(tasksDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := sql.Open("sqlite3", tasksDBPath+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Workers + 2)
	db.SetMaxIdleConns(cfg.Workers + 1)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &stdLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create task dispatcher: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install task schema in %s: %w", tasksDBPath, err)
	}

	return &Client{
		client: client,
		db:     db,
		config: cfg,
	}, nil
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() Config {
	return c.config
}

// Register adds queues, typically NewCleanupOrphansQueue and
// NewCleanupAuditJournalQueue. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start runs the workers until ctx is cancelled or Stop is called. It
// blocks; run it on its own goroutine. A second call is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Printf("Maintenance queue started with %d workers", c.config.Workers)
	c.client.Start(ctx)
}

// Stop waits for running cleanups to finish, up to the ctx deadline.
// Reports whether every worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return true
	}

	log.Println("Stopping maintenance queue...")
	finished := c.client.Stop(ctx)
	if finished {
		log.Println("Maintenance queue stopped")
	} else {
		log.Println("Maintenance queue stop timed out, a cleanup may have been interrupted")
	}
	return finished
}

// Close closes the tasks database. Call it after Stop.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Enqueue saves a single task and returns the id GET /api/tasks/:id
// reports on.
func (c *Client) Enqueue(task backlite.Task) (string, error) {
	ids, err := c.client.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s: %w", task.Config().Name, err)
	}
	return ids[0], nil
}

// Status looks a task up by id. Finished tasks stay visible until the
// queue's retention expires, after which they are reported as not found.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.client.Status(ctx, taskID)
}

type stdLogger struct{}

func (l *stdLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (l *stdLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}

// StatusName is the status string returned by GET /api/tasks/:id.
func StatusName(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
