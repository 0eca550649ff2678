package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanCleaner deletes rows no book references any more.
type OrphanCleaner interface {
	DeleteOrphans() (int64, error)
}

// OrphanCleanupResult counts what one cleanup run removed.
type OrphanCleanupResult struct {
	Authors    int64 `json:"authors"`
	Categories int64 `json:"categories"`
}

// CleanupOrphans removes authors and categories that are no longer linked
// to any book. Deleting a book keeps them, so this is the only path that
// ever drops them.
func CleanupOrphans(authors, categories OrphanCleaner) (OrphanCleanupResult, error) {
	var result OrphanCleanupResult
	if authors == nil || categories == nil {
		return result, fmt.Errorf("orphan cleaners not configured")
	}

	var err error
	result.Authors, err = authors.DeleteOrphans()
	if err != nil {
		return result, fmt.Errorf("cleanup orphan authors: %w", err)
	}
	result.Categories, err = categories.DeleteOrphans()
	if err != nil {
		return result, fmt.Errorf("cleanup orphan categories: %w", err)
	}
	return result, nil
}

// CleanupOrphansTask removes authors and categories without books.
type CleanupOrphansTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphans",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphansProcessor creates a processor function for CleanupOrphansTask.
func CleanupOrphansProcessor(authors, categories OrphanCleaner) backlite.QueueProcessor[CleanupOrphansTask] {
	return func(ctx context.Context, task CleanupOrphansTask) error {
		result, err := CleanupOrphans(authors, categories)
		if err != nil {
			return err
		}

		log.Printf("[TASK] Cleaned up %d orphan authors and %d orphan categories", result.Authors, result.Categories)
		return nil
	}
}

// NewCleanupOrphansQueue creates a backlite queue for orphan cleanup tasks.
func NewCleanupOrphansQueue(authors, categories OrphanCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphansProcessor(authors, categories))
}
