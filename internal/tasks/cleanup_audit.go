package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// AuditJournalCleaner provides the ability to delete old audit journal files.
type AuditJournalCleaner interface {
	DeleteOlderThan(retention time.Duration) (int64, error)
}

// CleanupAuditJournalTask removes journal files older than the configured retention period.
type CleanupAuditJournalTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuditJournalTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_journal",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupAuditJournalProcessor creates a processor function for CleanupAuditJournalTask.
func CleanupAuditJournalProcessor(cleaner AuditJournalCleaner) backlite.QueueProcessor[CleanupAuditJournalTask] {
	return func(ctx context.Context, task CleanupAuditJournalTask) error {
		if cleaner == nil {
			return fmt.Errorf("audit journal cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOlderThan(retention)
		if err != nil {
			return fmt.Errorf("cleanup audit journal: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d audit files older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupAuditJournalQueue creates a backlite queue for audit cleanup tasks.
func NewCleanupAuditJournalQueue(cleaner AuditJournalCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuditJournalProcessor(cleaner))
}
