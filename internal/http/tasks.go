package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/tasks"
)

// MaintenanceController triggers catalog housekeeping and reports on
// queued tasks.
type MaintenanceController struct {
	orphans OrphanCleaners
	queue   TaskQueue
}

// NewMaintenanceController creates a MaintenanceController. queue may be
// nil, in which case cleanup runs within the request.
func NewMaintenanceController(orphans OrphanCleaners, queue TaskQueue) *MaintenanceController {
	return &MaintenanceController{orphans: orphans, queue: queue}
}

// CleanupOrphans handles POST /api/admin/cleanup-orphans
func (mc *MaintenanceController) CleanupOrphans(c *gin.Context) {
	if mc.queue != nil {
		taskID, err := mc.queue.Enqueue(tasks.CleanupOrphansTask{})
		if err != nil {
			respondInternalError(c, err, "enqueue orphan cleanup")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"task_id": taskID,
			"type":    tasks.CleanupOrphansTask{}.Config().Name,
		})
		return
	}

	result, err := tasks.CleanupOrphans(mc.orphans.Authors, mc.orphans.Categories)
	if err != nil {
		respondStoreError(c, err, "orphans")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTaskStatus handles GET /api/tasks/:id
func (mc *MaintenanceController) GetTaskStatus(c *gin.Context) {
	if mc.queue == nil {
		respondNotFound(c, "task queue")
		return
	}

	taskID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := mc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}
