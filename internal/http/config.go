package http

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/demo"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Database Pinger

	// Write journal (optional)
	Auditor *audit.Auditor

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string

	// Maintenance. TaskClient is optional: without it cleanup runs inline.
	Orphans    OrphanCleaners
	TaskClient TaskQueue

	// Read-only mode (optional)
	DemoMiddleware *demo.Middleware
}
