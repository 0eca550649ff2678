package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/cli"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/categories"
	"github.com/mrlokans/library/internal/exporters"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)
var _ http.BookLister = (*books.Repository)(nil)
var _ cli.BookWriter = (*books.Repository)(nil)
var _ exporters.BookReader = (*books.Repository)(nil)

// BookExporter implementations
var _ exporters.BookExporter = (*exporters.MarkdownExporter)(nil)
var _ exporters.BookExporter = (*exporters.JSONExporter)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Background Work
// =============================================================================

// OrphanCleaner implementations
var _ tasks.OrphanCleaner = (*authors.Repository)(nil)
var _ tasks.OrphanCleaner = (*categories.Repository)(nil)

// AuditJournalCleaner implementations
var _ tasks.AuditJournalCleaner = (*audit.Auditor)(nil)

// TaskQueue implementations
var _ http.TaskQueue = (*tasks.Client)(nil)
