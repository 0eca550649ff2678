// Package interfaces documents the core abstractions used throughout the application.
//
// Controllers, tasks and commands depend on small interfaces rather than on
// the concrete repositories. This package lists them in one place and holds
// the compile-time checks that tie each one to its implementation.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Catalog reads and writes (internal/http/stores.go)
//   - BookLister: Index view for the home page (internal/http/stores.go)
//   - BookWriter: Bulk import target (internal/cli/import_books.go)
//   - BookReader: Full catalog reads for exports (internal/exporters/generic.go)
//   - Pinger: Database health (internal/http/stores.go)
//
// ## Export Interfaces
//
//   - BookExporter: Markdown notes or JSON file (internal/exporters/generic.go)
//
// ## Background Work Interfaces
//
//   - OrphanCleaner: Removal of unreferenced authors and categories (internal/tasks/cleanup_orphans.go)
//   - AuditJournalCleaner: Write journal retention (internal/tasks/cleanup_audit.go)
//   - TaskQueue: Enqueue and status of background tasks (internal/http/stores.go)
//
// # Adding a New Background Task
//
//  1. Define the task and its queue in internal/tasks/
//
//     type ReindexTask struct{}
//
//     func (t ReindexTask) Config() backlite.QueueConfig {
//         return backlite.QueueConfig{Name: "reindex", MaxAttempts: 1}
//     }
//
//     func NewReindexQueue(store Reindexer) backlite.Queue {
//         return backlite.NewQueue[ReindexTask](NewReindexProcessor(store))
//     }
//
//  2. Register the queue in entrypoint.go
//
//  3. Expose it through a controller in internal/http/ if it can be triggered on demand
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
