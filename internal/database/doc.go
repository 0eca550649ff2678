// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into table-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, schema creation, seeding
//	├── errors.go        # NotFound / ConstraintViolation / StorageUnavailable
//	├── books/           # Book CRUD composed over authors and categories
//	├── authors/         # Author lookup and book_author associations
//	└── categories/      # Category lookup and book_category associations
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./library.db", logger.Warn)
//
//	booksRepo := books.NewRepository(db.DB)
//	book, err := booksRepo.GetByISBN("978-2070518425")
//	if errors.Is(err, database.ErrNotFound) {
//		// ...
//	}
//
// # Schema
//
// The schema is created with explicit DDL the first time the database file
// is opened, then seeded with two books. An existing file is opened as is:
// no migrations run and nothing is reseeded.
//
// Foreign keys are enforced on every pooled connection through the DSN.
// In-memory databases are not supported since each pooled connection would
// get its own empty database.
package database
