package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/tasks"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls.

// BookStore is the catalog as seen by the book endpoints.
type BookStore interface {
	ListAll() ([]entities.BookSummary, error)
	GetByISBN(isbn string) (*entities.Book, error)
	Create(book *entities.Book) (string, error)
	Modify(isbn string, book *entities.Book) error
	Delete(isbn string) error
}

// BookLister provides the index view used by the home page.
type BookLister interface {
	ListAll() ([]entities.BookSummary, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping() error
}

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// OrphanCleaners removes authors and categories no book references.
type OrphanCleaners struct {
	Authors    tasks.OrphanCleaner
	Categories tasks.OrphanCleaner
}
