package exporters

import "github.com/mrlokans/library/internal/entities"

// BookReader is the part of the catalog an export needs.
type BookReader interface {
	ListAll() ([]entities.BookSummary, error)
	GetByISBN(isbn string) (*entities.Book, error)
}

type BookExporter interface {
	Export(books []entities.Book) (ExportResult, error)
}

type ExportResult struct {
	BooksProcessed int      `json:"books_processed"`
	BooksFailed    int      `json:"books_failed"`
	Files          []string `json:"files"`
}
