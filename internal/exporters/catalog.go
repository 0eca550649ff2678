package exporters

import (
	"fmt"

	"github.com/mrlokans/library/internal/entities"
)

// LoadCatalog reads every book with its authors and categories, in index
// order.
func LoadCatalog(reader BookReader) ([]entities.Book, error) {
	summaries, err := reader.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]entities.Book, 0, len(summaries))
	for _, s := range summaries {
		book, err := reader.GetByISBN(s.ISBN)
		if err != nil {
			return nil, fmt.Errorf("failed to load book %s: %w", s.ISBN, err)
		}
		books = append(books, *book)
	}
	return books, nil
}

// ExportCatalog loads the whole catalog and hands it to exporter.
func ExportCatalog(reader BookReader, exporter BookExporter) (ExportResult, error) {
	books, err := LoadCatalog(reader)
	if err != nil {
		return ExportResult{}, err
	}
	return exporter.Export(books)
}
