package exporters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/library/internal/entities"
)

// JSONExporter writes the catalog as a single JSON array in the format the
// import-books command reads back.
type JSONExporter struct {
	FilePath string
}

func NewJSONExporter(filePath string) *JSONExporter {
	return &JSONExporter{FilePath: filePath}
}

func (exporter *JSONExporter) Export(books []entities.Book) (ExportResult, error) {
	if books == nil {
		books = []entities.Book{}
	}

	if dir := filepath.Dir(exporter.FilePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to marshal books: %w", err)
	}
	if err := os.WriteFile(exporter.FilePath, data, 0644); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write %s: %w", exporter.FilePath, err)
	}

	return ExportResult{BooksProcessed: len(books), Files: []string{exporter.FilePath}}, nil
}
