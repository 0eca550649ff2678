package exporters

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/utils"
)

// MarkdownExporter writes one markdown note per book plus an index linking
// them, in a layout an Obsidian vault can read.
type MarkdownExporter struct {
	ExportDir     string
	IndexFileName string
	now           func() time.Time
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{
		ExportDir:     exportDir,
		IndexFileName: "index.md",
		now:           time.Now,
	}
}

func (exporter *MarkdownExporter) ensureDir() error {
	if err := os.MkdirAll(exporter.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return nil
}

// BookFileName is the note name for a book. The ISBN keeps two books with
// the same title apart.
func BookFileName(book *entities.Book) string {
	return utils.SanitizeFilename(fmt.Sprintf("%s (%s)", book.Title, book.ISBN)) + ".md"
}

// Frontmatter is the YAML header of a book note.
type Frontmatter struct {
	ISBN       string   `yaml:"isbn"`
	Title      string   `yaml:"title"`
	Pages      int      `yaml:"pages"`
	Authors    []string `yaml:"authors"`
	Categories []string `yaml:"categories"`
	ExportedAt string   `yaml:"exported_at"`
}

// GenerateMarkdown renders a book as a note with YAML frontmatter.
func GenerateMarkdown(book *entities.Book, exportedAt time.Time) (string, error) {
	header, err := yaml.Marshal(Frontmatter{
		ISBN:       book.ISBN,
		Title:      book.Title,
		Pages:      book.NbPages,
		Authors:    nonNil(book.Authors),
		Categories: nonNil(book.Categories),
		ExportedAt: exportedAt.Format("2006-01-02"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "---\n%s---\n\n", header)
	fmt.Fprintf(&builder, "# %s\n\n", book.Title)

	if len(book.Authors) > 0 {
		fmt.Fprintf(&builder, "**Auteurs:** %s\n\n", strings.Join(book.Authors, ", "))
	}
	if len(book.Categories) > 0 {
		fmt.Fprintf(&builder, "**Catégories:** %s\n\n", strings.Join(book.Categories, ", "))
	}
	if book.Summary != "" {
		fmt.Fprintf(&builder, "## Résumé\n\n%s\n", book.Summary)
	}

	return builder.String(), nil
}

// ParseFrontmatter extracts the YAML header of a note written by
// GenerateMarkdown.
func ParseFrontmatter(markdown string) (*Frontmatter, error) {
	rest, ok := strings.CutPrefix(markdown, "---\n")
	if !ok {
		return nil, fmt.Errorf("missing frontmatter")
	}
	header, _, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return nil, fmt.Errorf("unterminated frontmatter")
	}
	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, fmt.Errorf("failed to decode frontmatter: %w", err)
	}
	return &fm, nil
}

// nonNil keeps empty lists as [] rather than null in the header.
func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func (exporter *MarkdownExporter) exportBook(book *entities.Book, exportedAt time.Time) (string, error) {
	content, err := GenerateMarkdown(book, exportedAt)
	if err != nil {
		return "", err
	}
	outputPath := filepath.Join(exporter.ExportDir, BookFileName(book))
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

func (exporter *MarkdownExporter) writeIndex(books []entities.Book) (string, error) {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# Bibliothèque\n\n")
	for i := range books {
		name := strings.TrimSuffix(BookFileName(&books[i]), ".md")
		fmt.Fprintf(&builder, "- [[%s]]\n", name)
	}

	indexPath := filepath.Join(exporter.ExportDir, exporter.IndexFileName)
	if err := os.WriteFile(indexPath, []byte(builder.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write index: %w", err)
	}
	return indexPath, nil
}

// Export writes every book and the index. A book that fails to write is
// counted and skipped; failing to create the directory or the index aborts.
func (exporter *MarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	result := ExportResult{}

	if err := exporter.ensureDir(); err != nil {
		return result, err
	}

	exportedAt := exporter.now()
	written := make([]entities.Book, 0, len(books))
	for i := range books {
		path, err := exporter.exportBook(&books[i], exportedAt)
		if err != nil {
			log.Printf("Failed to export book %s: %v", books[i].ISBN, err)
			result.BooksFailed++
			continue
		}
		written = append(written, books[i])
		result.Files = append(result.Files, path)
		result.BooksProcessed++
	}

	indexPath, err := exporter.writeIndex(written)
	if err != nil {
		return result, err
	}
	result.Files = append(result.Files, indexPath)

	return result, nil
}
