package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/exporters"
)

const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ExportBooksCommand writes the catalog to a JSON file or a directory of
// markdown notes.
type ExportBooksCommand struct {
	DatabasePath string
	Output       string
	Format       string
}

func NewExportBooksCommand() *ExportBooksCommand {
	return &ExportBooksCommand{}
}

func (cmd *ExportBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-books", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.Output, "out", "", "Output file (json) or directory (markdown) (required)")
	fs.StringVar(&cmd.Format, "format", FormatJSON, "Export format: json or markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-books -out <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export every book with its authors and categories.\n")
		fmt.Fprintf(os.Stderr, "The json format can be loaded back with import-books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Output == "" {
		return fmt.Errorf("-out is required")
	}
	if cmd.Format != FormatJSON && cmd.Format != FormatMarkdown {
		return fmt.Errorf("unknown format %q (expected %s or %s)", cmd.Format, FormatJSON, FormatMarkdown)
	}
	return nil
}

func (cmd *ExportBooksCommand) exporter() exporters.BookExporter {
	if cmd.Format == FormatMarkdown {
		return exporters.NewMarkdownExporter(cmd.Output)
	}
	return exporters.NewJSONExporter(cmd.Output)
}

func (cmd *ExportBooksCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database not found: %s", cmd.DatabasePath)
	}

	db, err := database.NewDatabase(cmd.DatabasePath, database.ParseLogLevel("warn"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	result, err := exporters.ExportCatalog(books.NewRepository(db.DB), cmd.exporter())
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d books to %s\n", result.BooksProcessed, cmd.Output)
	if result.BooksFailed > 0 {
		return fmt.Errorf("%d books could not be exported", result.BooksFailed)
	}
	return nil
}
