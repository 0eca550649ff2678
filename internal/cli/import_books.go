package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
)

// ImportBooksCommand loads books from a JSON file into the catalog.
type ImportBooksCommand struct {
	FilePath     string
	DatabasePath string
	Replace      bool
	Verbose      bool
	DryRun       bool
}

// ImportSummary counts the outcome of one import run.
type ImportSummary struct {
	Created  int
	Replaced int
	Errors   []string
}

func NewImportBooksCommand() *ImportBooksCommand {
	return &ImportBooksCommand{}
}

func (cmd *ImportBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-books", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON array of books (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Replace, "replace", false, "Overwrite books whose isbn already exists; without it they are reported as errors")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-books -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import books into the catalog. The file holds the same objects GET /api/book\n")
		fmt.Fprintf(os.Stderr, "returns: isbn, title, nb_pages, summary, authors, categories.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -file books.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-books -file books.json -replace -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportBooksCommand) Run() error {
	fmt.Println("Book Import")
	fmt.Println("===========")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	list, err := readBooksFile(cmd.FilePath)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d books in %s\n", len(list), cmd.FilePath)

	if cmd.Verbose {
		for i, book := range list {
			fmt.Printf("%d. (%s) %s by %v\n", i+1, book.ISBN, book.Title, book.Authors)
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	db, err := database.NewDatabase(cmd.DatabasePath, database.ParseLogLevel("warn"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	summary := ImportBooks(books.NewRepository(db.DB), list, cmd.Replace)

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Books created: %d\n", summary.Created)
	fmt.Printf("Books replaced: %d\n", summary.Replaced)

	if len(summary.Errors) > 0 {
		fmt.Printf("\n%d errors occurred:\n", len(summary.Errors))
		for _, errMsg := range summary.Errors {
			fmt.Printf("  [ERROR] %s\n", errMsg)
		}
		return fmt.Errorf("%d of %d books failed to import", len(summary.Errors), len(list))
	}
	return nil
}

// BookWriter is the part of the book repository an import needs.
type BookWriter interface {
	Create(book *entities.Book) (string, error)
	Modify(isbn string, book *entities.Book) error
}

// ImportBooks writes each book in its own transaction, so one bad entry does
// not abort the rest. Without replace, a book whose isbn already exists is
// left as stored and counted as an error, so the command exits non-zero;
// with replace it is overwritten through Modify.
func ImportBooks(store BookWriter, list []entities.Book, replace bool) ImportSummary {
	var summary ImportSummary
	for i := range list {
		book := &list[i]
		if book.ISBN == "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("entry %d: missing isbn", i+1))
			continue
		}

		if replace {
			if err := store.Modify(book.ISBN, book); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", book.ISBN, err))
				continue
			}
			summary.Replaced++
			continue
		}

		if _, err := store.Create(book); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", book.ISBN, err))
			continue
		}
		summary.Created++
	}
	return summary
}

func readBooksFile(path string) ([]entities.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var list []entities.Book
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return list, nil
}

