package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/categories"
	"github.com/mrlokans/library/internal/tasks"
)

// CleanupOrphansCommand removes authors and categories no book references.
type CleanupOrphansCommand struct {
	DatabasePath string
	LogLevel     string
}

func NewCleanupOrphansCommand() *CleanupOrphansCommand {
	return &CleanupOrphansCommand{}
}

func (cmd *CleanupOrphansCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-orphans", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.LogLevel, "log-level", "warn", "SQL log level: silent, error, warn or info")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-orphans [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete authors and categories that are no longer linked to any book.\n")
		fmt.Fprintf(os.Stderr, "Deleting a book keeps them; this command is the only way to drop them.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CleanupOrphansCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database not found: %s", cmd.DatabasePath)
	}

	db, err := database.NewDatabase(cmd.DatabasePath, database.ParseLogLevel(cmd.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	result, err := tasks.CleanupOrphans(authors.NewRepository(db.DB), categories.NewRepository(db.DB))
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d orphan authors and %d orphan categories\n", result.Authors, result.Categories)
	return nil
}
