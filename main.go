package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/library/internal/cli"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "cleanup-orphans":
		cmd = cli.NewCleanupOrphansCommand()
	case "import-books":
		cmd = cli.NewImportBooksCommand()
	case "export-books":
		cmd = cli.NewExportBooksCommand()
	case "version":
		fmt.Printf("library %s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve             Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  cleanup-orphans   Remove authors and categories no book references\n")
	fmt.Fprintf(os.Stderr, "  import-books      Load books from a JSON file into the catalog\n")
	fmt.Fprintf(os.Stderr, "  export-books      Write the catalog to JSON or markdown notes\n")
	fmt.Fprintf(os.Stderr, "  version           Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
