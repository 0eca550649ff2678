package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportBooksCommand_ParseFlags(t *testing.T) {
	t.Run("defaults to json", func(t *testing.T) {
		cmd := NewExportBooksCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-out", "books.json"}))
		assert.Equal(t, FormatJSON, cmd.Format)
		assert.Equal(t, "./library.db", cmd.DatabasePath)
	})

	t.Run("requires out", func(t *testing.T) {
		cmd := NewExportBooksCommand()
		assert.ErrorContains(t, cmd.ParseFlags(nil), "-out is required")
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		cmd := NewExportBooksCommand()
		assert.ErrorContains(t, cmd.ParseFlags([]string{"-out", "x", "-format", "csv"}), "unknown format")
	})
}

func TestExportBooksCommand_RoundTrip(t *testing.T) {
	dbPath, _, cleanup := setupTestDB(t)
	cleanup()
	out := filepath.Join(t.TempDir(), "books.json")

	export := &ExportBooksCommand{DatabasePath: dbPath, Output: out, Format: FormatJSON}
	require.NoError(t, export.Run())

	// Importing the export into a fresh database with replace is a no-op
	// on content.
	_, repo, cleanupFresh := setupTestDB(t)
	defer cleanupFresh()
	list, err := readBooksFile(out)
	require.NoError(t, err)
	summary := ImportBooks(repo, list, true)
	assert.Equal(t, 2, summary.Replaced)
	assert.Empty(t, summary.Errors)

	book, err := repo.GetByISBN("978-0316452960")
	require.NoError(t, err)
	assert.Equal(t, []string{"Andrzej Sapkowski"}, book.Authors)
}

func TestExportBooksCommand_Markdown(t *testing.T) {
	dbPath, _, cleanup := setupTestDB(t)
	cleanup()
	out := filepath.Join(t.TempDir(), "notes")

	cmd := &ExportBooksCommand{DatabasePath: dbPath, Output: out, Format: FormatMarkdown}
	require.NoError(t, cmd.Run())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.FileExists(t, filepath.Join(out, "index.md"))
}

func TestExportBooksCommand_MissingDatabase(t *testing.T) {
	cmd := &ExportBooksCommand{DatabasePath: filepath.Join(t.TempDir(), "missing.db"), Output: "x", Format: FormatJSON}

	assert.ErrorContains(t, cmd.Run(), "database not found")
}
