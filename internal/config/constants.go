package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./library.db"

	// TasksDatabaseSuffix is appended to the catalog database name (before
	// the extension) to get the task queue database path.
	TasksDatabaseSuffix = "-tasks"
)
