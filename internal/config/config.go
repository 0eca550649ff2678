package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/library/internal/tasks"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		CORS
		Tasks
		Maintenance
		Demo
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // silent, error, warn or info
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	CORS struct {
		AllowedOrigins []string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Maintenance struct {
		CleanupEnabled  bool
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Demo struct {
		Enabled bool // Reject every write request
	}
	Audit struct {
		Dir           string // Empty disables the write journal
		RetentionDays int    // Days to keep journal files (default: 30)
	}
)

// TasksDatabasePath returns the path of the task queue database, next to
// the catalog database: ./library.db -> ./library-tasks.db.
func (d Database) TasksDatabasePath() string {
	ext := filepath.Ext(d.Path)
	return strings.TrimSuffix(d.Path, ext) + TasksDatabaseSuffix + ext
}

// QueueConfig converts the TASK_* settings into the task queue's config.
func (t Tasks) QueueConfig() tasks.Config {
	return tasks.Config{
		Workers:           t.Workers,
		MaxRetries:        t.MaxRetries,
		RetryDelay:        t.RetryDelay,
		TaskTimeout:       t.TaskTimeout,
		ReleaseAfter:      t.ReleaseAfter,
		CleanupInterval:   t.CleanupInterval,
		RetentionDuration: t.RetentionDuration,
	}
}

// splitList parses a comma separated env value, dropping empty items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")
	v.SetDefault("cors_allowed_origins", "*")

	// Task queue defaults
	taskDefaults := tasks.DefaultConfig()
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", taskDefaults.Workers)
	v.SetDefault("task_max_retries", taskDefaults.MaxRetries)
	v.SetDefault("task_retry_delay", taskDefaults.RetryDelay)
	v.SetDefault("task_timeout", taskDefaults.TaskTimeout)
	v.SetDefault("task_release_after", taskDefaults.ReleaseAfter)
	v.SetDefault("task_cleanup_interval", taskDefaults.CleanupInterval)
	v.SetDefault("task_retention_duration", taskDefaults.RetentionDuration)

	v.SetDefault("orphan_cleanup_enabled", false)
	v.SetDefault("orphan_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	v.SetDefault("demo_mode", false)
	v.SetDefault("audit_dir", "")
	v.SetDefault("audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Maintenance: Maintenance{
			CleanupEnabled:  v.GetBool("ORPHAN_CLEANUP_ENABLED"),
			CleanupSchedule: v.GetString("ORPHAN_CLEANUP_SCHEDULE"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
