package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/library/internal/tasks"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(3000), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, time.Minute, cfg.Tasks.RetryDelay)
	assert.False(t, cfg.Maintenance.CleanupEnabled)
	assert.False(t, cfg.Demo.Enabled)
	assert.Empty(t, cfg.Audit.Dir)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_PATH", "/data/catalog.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("TASK_TIMEOUT", "30s")

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "/data/catalog.db", cfg.Database.Path)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Tasks.TaskTimeout)
}

func TestDatabase_TasksDatabasePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"./library.db", "./library-tasks.db"},
		{"/data/catalog.sqlite3", "/data/catalog-tasks.sqlite3"},
		{"library", "library-tasks"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Database{Path: tt.path}.TasksDatabasePath())
		})
	}
}

func TestNewConfig_TaskDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, tasks.DefaultConfig(), cfg.Tasks.QueueConfig())
}

func TestTasks_QueueConfig_Overrides(t *testing.T) {
	t.Setenv("TASK_WORKERS", "4")
	t.Setenv("TASK_RELEASE_AFTER", "2m")

	queue := NewConfig().Tasks.QueueConfig()

	assert.Equal(t, 4, queue.Workers)
	assert.Equal(t, 2*time.Minute, queue.ReleaseAfter)
	assert.Equal(t, tasks.DefaultConfig().CleanupInterval, queue.CleanupInterval)
}
