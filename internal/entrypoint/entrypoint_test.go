package entrypoint

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/categories"
)

func TestWithCORS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := WithCORS(inner, []string{"https://books.example"})

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/book", nil)
		req.Header.Set("Origin", "https://books.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://books.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	})

	t.Run("simple request from other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set("Origin", "https://anything.example")
		w := httptest.NewRecorder()
		WithCORS(inner, []string{"*"}).ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestMaintenanceJobs_Inline(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "library.db"), logger.Silent)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, books.NewRepository(db.DB).Delete("978-0316452960"))

	auditDir := t.TempDir()
	auditor := audit.NewAuditor(auditDir)
	old, err := auditor.SaveJSON(map[string]string{"k": "v"})
	require.NoError(t, err)
	past := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(auditDir, old), past, past))

	jobs := maintenanceJobs(nil, authors.NewRepository(db.DB), categories.NewRepository(db.DB), auditor, 1)
	require.Len(t, jobs, 2)
	for _, job := range jobs {
		require.NoError(t, job.Run(), job.Name)
	}

	var remaining []string
	require.NoError(t, db.DB.Table("author").Pluck("name", &remaining).Error)
	assert.Equal(t, []string{"J.K. Rowling"}, remaining)

	_, err = os.Stat(filepath.Join(auditDir, old))
	assert.True(t, os.IsNotExist(err))
}

func TestMaintenanceJobs_WithoutAuditor(t *testing.T) {
	jobs := maintenanceJobs(nil, nil, nil, nil, 30)

	require.Len(t, jobs, 1)
	assert.Equal(t, "orphan cleanup", jobs[0].Name)
}
