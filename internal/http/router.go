package http

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware())

	// Apply demo mode middleware if enabled
	if cfg.DemoMiddleware != nil && cfg.DemoMiddleware.IsEnabled() {
		router.Use(cfg.DemoMiddleware.InjectContext())
		router.Use(cfg.DemoMiddleware.Handler())
	}

	if cfg.TemplatesPath != "" {
		tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
		router.SetHTMLTemplate(tmpl)
	}
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books)
	uiController := NewUIController(cfg.Books)
	maintenance := NewMaintenanceController(cfg.Orphans, cfg.TaskClient)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// UI routes
	router.GET("/", uiController.HomePage)

	// Books API endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/book", booksController.GetBook)

	writes := router.Group("/api/book")
	if cfg.Auditor != nil {
		writes.Use(AuditMiddleware(cfg.Auditor))
	}
	writes.POST("", booksController.CreateBook)
	writes.PUT("", booksController.ModifyBook)
	writes.DELETE("", booksController.DeleteBook)

	// Maintenance endpoints
	router.POST("/api/admin/cleanup-orphans", maintenance.CleanupOrphans)
	if cfg.TaskClient != nil {
		router.GET("/api/tasks/:id", maintenance.GetTaskStatus)
	}

	return router
}
