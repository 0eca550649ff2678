package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/categories"
	"github.com/mrlokans/library/internal/demo"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// WithCORS wraps the router so browser clients on the allowed origins can
// call the JSON API.
func WithCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(handler)
}

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting server at http://%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Library v%s", version)

	var demoMiddleware *demo.Middleware
	if cfg.Demo.Enabled {
		log.Printf("Demo mode enabled - write operations will be blocked")
		demoMiddleware = demo.NewMiddleware(true)
	}

	// A database that cannot be created and seeded is fatal: the service
	// must not run against a half-initialized schema.
	db, err := database.NewDatabase(cfg.Database.Path, database.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)

	var auditor *audit.Auditor
	if cfg.Audit.Dir != "" {
		auditor = audit.NewAuditor(cfg.Audit.Dir)
		log.Printf("Write journal enabled in %s", cfg.Audit.Dir)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.TasksDatabasePath(), cfg.Tasks.QueueConfig())
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupOrphansQueue(authorRepo, categoryRepo))
		if auditor != nil {
			taskClient.Register(tasks.NewCleanupAuditJournalQueue(auditor))
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if cfg.Maintenance.CleanupEnabled {
		jobs := maintenanceJobs(taskClient, authorRepo, categoryRepo, auditor, cfg.Audit.RetentionDays)
		maintenance := scheduler.NewMaintenanceScheduler(cfg.Maintenance.CleanupSchedule, jobs...)
		if err := maintenance.Start(schedCtx); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Books:          bookRepo,
		Database:       db,
		Auditor:        auditor,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
		Orphans:        http_controllers.OrphanCleaners{Authors: authorRepo, Categories: categoryRepo},
		DemoMiddleware: demoMiddleware,
	}
	// Keep the interface nil when the queue is disabled
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		schedCancel()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(WithCORS(router, cfg.CORS.AllowedOrigins), cfg, onShutdown)
}

// maintenanceJobs builds the scheduled housekeeping steps. With a task
// queue the work is enqueued so it shows up in task status; without one it
// runs on the scheduler goroutine.
func maintenanceJobs(taskClient *tasks.Client, authorRepo, categoryRepo tasks.OrphanCleaner, auditor *audit.Auditor, retentionDays int) []scheduler.Job {
	orphans := scheduler.Job{Name: "orphan cleanup"}
	if taskClient != nil {
		orphans.Run = func() error {
			_, err := taskClient.Enqueue(tasks.CleanupOrphansTask{})
			return err
		}
	} else {
		orphans.Run = func() error {
			result, err := tasks.CleanupOrphans(authorRepo, categoryRepo)
			if err == nil {
				log.Printf("Removed %d orphan authors and %d orphan categories", result.Authors, result.Categories)
			}
			return err
		}
	}
	jobs := []scheduler.Job{orphans}

	if auditor == nil {
		return jobs
	}
	journal := scheduler.Job{Name: "audit retention"}
	if taskClient != nil {
		journal.Run = func() error {
			_, err := taskClient.Enqueue(tasks.CleanupAuditJournalTask{RetentionDays: retentionDays})
			return err
		}
	} else {
		journal.Run = func() error {
			_, err := auditor.DeleteOlderThan(time.Duration(retentionDays) * 24 * time.Hour)
			return err
		}
	}
	return append(jobs, journal)
}
