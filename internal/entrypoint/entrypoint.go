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

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/backup"
	"github.com/mrlokans/pagetrack/internal/bookstore"
	"github.com/mrlokans/pagetrack/internal/config"
	"github.com/mrlokans/pagetrack/internal/crypto"
	"github.com/mrlokans/pagetrack/internal/database"
	auditrepo "github.com/mrlokans/pagetrack/internal/database/audit"
	"github.com/mrlokans/pagetrack/internal/gist"
	"github.com/mrlokans/pagetrack/internal/gistsync"
	http_controllers "github.com/mrlokans/pagetrack/internal/http"
	"github.com/mrlokans/pagetrack/internal/localstore"
	"github.com/mrlokans/pagetrack/internal/scheduler"
	"github.com/mrlokans/pagetrack/internal/settingsstore"
	"github.com/mrlokans/pagetrack/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// newEncryptor resolves the at-rest encryption key for the gist token.
// Without a configured key a fresh one is generated for the process
// lifetime; tokens saved under it will not decrypt after a restart.
func newEncryptor(cfg *config.Config) *crypto.Encryptor {
	key := cfg.GistSync.EncryptionKey
	if key == "" {
		generated, err := crypto.GenerateKey()
		if err != nil {
			log.Printf("WARNING: failed to generate encryption key, gist token will be stored in plain text: %v", err)
			return nil
		}
		log.Printf("Generated encryption key for this run (set SYNC_ENCRYPTION_KEY=%s to persist tokens across restarts)", generated)
		key = generated
	}

	enc, err := crypto.NewEncryptorFromBase64(key)
	if err != nil {
		log.Fatalf("Invalid SYNC_ENCRYPTION_KEY: %v", err)
	}
	return enc
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting pagetrack v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Hydrate the book store from local persistence
	store := bookstore.New(localstore.New(db))
	if err := store.Hydrate(); err != nil {
		log.Fatalf("Failed to load persisted books: %v", err)
	}
	log.Printf("Loaded %d books", store.Count())

	// Settings resolution + gist token at rest
	settings := settingsstore.New(db, newEncryptor(cfg))

	// Auditor for dumping incoming payloads, audit service for events
	auditor := audit.NewAuditor(cfg.Audit.Dir)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	// Backup export/import
	backupService := backup.NewService(store, auditor)

	// Gist sync
	syncService := gistsync.NewService(gist.NewClient(), store, settings, auditor, auditService)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewPushSnapshotQueue(pushAdapter{syncService}),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// Queue a daily-ish audit cleanup on startup
		if _, err := taskClient.Add(tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}).Save(); err != nil {
			log.Printf("Failed to enqueue audit cleanup: %v", err)
		}
	}

	// Scheduled auto-push
	syncScheduler := scheduler.NewGistSyncScheduler(settings, pushAdapter{syncService})
	if err := syncScheduler.Start(context.Background()); err != nil {
		log.Printf("Failed to start sync scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		BookStore:     store,
		Database:      db,
		Auditor:       auditor,
		AuditService:  auditService,
		BackupService: backupService,
		SyncService:   syncService,
		SettingsStore: settings,
		SyncScheduler: syncScheduler,
		TaskClient:    taskClient,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		syncScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// pushAdapter narrows gistsync.Service to the error-only Push the task
// queue and scheduler expect.
type pushAdapter struct {
	svc *gistsync.Service
}

func (p pushAdapter) Push(ctx context.Context) error {
	_, err := p.svc.Push(ctx)
	return err
}
