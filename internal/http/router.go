package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.BookStore, cfg.Version)
	books := NewBooksController(cfg.BookStore, cfg.AuditService)

	// Health endpoints
	router.GET("/api/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	router.GET("/api/books", books.List)
	router.POST("/api/books", books.Create)
	router.DELETE("/api/books/:id", books.Delete)
	router.POST("/api/books/select", books.Select)
	router.GET("/api/books/selected", books.Selected)
	router.PUT("/api/books/:id/progress", books.UpdateProgress)
	router.GET("/api/books/:id/history", books.History)
	router.POST("/api/books/:id/capture", books.Capture)

	// Backup endpoints
	if cfg.BackupService != nil {
		backupController := NewBackupController(cfg.BackupService, cfg.AuditService)
		router.GET("/api/backup/export", backupController.Export)
		router.POST("/api/backup/import", backupController.Import)
	}

	// Gist sync endpoints
	if cfg.SyncService != nil && cfg.SettingsStore != nil {
		syncController := NewSyncController(cfg.SyncService, cfg.SettingsStore, cfg.SyncScheduler, cfg.TaskClient, cfg.AuditService)
		router.POST("/api/sync/push", syncController.Push)
		router.POST("/api/sync/pull", syncController.Pull)
		router.GET("/api/sync/status", syncController.Status)
		router.PUT("/api/sync/settings", syncController.UpdateSettings)
	}

	// Audit event endpoints
	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.ListEvents)
	}

	return router
}
