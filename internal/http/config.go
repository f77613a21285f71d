package http

import (
	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/backup"
	"github.com/mrlokans/pagetrack/internal/database"
	"github.com/mrlokans/pagetrack/internal/gistsync"
	"github.com/mrlokans/pagetrack/internal/scheduler"
	"github.com/mrlokans/pagetrack/internal/settingsstore"
	"github.com/mrlokans/pagetrack/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	BookStore BookStore
	Database  *database.Database
	Auditor   *audit.Auditor

	// Audit event logging (optional)
	AuditService *audit.Service

	// Backup export/import
	BackupService *backup.Service

	// Gist sync (optional; endpoints report when unconfigured)
	SyncService   *gistsync.Service
	SettingsStore *settingsstore.SettingsStore
	SyncScheduler *scheduler.GistSyncScheduler

	// Task queue client (optional; manual pushes enqueue when present)
	TaskClient *tasks.Client

	// Application info
	Version string
}
