package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/gist"
	"github.com/mrlokans/pagetrack/internal/gistsync"
	"github.com/mrlokans/pagetrack/internal/scheduler"
	"github.com/mrlokans/pagetrack/internal/settingsstore"
	"github.com/mrlokans/pagetrack/internal/tasks"
)

// SyncController handles manual gist sync and its settings.
type SyncController struct {
	service       *gistsync.Service
	settingsStore *settingsstore.SettingsStore
	scheduler     *scheduler.GistSyncScheduler
	taskClient    *tasks.Client
	audit         *audit.Service
}

func NewSyncController(service *gistsync.Service, store *settingsstore.SettingsStore, sched *scheduler.GistSyncScheduler, taskClient *tasks.Client, auditService *audit.Service) *SyncController {
	return &SyncController{
		service:       service,
		settingsStore: store,
		scheduler:     sched,
		taskClient:    taskClient,
		audit:         auditService,
	}
}

// Push uploads the snapshot. With ?async=true and a task queue
// configured the push is enqueued and answered 202; otherwise it runs
// inline and reports the outcome once.
func (s *SyncController) Push(c *gin.Context) {
	if c.Query("async") == "true" && s.taskClient != nil {
		ids, err := s.taskClient.Add(tasks.PushSnapshotTask{Reason: "manual"}).Save()
		if err != nil {
			respondInternalError(c, err, "enqueue sync push")
			return
		}
		respondAccepted(c, "sync push queued", gin.H{"task_id": ids[0]})
		return
	}

	result, err := s.service.Push(c.Request.Context())
	if err != nil {
		respondSyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Pull downloads the remote snapshot and replaces the collection.
func (s *SyncController) Pull(c *gin.Context) {
	result, err := s.service.Pull(c.Request.Context())
	if err != nil {
		respondSyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondSyncError maps sync failures onto HTTP statuses. Each failure
// is reported exactly once; nothing retries.
func respondSyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gistsync.ErrTokenMissing):
		respondBadRequest(c, err.Error())
	case errors.Is(err, gist.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, gist.ErrNotFound):
		respondNotFound(c, "sync gist")
	case errors.Is(err, gist.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, err.Error())
	default:
		respondError(c, http.StatusBadGateway, err.Error())
	}
}

// SyncStatusResponse is the response for GET /api/sync/status.
type SyncStatusResponse struct {
	Config    settingsstore.GistSyncConfigInfo `json:"config"`
	Status    settingsstore.GistSyncStatus     `json:"status"`
	GistID    string                           `json:"gist_id,omitempty"`
	NextRun   *time.Time                       `json:"next_run,omitempty"`
	IsRunning bool                             `json:"is_running"`
	IsSyncing bool                             `json:"is_syncing"`
}

// Status returns the last sync outcome plus the effective config with
// the token masked.
func (s *SyncController) Status(c *gin.Context) {
	response := SyncStatusResponse{
		Config: s.settingsStore.GetGistSyncConfigInfo(),
		Status: s.settingsStore.GetGistSyncStatus(),
		GistID: s.settingsStore.GetGistID(),
	}
	if s.scheduler != nil {
		response.NextRun = s.scheduler.GetNextRunTime()
		response.IsRunning = s.scheduler.IsRunning()
		response.IsSyncing = s.scheduler.IsSyncing()
	}
	c.JSON(http.StatusOK, response)
}

// UpdateSyncSettingsRequest is the request body for PUT /api/sync/settings.
// Absent fields are left unchanged; an empty token string clears the
// stored token.
type UpdateSyncSettingsRequest struct {
	Enabled  *bool   `json:"enabled"`
	Token    *string `json:"token"`
	Schedule *string `json:"schedule"`
}

// UpdateSettings saves sync settings and reschedules the auto-push.
func (s *SyncController) UpdateSettings(c *gin.Context) {
	var req UpdateSyncSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Token != nil {
		if err := s.settingsStore.SetGistToken(*req.Token); err != nil {
			respondInternalError(c, err, "save gist token")
			return
		}
	}

	if req.Schedule != nil {
		if err := settingsstore.ValidateCronSchedule(*req.Schedule); err != nil {
			respondBadRequest(c, "invalid cron schedule: "+err.Error())
			return
		}
		if err := s.settingsStore.SetGistSyncSchedule(*req.Schedule); err != nil {
			respondInternalError(c, err, "save sync schedule")
			return
		}
	}

	if req.Enabled != nil {
		if err := s.settingsStore.SetGistSyncEnabled(*req.Enabled); err != nil {
			respondInternalError(c, err, "save sync enabled state")
			return
		}
	}

	if s.scheduler != nil {
		if err := s.scheduler.Reschedule(); err != nil {
			respondError(c, http.StatusInternalServerError, "settings saved but failed to reschedule: "+err.Error())
			return
		}
	}

	if s.audit != nil {
		changed := make([]string, 0, 3)
		if req.Enabled != nil {
			changed = append(changed, "enabled")
		}
		if req.Token != nil {
			changed = append(changed, "token")
		}
		if req.Schedule != nil {
			changed = append(changed, "schedule")
		}
		if len(changed) > 0 {
			s.audit.LogSettings("Updated sync settings: " + strings.Join(changed, ", "))
		}
	}

	respondSuccess(c, "sync settings updated")
}
