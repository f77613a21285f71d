// Package gistsync pushes and pulls the full reading-progress snapshot
// to a single secret gist. Sync is whole-state: the gist file always
// holds the complete snapshot, and a pull replaces the local collection.
package gistsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/entities"
	"github.com/mrlokans/pagetrack/internal/gist"
	"github.com/mrlokans/pagetrack/internal/settingsstore"
)

// ErrTokenMissing indicates no gist token is configured from any source.
var ErrTokenMissing = errors.New("gist token is not configured")

// Store is the slice of the book store the sync service needs.
type Store interface {
	Snapshot() entities.Snapshot
	ReplaceAll(entities.Snapshot) error
}

// Service coordinates snapshot pushes and pulls against the gist API.
type Service struct {
	client   *gist.Client
	store    Store
	settings *settingsstore.SettingsStore
	auditor  *audit.Auditor
	auditSvc *audit.Service
}

func NewService(client *gist.Client, store Store, settings *settingsstore.SettingsStore, auditor *audit.Auditor, auditSvc *audit.Service) *Service {
	return &Service{
		client:   client,
		store:    store,
		settings: settings,
		auditor:  auditor,
		auditSvc: auditSvc,
	}
}

// PushResult summarizes an upload.
type PushResult struct {
	GistID  string `json:"gist_id"`
	Created bool   `json:"created"`
	Books   int    `json:"books"`
}

// PullResult summarizes a download.
type PullResult struct {
	GistID string `json:"gist_id"`
	Books  int    `json:"books"`
}

// Push uploads the current snapshot. The sync gist is located by the
// remembered id first, then by filename scan; when neither yields a
// gist, a new secret one is created. There are no retries: a failed
// push surfaces once and the next push starts clean.
func (s *Service) Push(ctx context.Context) (*PushResult, error) {
	token := s.settings.GetGistToken()
	if token == "" {
		return nil, ErrTokenMissing
	}

	snap := s.store.Snapshot()
	snap.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	files := map[string]gist.File{
		gist.SyncFilename: {Content: string(payload)},
	}

	result := &PushResult{Books: len(snap.Books)}

	gistID, err := s.locateGist(ctx, token)
	if err != nil {
		s.recordStatus("failed", fmt.Sprintf("push failed: %v", err))
		s.logSync("sync_push", "Failed to locate sync gist", err)
		return nil, err
	}

	if gistID == "" {
		created, err := s.client.Create(ctx, token, gist.SyncDescription, files)
		if err != nil {
			s.recordStatus("failed", fmt.Sprintf("push failed: %v", err))
			s.logSync("sync_push", "Failed to create sync gist", err)
			return nil, fmt.Errorf("failed to create sync gist: %w", err)
		}
		result.GistID = created.ID
		result.Created = true
	} else {
		if _, err := s.client.Update(ctx, token, gistID, files); err != nil {
			s.recordStatus("failed", fmt.Sprintf("push failed: %v", err))
			s.logSync("sync_push", "Failed to update sync gist", err)
			return nil, fmt.Errorf("failed to update sync gist: %w", err)
		}
		result.GistID = gistID
	}

	if err := s.settings.SetGistID(result.GistID); err != nil {
		log.Printf("Failed to remember sync gist id: %v", err)
	}

	message := fmt.Sprintf("pushed %d books to gist %s", result.Books, result.GistID)
	s.recordStatus("success", message)
	s.logSync("sync_push", fmt.Sprintf("Pushed %d books", result.Books), nil)
	return result, nil
}

// Pull downloads the remote snapshot and replaces the local collection.
// The raw payload is dumped to the audit directory before it is applied.
func (s *Service) Pull(ctx context.Context) (*PullResult, error) {
	token := s.settings.GetGistToken()
	if token == "" {
		return nil, ErrTokenMissing
	}

	gistID, err := s.locateGist(ctx, token)
	if err != nil {
		s.recordStatus("failed", fmt.Sprintf("pull failed: %v", err))
		s.logSync("sync_pull", "Failed to locate sync gist", err)
		return nil, err
	}
	if gistID == "" {
		err := fmt.Errorf("no sync gist found: %w", gist.ErrNotFound)
		s.recordStatus("failed", err.Error())
		s.logSync("sync_pull", "No sync gist found", err)
		return nil, err
	}

	// List responses truncate file contents, fetch the single gist for
	// the full payload.
	remote, err := s.client.Get(ctx, token, gistID)
	if err != nil {
		s.recordStatus("failed", fmt.Sprintf("pull failed: %v", err))
		s.logSync("sync_pull", "Failed to fetch sync gist", err)
		return nil, fmt.Errorf("failed to fetch sync gist: %w", err)
	}

	file, ok := remote.Files[gist.SyncFilename]
	if !ok {
		err := fmt.Errorf("sync gist %s has no %s file: %w", gistID, gist.SyncFilename, gist.ErrNotFound)
		s.recordStatus("failed", err.Error())
		s.logSync("sync_pull", "Sync gist is missing the data file", err)
		return nil, err
	}

	snap, err := entities.ParseSnapshot([]byte(file.Content))
	if err != nil {
		s.recordStatus("failed", fmt.Sprintf("pull failed: %v", err))
		s.logSync("sync_pull", "Downloaded payload failed validation", err)
		return nil, err
	}

	if s.auditor != nil {
		if _, err := s.auditor.SaveRaw([]byte(file.Content)); err != nil {
			log.Printf("Failed to audit downloaded snapshot: %v", err)
		}
	}

	if err := s.store.ReplaceAll(*snap); err != nil {
		s.recordStatus("failed", fmt.Sprintf("pull failed: %v", err))
		s.logSync("sync_pull", "Failed to apply downloaded snapshot", err)
		return nil, err
	}

	if err := s.settings.SetGistID(gistID); err != nil {
		log.Printf("Failed to remember sync gist id: %v", err)
	}

	result := &PullResult{GistID: gistID, Books: len(snap.Books)}
	message := fmt.Sprintf("pulled %d books from gist %s", result.Books, gistID)
	s.recordStatus("success", message)
	s.logSync("sync_pull", fmt.Sprintf("Pulled %d books", result.Books), nil)
	return result, nil
}

// locateGist resolves the sync gist id: remembered id first, filename
// scan second. Returns "" when the user has no sync gist yet. A
// remembered id that no longer resolves falls back to the scan.
func (s *Service) locateGist(ctx context.Context, token string) (string, error) {
	if id := s.settings.GetGistID(); id != "" {
		_, err := s.client.Get(ctx, token, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, gist.ErrNotFound) {
			return "", err
		}
	}

	found, err := s.client.FindSyncGist(ctx, token)
	if err != nil {
		return "", err
	}
	if found == nil {
		return "", nil
	}
	return found.ID, nil
}

func (s *Service) recordStatus(status, message string) {
	if err := s.settings.SetGistSyncStatus(status, message); err != nil {
		log.Printf("Failed to record sync status: %v", err)
	}
}

func (s *Service) logSync(action, description string, err error) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.LogSync(action, description, err)
}
