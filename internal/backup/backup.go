// Package backup serializes the full snapshot to a JSON file and
// restores it, wholesale. An import replaces the entire collection.
package backup

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/entities"
	"github.com/mrlokans/pagetrack/internal/utils"
)

// Store is the slice of the book store the backup service needs.
type Store interface {
	Snapshot() entities.Snapshot
	ReplaceAll(entities.Snapshot) error
}

// Service exports and imports whole-state backups.
type Service struct {
	store   Store
	auditor *audit.Auditor
	now     func() time.Time
}

func NewService(store Store, auditor *audit.Auditor) *Service {
	return &Service{
		store:   store,
		auditor: auditor,
		now:     time.Now,
	}
}

// Export returns the serialized snapshot plus its date-stamped filename.
func (s *Service) Export() ([]byte, string, error) {
	snap := s.store.Snapshot()
	snap.LastUpdated = s.now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize backup: %w", err)
	}
	return data, utils.BackupFilename(s.now()), nil
}

// ExportToFile writes the backup to the given path. An empty path
// writes the date-stamped filename into the current directory.
func (s *Service) ExportToFile(path string) (string, error) {
	data, filename, err := s.Export()
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filename
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return path, nil
}

// Import validates the payload and replaces the collection with it.
// Returns the number of imported books. The raw payload is dumped to
// the audit directory before it is applied.
func (s *Service) Import(data []byte) (int, error) {
	snap, err := entities.ParseSnapshot(data)
	if err != nil {
		return 0, err
	}

	if s.auditor != nil {
		if _, err := s.auditor.SaveRaw(data); err != nil {
			log.Printf("Failed to audit imported backup: %v", err)
		}
	}

	if err := s.store.ReplaceAll(*snap); err != nil {
		return 0, err
	}
	return len(snap.Books), nil
}

// ImportFromFile reads a backup file and applies it.
func (s *Service) ImportFromFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup file: %w", err)
	}
	return s.Import(data)
}
