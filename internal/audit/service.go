package audit

import (
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/pagetrack/internal/database/audit"
	"github.com/mrlokans/pagetrack/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogBook records a book collection event (add/delete/select).
func (s *Service) LogBook(action, bookID, description string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventBook,
		Action:      action,
		Description: description,
		BookID:      bookID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogProgress records a progress update.
func (s *Service) LogProgress(bookID, description string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventProgress,
		Action:      "progress_update",
		Description: description,
		BookID:      bookID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogImport records a backup import event.
func (s *Service) LogImport(description string, booksCount int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      "backup_import",
		Description: description,
		Metadata:    fmt.Sprintf(`{"books_count":%d}`, booksCount),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// LogExport records a backup export event.
func (s *Service) LogExport(description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExport,
		Action:      "backup_export",
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// LogSync records a gist sync event.
func (s *Service) LogSync(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSync,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// LogCapture records a share-card capture event.
func (s *Service) LogCapture(bookID, description string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventCapture,
		Action:      "card_capture",
		Description: description,
		BookID:      bookID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogSettings records a sync settings change.
func (s *Service) LogSettings(description string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      "sync_settings_update",
		Description: description,
		Status:      entities.AuditStatusSuccess,
	})
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves paginated audit events of a single type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
