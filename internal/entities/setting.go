package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Local persisted state: the two entries of the device-local layout,
	// a serialized books array and the plain selected book id.
	SettingKeyBooks          = "books"
	SettingKeySelectedBookID = "selected_book_id"

	// Gist sync settings
	SettingKeyGistSyncEnabled     = "gist_sync_enabled"
	SettingKeyGistSyncToken       = "gist_sync_token"
	SettingKeyGistSyncGistID      = "gist_sync_gist_id"
	SettingKeyGistSyncSchedule    = "gist_sync_schedule"
	SettingKeyGistSyncLastAt      = "gist_sync_last_at"
	SettingKeyGistSyncLastStatus  = "gist_sync_last_status"
	SettingKeyGistSyncLastMessage = "gist_sync_last_message"
)
