package settingsstore

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/mrlokans/pagetrack/internal/entities"
)

// GistSyncConfig represents the effective configuration for gist sync
type GistSyncConfig struct {
	Enabled  bool   `json:"enabled"`
	Token    string `json:"token"`
	Schedule string `json:"schedule"`
}

// GistSyncConfigInfo is the display variant: the token is masked and
// each field carries its resolution source.
type GistSyncConfigInfo struct {
	Enabled       bool   `json:"enabled"`
	EnabledSource string `json:"enabled_source"` // "database", "environment", "default"

	Token       string `json:"token"` // Masked for display
	TokenSource string `json:"token_source"`
	HasToken    bool   `json:"has_token"`

	Schedule       string `json:"schedule"`
	ScheduleSource string `json:"schedule_source"`
}

// GistSyncStatus represents the last sync outcome
type GistSyncStatus struct {
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	Status     string     `json:"status,omitempty"`  // "success", "failed", ""
	Message    string     `json:"message,omitempty"` // Error message or summary
}

// GetGistSyncEnabled returns whether scheduled sync is enabled (database > env > default)
func (s *SettingsStore) GetGistSyncEnabled() bool {
	setting, err := s.settings.GetSetting(entities.SettingKeyGistSyncEnabled)
	if err == nil && setting.Value != "" {
		return setting.Value == "true" || setting.Value == "1"
	}

	if envVal := os.Getenv("GIST_SYNC_ENABLED"); envVal != "" {
		return envVal == "true" || envVal == "1"
	}

	return false
}

// SetGistSyncEnabled saves the enabled setting to database
func (s *SettingsStore) SetGistSyncEnabled(enabled bool) error {
	return s.settings.SetSetting(entities.SettingKeyGistSyncEnabled, strconv.FormatBool(enabled))
}

// GetGistToken returns the bearer token (database > env > ""). The
// database copy is encrypted at rest; a value that fails to decrypt is
// treated as absent rather than handed to the API.
func (s *SettingsStore) GetGistToken() string {
	setting, err := s.settings.GetSetting(entities.SettingKeyGistSyncToken)
	if err == nil && setting.Value != "" {
		if s.enc == nil {
			return setting.Value
		}
		token, err := s.enc.Decrypt(setting.Value)
		if err != nil {
			log.Printf("Failed to decrypt stored gist token: %v", err)
			return ""
		}
		return token
	}

	if envVal := os.Getenv("GIST_TOKEN"); envVal != "" {
		return envVal
	}

	return ""
}

// HasGistToken returns whether a token is configured from any source
func (s *SettingsStore) HasGistToken() bool {
	return s.GetGistToken() != ""
}

// SetGistToken saves the token to the database, encrypted when an
// encryptor is configured. An empty token clears the stored value.
func (s *SettingsStore) SetGistToken(token string) error {
	if token == "" {
		err := s.settings.DeleteSetting(entities.SettingKeyGistSyncToken)
		return err
	}
	value := token
	if s.enc != nil {
		encrypted, err := s.enc.Encrypt(token)
		if err != nil {
			return err
		}
		value = encrypted
	}
	return s.settings.SetSetting(entities.SettingKeyGistSyncToken, value)
}

// GetGistID returns the remembered sync gist id, if any. Remembering
// the id avoids listing the user's gists on every push.
func (s *SettingsStore) GetGistID() string {
	setting, err := s.settings.GetSetting(entities.SettingKeyGistSyncGistID)
	if err != nil {
		return ""
	}
	return setting.Value
}

// SetGistID remembers the sync gist id
func (s *SettingsStore) SetGistID(id string) error {
	return s.settings.SetSetting(entities.SettingKeyGistSyncGistID, id)
}

// GetGistSyncSchedule returns the cron schedule (database > env > default)
func (s *SettingsStore) GetGistSyncSchedule() string {
	setting, err := s.settings.GetSetting(entities.SettingKeyGistSyncSchedule)
	if err == nil && setting.Value != "" {
		return setting.Value
	}

	if envVal := os.Getenv("GIST_SYNC_SCHEDULE"); envVal != "" {
		return envVal
	}

	// Default: every 6 hours
	return "0 */6 * * *"
}

// SetGistSyncSchedule saves the schedule to database
func (s *SettingsStore) SetGistSyncSchedule(schedule string) error {
	return s.settings.SetSetting(entities.SettingKeyGistSyncSchedule, schedule)
}

// GetGistSyncConfig returns the effective configuration
func (s *SettingsStore) GetGistSyncConfig() GistSyncConfig {
	return GistSyncConfig{
		Enabled:  s.GetGistSyncEnabled(),
		Token:    s.GetGistToken(),
		Schedule: s.GetGistSyncSchedule(),
	}
}

// GetGistSyncConfigInfo returns the configuration with source information
func (s *SettingsStore) GetGistSyncConfigInfo() GistSyncConfigInfo {
	token := s.GetGistToken()

	return GistSyncConfigInfo{
		Enabled:        s.GetGistSyncEnabled(),
		EnabledSource:  s.settingSource(entities.SettingKeyGistSyncEnabled, "GIST_SYNC_ENABLED"),
		Token:          maskToken(token),
		TokenSource:    s.settingSource(entities.SettingKeyGistSyncToken, "GIST_TOKEN"),
		HasToken:       token != "",
		Schedule:       s.GetGistSyncSchedule(),
		ScheduleSource: s.settingSource(entities.SettingKeyGistSyncSchedule, "GIST_SYNC_SCHEDULE"),
	}
}

// GetGistSyncStatus returns the last sync status
func (s *SettingsStore) GetGistSyncStatus() GistSyncStatus {
	status := GistSyncStatus{}

	if setting, err := s.settings.GetSetting(entities.SettingKeyGistSyncLastAt); err == nil && setting.Value != "" {
		if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
			status.LastSyncAt = &ts
		}
	}

	if setting, err := s.settings.GetSetting(entities.SettingKeyGistSyncLastStatus); err == nil {
		status.Status = setting.Value
	}

	if setting, err := s.settings.GetSetting(entities.SettingKeyGistSyncLastMessage); err == nil {
		status.Message = setting.Value
	}

	return status
}

// SetGistSyncStatus updates the sync status
func (s *SettingsStore) SetGistSyncStatus(status, message string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := s.settings.SetSetting(entities.SettingKeyGistSyncLastAt, now); err != nil {
		return err
	}
	if err := s.settings.SetSetting(entities.SettingKeyGistSyncLastStatus, status); err != nil {
		return err
	}
	return s.settings.SetSetting(entities.SettingKeyGistSyncLastMessage, message)
}

func (s *SettingsStore) settingSource(key, envVar string) string {
	setting, err := s.settings.GetSetting(key)
	if err == nil && setting.Value != "" {
		return "database"
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return "environment"
	}
	return "default"
}
