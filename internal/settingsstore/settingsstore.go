// Package settingsstore resolves effective runtime settings with the
// priority: database > environment > default.
package settingsstore

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/pagetrack/internal/crypto"
	"github.com/mrlokans/pagetrack/internal/database"
	"github.com/mrlokans/pagetrack/internal/database/settings"
)

type SettingsStore struct {
	settings *settings.Repository
	enc      *crypto.Encryptor
}

// New creates a settings store. The encryptor may be nil, in which case
// the gist token is stored in plain text (not recommended outside tests).
func New(db *database.Database, enc *crypto.Encryptor) *SettingsStore {
	return &SettingsStore{settings: db.Settings, enc: enc}
}

// ValidateCronSchedule checks a standard 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the next sync will run based on the schedule
func GetNextRunTime(schedule string) (*time.Time, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}

// maskToken returns a masked version of the token for display
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
