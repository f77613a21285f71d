// Package localstore is the device-local persistence adapter. It keeps
// the store state in the settings table as two entries, a serialized
// books array and the plain selected book id, mirroring the layout the
// original device storage used. Pure translation, no business rules.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/pagetrack/internal/database"
	"github.com/mrlokans/pagetrack/internal/database/settings"
	"github.com/mrlokans/pagetrack/internal/entities"
)

type Adapter struct {
	settings *settings.Repository
}

func New(db *database.Database) *Adapter {
	return &Adapter{settings: db.Settings}
}

// Load reads the persisted snapshot. A database without any persisted
// books yields an empty snapshot, not an error.
func (a *Adapter) Load() (*entities.Snapshot, error) {
	snap := &entities.Snapshot{Books: []entities.Book{}}

	setting, err := a.settings.GetSetting(entities.SettingKeyBooks)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted books: %w", err)
	}

	if setting.Value != "" {
		if err := json.Unmarshal([]byte(setting.Value), &snap.Books); err != nil {
			return nil, fmt.Errorf("failed to decode persisted books: %w", err)
		}
	}

	selected, err := a.settings.GetSetting(entities.SettingKeySelectedBookID)
	if err == nil {
		snap.SelectedBookID = selected.Value
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read selected book id: %w", err)
	}

	return snap, nil
}

// Save writes the snapshot through to the settings table. The selected
// book entry is removed entirely when nothing is selected.
func (a *Adapter) Save(snap entities.Snapshot) error {
	books, err := json.Marshal(snap.Books)
	if err != nil {
		return fmt.Errorf("failed to encode books: %w", err)
	}
	if err := a.settings.SetSetting(entities.SettingKeyBooks, string(books)); err != nil {
		return fmt.Errorf("failed to persist books: %w", err)
	}

	if snap.SelectedBookID == "" {
		if err := a.settings.DeleteSetting(entities.SettingKeySelectedBookID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to clear selected book id: %w", err)
		}
		return nil
	}
	if err := a.settings.SetSetting(entities.SettingKeySelectedBookID, snap.SelectedBookID); err != nil {
		return fmt.Errorf("failed to persist selected book id: %w", err)
	}
	return nil
}
