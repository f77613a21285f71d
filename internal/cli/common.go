// Package cli implements the offline subcommands: backup export/import
// and manual gist sync, sharing the server's database and stores.
package cli

import (
	"fmt"
	"log"

	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/bookstore"
	"github.com/mrlokans/pagetrack/internal/config"
	"github.com/mrlokans/pagetrack/internal/crypto"
	"github.com/mrlokans/pagetrack/internal/database"
	"github.com/mrlokans/pagetrack/internal/localstore"
	"github.com/mrlokans/pagetrack/internal/settingsstore"
)

// openStore opens the database and hydrates a book store from it.
// The caller must Close the returned database.
func openStore(dbPath string) (*database.Database, *bookstore.Store, error) {
	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := bookstore.New(localstore.New(db))
	if err := store.Hydrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load persisted books: %w", err)
	}
	return db, store, nil
}

// newAuditor builds the payload auditor using the configured audit dir.
func newAuditor() *audit.Auditor {
	cfg := config.NewConfig()
	return audit.NewAuditor(cfg.Audit.Dir)
}

// newSettings builds a settings store with the same at-rest encryption
// the server uses, so tokens saved through the API decrypt here too.
func newSettings(db *database.Database) *settingsstore.SettingsStore {
	cfg := config.NewConfig()
	if cfg.GistSync.EncryptionKey == "" {
		return settingsstore.New(db, nil)
	}
	enc, err := crypto.NewEncryptorFromBase64(cfg.GistSync.EncryptionKey)
	if err != nil {
		log.Printf("Invalid SYNC_ENCRYPTION_KEY, stored token will be unreadable: %v", err)
		return settingsstore.New(db, nil)
	}
	return settingsstore.New(db, enc)
}
