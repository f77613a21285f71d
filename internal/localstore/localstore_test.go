package localstore

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pagetrack/internal/database"
	"github.com/mrlokans/pagetrack/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()

	dbPath := "./test_localstore_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestLoad_EmptyDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	adapter := New(db)
	snap, err := adapter.Load()

	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Books)
	assert.Equal(t, "", snap.SelectedBookID)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	adapter := New(db)
	lastRead := "2024-01-05"
	saved := entities.Snapshot{
		Books: []entities.Book{
			{
				ID:           "b1",
				Title:        "Dune",
				TotalPages:   400,
				StartDate:    "2024-01-01",
				CurrentPage:  200,
				LastReadDate: &lastRead,
				History: []entities.Sample{
					{Date: "2024-01-01", Page: 0},
					{Date: "2024-01-05", Page: 200},
				},
			},
		},
		SelectedBookID: "b1",
	}

	require.NoError(t, adapter.Save(saved))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Equal(t, saved.Books, loaded.Books)
	assert.Equal(t, "b1", loaded.SelectedBookID)
}

func TestSave_ClearsSelectionEntry(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	adapter := New(db)
	require.NoError(t, adapter.Save(entities.Snapshot{
		Books:          []entities.Book{{ID: "b1", Title: "Dune", TotalPages: 400}},
		SelectedBookID: "b1",
	}))

	require.NoError(t, adapter.Save(entities.Snapshot{
		Books: []entities.Book{},
	}))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Equal(t, "", loaded.SelectedBookID)

	_, err = db.Settings.GetSetting(entities.SettingKeySelectedBookID)
	assert.Error(t, err, "selection entry is removed, not blanked")
}

func TestSave_OverwritesPreviousState(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	adapter := New(db)
	require.NoError(t, adapter.Save(entities.Snapshot{
		Books:          []entities.Book{{ID: "b1", Title: "Old", TotalPages: 100}},
		SelectedBookID: "b1",
	}))
	require.NoError(t, adapter.Save(entities.Snapshot{
		Books:          []entities.Book{{ID: "b2", Title: "New", TotalPages: 200}},
		SelectedBookID: "b2",
	}))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Books, 1)
	assert.Equal(t, "New", loaded.Books[0].Title)
	assert.Equal(t, "b2", loaded.SelectedBookID)
}
