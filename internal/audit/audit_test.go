package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditrepo "github.com/mrlokans/pagetrack/internal/database/audit"
	"github.com/mrlokans/pagetrack/internal/entities"

	"github.com/mrlokans/pagetrack/internal/database"
)

func TestAuditorSaveJSON(t *testing.T) {
	dir := t.TempDir()
	auditor := NewAuditor(dir)

	filename, err := auditor.SaveJSON(map[string]any{"books": []string{}})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".json"))

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Contains(t, parsed, "books")
}

func TestAuditorSaveRaw(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "audit")
	auditor := NewAuditor(dir)

	payload := []byte(`{"books":[]}`)
	filename, err := auditor.SaveRaw(payload)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, payload, data, "raw payloads are stored verbatim")
}

func TestAuditorUniqueFilenames(t *testing.T) {
	auditor := NewAuditor(t.TempDir())

	first, err := auditor.SaveJSON("a")
	require.NoError(t, err)
	second, err := auditor.SaveJSON("b")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func setupTestService(t *testing.T) (*Service, func()) {
	t.Helper()

	dbPath := "./test_audit_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewService(auditrepo.NewRepository(db.DB)), cleanup
}

func waitForEvents(t *testing.T, svc *Service, count int) []entities.AuditEvent {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, total, err := svc.GetEvents(10, 0)
		require.NoError(t, err)
		if total >= int64(count) {
			return events
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit events", count)
	return nil
}

func TestServiceLogSync(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	svc.LogSync("sync_push", "Pushed 3 books", nil)

	events := waitForEvents(t, svc, 1)
	assert.Equal(t, entities.AuditEventSync, events[0].EventType)
	assert.Equal(t, "sync_push", events[0].Action)
	assert.Equal(t, entities.AuditStatusSuccess, events[0].Status)
}

func TestServiceLogSyncFailure(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	svc.LogSync("sync_pull", "Pull failed", assert.AnError)

	events := waitForEvents(t, svc, 1)
	assert.Equal(t, entities.AuditStatusFailed, events[0].Status)
	assert.NotEmpty(t, events[0].ErrorMsg)
}

func TestServiceLogSettings(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	svc.LogSettings("Updated sync settings: token, schedule")

	events := waitForEvents(t, svc, 1)
	assert.Equal(t, entities.AuditEventSettings, events[0].EventType)
	assert.Equal(t, "sync_settings_update", events[0].Action)
}

func TestServiceGetEventsByType(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	svc.LogBook("book_add", "b1", "Added Dune")
	svc.LogSync("sync_push", "Pushed 1 book", nil)
	waitForEvents(t, svc, 2)

	events, total, err := svc.GetEventsByType(entities.AuditEventSync, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, "sync_push", events[0].Action)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 600)
	truncated := truncate(long, 500)
	assert.Len(t, truncated, 500)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}
