package http

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/database"
	auditrepo "github.com/mrlokans/pagetrack/internal/database/audit"
	"github.com/mrlokans/pagetrack/internal/entities"
)

type auditPage struct {
	Data  []entities.AuditEvent `json:"data"`
	Total int64                 `json:"total"`
}

func newAuditRouter(t *testing.T) (*gin.Engine, *audit.Service, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_auditapi_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	svc := audit.NewService(auditrepo.NewRepository(db.DB))

	router := gin.New()
	router.GET("/api/audit", NewAuditController(svc).ListEvents)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, svc, cleanup
}

func getAuditPage(t *testing.T, router *gin.Engine, path string) auditPage {
	t.Helper()

	w := doJSON(router, "GET", path, "")
	require.Equal(t, http.StatusOK, w.Code)

	var page auditPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

// Events are written asynchronously, so poll until they land.
func waitForAuditTotal(t *testing.T, router *gin.Engine, total int64) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if getAuditPage(t, router, "/api/audit").Total >= total {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit events", total)
}

func TestAuditController_ListEvents_FilterByType(t *testing.T) {
	router, svc, cleanup := newAuditRouter(t)
	defer cleanup()

	svc.LogBook("book_add", "b1", "Added Dune")
	svc.LogSync("sync_push", "Pushed 1 book", nil)
	waitForAuditTotal(t, router, 2)

	page := getAuditPage(t, router, "/api/audit?type=sync")
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, entities.AuditEventSync, page.Data[0].EventType)
	assert.Equal(t, "sync_push", page.Data[0].Action)

	page = getAuditPage(t, router, "/api/audit?type=book")
	assert.Equal(t, int64(1), page.Total)

	page = getAuditPage(t, router, "/api/audit?type=capture")
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Data)
}
