package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagetrack/internal/audit"
	"github.com/mrlokans/pagetrack/internal/backup"
	"github.com/mrlokans/pagetrack/internal/entities"
)

// maxImportSize caps backup uploads at 10 MB.
const maxImportSize = 10 << 20

// BackupController handles whole-state export and import.
type BackupController struct {
	service *backup.Service
	audit   *audit.Service
}

func NewBackupController(service *backup.Service, auditSvc *audit.Service) *BackupController {
	return &BackupController{
		service: service,
		audit:   auditSvc,
	}
}

// Export streams the snapshot as a dated JSON attachment.
func (b *BackupController) Export(c *gin.Context) {
	data, filename, err := b.service.Export()
	if err != nil {
		if b.audit != nil {
			b.audit.LogExport("Backup export failed", err)
		}
		respondInternalError(c, err, "backup export")
		return
	}

	if b.audit != nil {
		b.audit.LogExport("Exported backup "+filename, nil)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// ImportResponse is the response for POST /api/backup/import.
type ImportResponse struct {
	Message string `json:"message"`
	Books   int    `json:"books"`
}

// Import accepts a backup as a multipart "file" field or a raw JSON
// body and replaces the collection with it.
func (b *BackupController) Import(c *gin.Context) {
	data, err := readImportPayload(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	count, err := b.service.Import(data)
	if err != nil {
		if b.audit != nil {
			b.audit.LogImport("Backup import failed", 0, err)
		}
		if errors.Is(err, entities.ErrInvalidFormat) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "backup import")
		return
	}

	if b.audit != nil {
		b.audit.LogImport(fmt.Sprintf("Imported backup with %d books", count), count, nil)
	}

	c.JSON(http.StatusOK, ImportResponse{
		Message: "backup imported",
		Books:   count,
	})
}

func readImportPayload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxImportSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}
