package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/websocket"
	"github.com/rs/zerolog/log"
)

// maxBackupSize caps uploaded export documents
const maxBackupSize = 20 * 1024 * 1024

// BackupHandler handles export, import and remote backups
type BackupHandler struct {
	backupService *service.BackupService
	publisher     websocket.EventPublisher
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService *service.BackupService, publisher websocket.EventPublisher) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
		publisher:     publisher,
	}
}

// RestoreRequest names a stored backup
type RestoreRequest struct {
	Key string `json:"key"`
}

// ImportResponse reports an accepted import
type ImportResponse struct {
	Imported bool `json:"imported"`
}

// Export handles GET /api/v1/backup/export
func (h *BackupHandler) Export(c echo.Context) error {
	doc := h.backupService.ExportDocument()
	data, err := h.backupService.Export()
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode export")
		return NewInternalError(c, "Failed to export ledger")
	}

	filename := fmt.Sprintf("finance-backup-%s.json", doc.ExportDate.Format(dateLayout))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// Import handles POST /api/v1/backup/import. The document may be sent as
// the raw request body or as a multipart "file" field.
func (h *BackupHandler) Import(c echo.Context) error {
	data, err := readBackupBody(c)
	if err != nil {
		return NewValidationError(c, "No backup provided", []ValidationError{
			{Field: "file", Message: err.Error()},
		})
	}

	if err := h.backupService.Import(data); err != nil {
		return respondServiceError(c, err, "Failed to import backup")
	}

	log.Info().Int("bytes", len(data)).Msg("Backup imported")
	h.publisher.Publish(websocket.LedgerImported(nil))
	return c.JSON(http.StatusOK, ImportResponse{Imported: true})
}

// UploadRemote handles POST /api/v1/backup/remote
func (h *BackupHandler) UploadRemote(c echo.Context) error {
	obj, err := h.backupService.Upload(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err, "Failed to upload backup")
	}
	return c.JSON(http.StatusCreated, obj)
}

// ListRemote handles GET /api/v1/backup/remote
func (h *BackupHandler) ListRemote(c echo.Context) error {
	backups, err := h.backupService.ListBackups(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err, "Failed to list backups")
	}
	if backups == nil {
		backups = []domain.BackupObject{}
	}
	return c.JSON(http.StatusOK, backups)
}

// RestoreRemote handles POST /api/v1/backup/remote/restore
func (h *BackupHandler) RestoreRemote(c echo.Context) error {
	var req RestoreRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if strings.TrimSpace(req.Key) == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "key", Message: "Key is required"},
		})
	}

	if err := h.backupService.Restore(c.Request().Context(), req.Key); err != nil {
		return respondServiceError(c, err, "Failed to restore backup")
	}

	log.Info().Str("key", req.Key).Msg("Backup restored")
	h.publisher.Publish(websocket.LedgerImported(map[string]string{"key": req.Key}))
	return c.JSON(http.StatusOK, ImportResponse{Imported: true})
}

func readBackupBody(c echo.Context) ([]byte, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		file, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("file is required")
		}
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("file could not be opened")
		}
		defer src.Close()
		return io.ReadAll(io.LimitReader(src, maxBackupSize))
	}

	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBackupSize))
	if err != nil {
		return nil, fmt.Errorf("body could not be read")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("body is empty")
	}
	return data, nil
}
