package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/websocket"
	"github.com/rs/zerolog/log"
)

// AttachmentHandler handles receipt image uploads for transactions
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	publisher         websocket.EventPublisher
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *service.AttachmentService, publisher websocket.EventPublisher) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		publisher:         publisher,
	}
}

// AttachmentURLResponse carries a short-lived download link
type AttachmentURLResponse struct {
	URL string `json:"url"`
}

// UploadAttachment handles POST /api/v1/transactions/:id/attachment
func (h *AttachmentHandler) UploadAttachment(c echo.Context) error {
	// If storage isn't configured, don't attempt to process/upload
	if !h.attachmentService.IsEnabled() {
		return NewServiceUnavailableError(c, "Attachments are disabled (storage not configured)")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}
	if file.Size > service.MaxImageSize {
		message, _ := imageValidationMessage(service.ErrImageTooLarge)
		return NewValidationError(c, "Validation failed", []ValidationError{{Field: "file", Message: message}})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	tx, err := h.attachmentService.Attach(c.Request().Context(), id, data, file.Filename)
	if err != nil {
		if message, ok := imageValidationMessage(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{{Field: "file", Message: message}})
		}
		return respondServiceError(c, err, "Failed to upload attachment")
	}

	log.Info().
		Str("transaction_id", id.String()).
		Str("filename", file.Filename).
		Msg("Attachment uploaded successfully")
	h.publisher.Publish(websocket.TransactionUpdated(tx))
	return c.JSON(http.StatusCreated, tx)
}

// GetAttachmentURL handles GET /api/v1/transactions/:id/attachment
func (h *AttachmentHandler) GetAttachmentURL(c echo.Context) error {
	if !h.attachmentService.IsEnabled() {
		return NewServiceUnavailableError(c, "Attachments are disabled (storage not configured)")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	url, err := h.attachmentService.URL(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoAttachment) {
			return NewNotFoundError(c, "Transaction has no attachment")
		}
		return respondServiceError(c, err, "Failed to sign attachment URL")
	}
	return c.JSON(http.StatusOK, AttachmentURLResponse{URL: url})
}

// DeleteAttachment handles DELETE /api/v1/transactions/:id/attachment
func (h *AttachmentHandler) DeleteAttachment(c echo.Context) error {
	if !h.attachmentService.IsEnabled() {
		return NewServiceUnavailableError(c, "Attachments are disabled (storage not configured)")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	tx, err := h.attachmentService.Detach(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoAttachment) {
			return NewNotFoundError(c, "Transaction has no attachment")
		}
		return respondServiceError(c, err, "Failed to delete attachment")
	}

	log.Info().Str("transaction_id", id.String()).Msg("Attachment deleted")
	h.publisher.Publish(websocket.TransactionUpdated(tx))
	return c.NoContent(http.StatusNoContent)
}

// imageValidationMessage describes an image validation failure
func imageValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrImageTooLarge):
		return "File too large. Maximum size is 5MB", true
	case errors.Is(err, service.ErrInvalidFormat):
		return "Invalid format. Supported: JPEG, PNG", true
	case errors.Is(err, service.ErrImageTooSmall):
		return "Image too small. Minimum 50x50 pixels", true
	case errors.Is(err, service.ErrInvalidImageData):
		return "Invalid image data", true
	}
	return "", false
}
