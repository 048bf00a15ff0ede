package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/repository/storage"
	"github.com/rs/zerolog"
)

const (
	MaxImageSize     = 5 * 1024 * 1024 // 5MB
	MinImageWidth    = 50
	MinImageHeight   = 50
	DisplayWidth     = 400
	JPEGQuality      = 85
	AttachmentURLTTL = 15 * time.Minute
)

var (
	ErrImageTooLarge    = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat    = errors.New("invalid format. Supported: JPEG, PNG")
	ErrImageTooSmall    = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData = errors.New("invalid image data")
	ErrNoAttachment     = errors.New("transaction has no attachment")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

const (
	variantDisplay  = "display"
	variantOriginal = "original"
)

// AttachmentService stores receipt images for transactions
type AttachmentService struct {
	transactions *TransactionService
	objects      storage.ObjectRepository
	logger       zerolog.Logger
}

// NewAttachmentService creates a new AttachmentService. objects may be nil,
// which disables uploads.
func NewAttachmentService(transactions *TransactionService, objects storage.ObjectRepository, logger zerolog.Logger) *AttachmentService {
	return &AttachmentService{
		transactions: transactions,
		objects:      objects,
		logger:       logger.With().Str("component", "attachment_service").Logger(),
	}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *AttachmentService) IsEnabled() bool {
	return s != nil && s.objects != nil
}

// ValidateImage validates image format and size
func (s *AttachmentService) ValidateImage(data []byte, filename string) error {
	_, err := validateAndDecode(data, filename)
	return err
}

func validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

// Attach uploads a receipt for a transaction and records the display copy's
// object key on it. A previous attachment is replaced.
func (s *AttachmentService) Attach(ctx context.Context, transactionID uuid.UUID, data []byte, filename string) (*domain.Transaction, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	existing, err := s.transactions.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}

	img, err := validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(storage.GenerateAttachmentPath(transactionID, "", ""), "_")
	variants := []struct {
		name     string
		maxWidth int
	}{
		{variantDisplay, DisplayWidth},
		{variantOriginal, 0},
	}

	uploaded := make([]string, 0, len(variants))
	for _, variant := range variants {
		processed := img
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			s.cleanup(ctx, uploaded)
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		key, err := s.objects.Upload(ctx, variantKey(base, variant.name), bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		uploaded = append(uploaded, key)
	}

	displayKey := uploaded[0]
	tx, err := s.transactions.SetAttachment(transactionID, &displayKey)
	if err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}

	if existing.Attachment != nil {
		s.cleanup(ctx, attachmentKeys(*existing.Attachment))
	}

	s.logger.Info().
		Str("transaction_id", transactionID.String()).
		Str("key", displayKey).
		Msg("Attachment stored")
	return tx, nil
}

// Detach deletes a transaction's receipt and clears the reference
func (s *AttachmentService) Detach(ctx context.Context, transactionID uuid.UUID) (*domain.Transaction, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	existing, err := s.transactions.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}
	if existing.Attachment == nil {
		return nil, ErrNoAttachment
	}

	tx, err := s.transactions.SetAttachment(transactionID, nil)
	if err != nil {
		return nil, err
	}
	s.cleanup(ctx, attachmentKeys(*existing.Attachment))
	return tx, nil
}

// URL returns a short-lived download link for a transaction's receipt
func (s *AttachmentService) URL(ctx context.Context, transactionID uuid.UUID) (string, error) {
	if !s.IsEnabled() {
		return "", domain.ErrStorageNotConfigured
	}

	tx, err := s.transactions.GetTransactionByID(transactionID)
	if err != nil {
		return "", err
	}
	if tx.Attachment == nil {
		return "", ErrNoAttachment
	}
	return s.objects.GeneratePresignedURL(ctx, *tx.Attachment, AttachmentURLTTL)
}

// cleanup removes uploaded objects, best effort
func (s *AttachmentService) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.objects.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to delete attachment object")
		}
	}
}

func variantKey(base, variant string) string {
	return base + "_" + variant + ".jpg"
}

// attachmentKeys expands a display key into every stored variant
func attachmentKeys(displayKey string) []string {
	suffix := "_" + variantDisplay + ".jpg"
	if !strings.HasSuffix(displayKey, suffix) {
		return []string{displayKey}
	}
	base := strings.TrimSuffix(displayKey, suffix)
	return []string{variantKey(base, variantDisplay), variantKey(base, variantOriginal)}
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
