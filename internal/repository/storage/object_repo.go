package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a key does not exist in the bucket
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectRepository stores opaque blobs such as backups and receipt images
type ObjectRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Download(ctx context.Context, objectPath string) ([]byte, error)
	Delete(ctx context.Context, objectPath string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// Object key prefixes
const (
	BackupPrefix     = "backups"
	AttachmentPrefix = "attachments"
)

// GenerateBackupPath creates a unique, time-sortable key for an export
func GenerateBackupPath(at time.Time) string {
	filename := fmt.Sprintf("ledger-%s-%s.json", at.UTC().Format("20060102T150405Z"), uuid.New().String()[:8])
	return path.Join(BackupPrefix, filename)
}

// GenerateAttachmentPath creates a unique key for a receipt image variant
func GenerateAttachmentPath(transactionID uuid.UUID, variant string, ext string) string {
	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), variant, ext)
	return path.Join(AttachmentPrefix, transactionID.String(), filename)
}
