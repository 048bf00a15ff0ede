package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateBackupPath(t *testing.T) {
	at := time.Date(2025, 4, 2, 13, 4, 5, 0, time.UTC)

	p := GenerateBackupPath(at)

	assert.True(t, strings.HasPrefix(p, "backups/ledger-20250402T130405Z-"), p)
	assert.True(t, strings.HasSuffix(p, ".json"), p)
	assert.NotEqual(t, p, GenerateBackupPath(at))
}

func TestGenerateAttachmentPath(t *testing.T) {
	txID := uuid.New()

	p := GenerateAttachmentPath(txID, "display", ".jpg")

	assert.True(t, strings.HasPrefix(p, "attachments/"+txID.String()+"/"), p)
	assert.True(t, strings.HasSuffix(p, "_display.jpg"), p)
}
