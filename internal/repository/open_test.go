package repository

import (
	"context"
	"testing"

	"github.com/mhyu96-glitch/finance-app/internal/config"
	"github.com/mhyu96-glitch/finance-app/internal/repository/file"
	"github.com/mhyu96-glitch/finance-app/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenKVStore_Memory(t *testing.T) {
	kv, closeFn, err := OpenKVStore(context.Background(), &config.Config{StorageBackend: config.StorageMemory})
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &memory.KVStore{}, kv)
}

func TestOpenKVStore_File(t *testing.T) {
	dir := t.TempDir()
	kv, closeFn, err := OpenKVStore(context.Background(), &config.Config{StorageBackend: config.StorageFile, DataDir: dir})
	require.NoError(t, err)
	defer closeFn()

	fs, ok := kv.(*file.KVStore)
	require.True(t, ok)
	assert.Equal(t, dir, fs.Dir())
}

func TestOpenKVStore_Unknown(t *testing.T) {
	kv, closeFn, err := OpenKVStore(context.Background(), &config.Config{StorageBackend: "redis"})
	assert.Error(t, err)
	assert.Nil(t, kv)
	assert.NotNil(t, closeFn)
}
