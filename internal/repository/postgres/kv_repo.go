package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS ledger_kv (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const upsertKV = `
INSERT INTO ledger_kv (key, value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

// KVRepository implements domain.KeyValueStore on a single PostgreSQL table
type KVRepository struct {
	pool *pgxpool.Pool
}

var _ domain.KeyValueStore = (*KVRepository)(nil)

// NewKVRepository creates a new KVRepository
func NewKVRepository(pool *pgxpool.Pool) *KVRepository {
	return &KVRepository{pool: pool}
}

// EnsureSchema creates the key-value table if it does not exist
func (r *KVRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createKVTable); err != nil {
		return fmt.Errorf("failed to create ledger_kv table: %w", err)
	}
	return nil
}

// Get retrieves the JSON value stored under key
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM ledger_kv WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set upserts a single key
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.pool.Exec(ctx, upsertKV, key, value)
	return err
}

// SetMany upserts every entry inside one transaction so the snapshot is
// written all-or-nothing
func (r *KVRepository) SetMany(ctx context.Context, entries map[string][]byte) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for k, v := range entries {
		batch.Queue(upsertKV, k, v)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return tx.Commit(ctx)
}

// Delete removes key
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ledger_kv WHERE key = $1`, key)
	return err
}
