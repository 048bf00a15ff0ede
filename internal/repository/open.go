// Package repository selects the key-value backend the ledger is stored in.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhyu96-glitch/finance-app/internal/config"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/repository/file"
	"github.com/mhyu96-glitch/finance-app/internal/repository/memory"
	"github.com/mhyu96-glitch/finance-app/internal/repository/postgres"
)

// OpenKVStore connects the configured backend. The returned close function
// releases any connections and is never nil.
func OpenKVStore(ctx context.Context, cfg *config.Config) (domain.KeyValueStore, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.StorageMemory:
		return memory.NewKVStore(), noop, nil

	case config.StorageFile:
		kv, err := file.NewKVStore(cfg.DataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("open data dir: %w", err)
		}
		return kv, noop, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ping database: %w", err)
		}
		repo := postgres.NewKVRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("create ledger table: %w", err)
		}
		return repo, pool.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
