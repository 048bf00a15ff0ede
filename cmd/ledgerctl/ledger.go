package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mhyu96-glitch/finance-app/internal/config"
	"github.com/mhyu96-glitch/finance-app/internal/repository"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/rs/zerolog/log"
)

// openLedger loads the ledger from the backend named by the environment.
// Callers must invoke the returned close function.
func openLedger(ctx context.Context) (*service.LedgerStore, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	kv, closeKV, err := repository.OpenKVStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store := service.NewLedgerStore(kv, log.Logger)
	if err := store.Load(ctx); err != nil {
		closeKV()
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	return store, closeKV, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
