package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/repository/storage"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BackupService exports and imports the whole ledger as one JSON document and
// optionally keeps copies in object storage
type BackupService struct {
	store   *LedgerStore
	objects storage.ObjectRepository
	logger  zerolog.Logger
}

// NewBackupService creates a new BackupService. objects may be nil, in which
// case only local export and import are available.
func NewBackupService(store *LedgerStore, objects storage.ObjectRepository, logger zerolog.Logger) *BackupService {
	return &BackupService{
		store:   store,
		objects: objects,
		logger:  logger.With().Str("component", "backup_service").Logger(),
	}
}

// IsRemoteEnabled reports whether object storage is configured
func (s *BackupService) IsRemoteEnabled() bool {
	return s != nil && s.objects != nil
}

// ExportDocument snapshots every collection with a fresh export timestamp
func (s *BackupService) ExportDocument() domain.BackupDocument {
	var doc domain.BackupDocument
	s.store.view(func(st *ledgerState) {
		snap := st.clone()
		doc = domain.BackupDocument{
			Transactions:          snap.transactions,
			Budgets:               snap.budgets,
			Accounts:              snap.accounts,
			Investments:           snap.investments,
			SavingsGoal:           snap.settings.SavingsGoal,
			Goals:                 snap.goals,
			RecurringTransactions: snap.recurring,
			ExportDate:            s.store.now().UTC(),
			Version:               domain.BackupVersion,
		}
	})
	return doc
}

// Export renders the export document as indented JSON
func (s *BackupService) Export() ([]byte, error) {
	return json.MarshalIndent(s.ExportDocument(), "", "  ")
}

// Import replaces the whole ledger with the contents of an export document.
// Documents that are not JSON, or that lack transactions or accounts, are
// rejected with domain.ErrInvalidBackup and leave the ledger untouched.
func (s *BackupService) Import(data []byte) error {
	st, err := decodeBackup(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("Import failed")
		return err
	}

	s.store.lock()
	defer s.store.unlock()

	st.settings.Currency = s.store.state.settings.Currency
	st.settings.Lang = s.store.state.settings.Lang
	st.settings.Theme = s.store.state.settings.Theme
	s.store.state = st

	if err := s.store.persistLocked(); err != nil {
		return err
	}

	s.logger.Info().
		Int("transactions", len(st.transactions)).
		Int("accounts", len(st.accounts)).
		Msg("Ledger imported")
	return nil
}

// ImportData is Import reported as a success flag
func (s *BackupService) ImportData(data []byte) bool {
	return s.Import(data) == nil
}

// Upload stores the current export document in object storage
func (s *BackupService) Upload(ctx context.Context) (*domain.BackupObject, error) {
	if !s.IsRemoteEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	doc := s.ExportDocument()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	key, err := s.objects.Upload(ctx, storage.GenerateBackupPath(doc.ExportDate), bytes.NewReader(data), "application/json", int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to upload backup: %w", err)
	}

	s.logger.Info().Str("key", key).Int("bytes", len(data)).Msg("Backup uploaded")
	return &domain.BackupObject{Key: key, CreatedAt: doc.ExportDate, Size: int64(len(data))}, nil
}

// ListBackups returns stored backups, newest first
func (s *BackupService) ListBackups(ctx context.Context) ([]domain.BackupObject, error) {
	if !s.IsRemoteEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	objects, err := s.objects.List(ctx, storage.BackupPrefix+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	out := make([]domain.BackupObject, 0, len(objects))
	for _, o := range objects {
		out = append(out, domain.BackupObject{Key: o.Key, CreatedAt: o.LastModified, Size: o.Size})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out, nil
}

// Restore downloads a stored backup and imports it
func (s *BackupService) Restore(ctx context.Context, key string) error {
	if !s.IsRemoteEnabled() {
		return domain.ErrStorageNotConfigured
	}

	data, err := s.objects.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to download backup: %w", err)
	}
	return s.Import(data)
}

// decodeBackup validates and decodes an export document into a fresh state
func decodeBackup(data []byte) (ledgerState, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ledgerState{}, fmt.Errorf("%w: %v", domain.ErrInvalidBackup, err)
	}
	for _, required := range []string{domain.KeyTransactions, domain.KeyAccounts} {
		v, ok := raw[required]
		if !ok || isJSONNull(v) {
			return ledgerState{}, fmt.Errorf("%w: missing %s", domain.ErrInvalidBackup, required)
		}
	}

	st := emptyState()
	fields := []struct {
		key    string
		target interface{}
	}{
		{domain.KeyTransactions, &st.transactions},
		{domain.KeyAccounts, &st.accounts},
		{domain.KeyBudgets, &st.budgets},
		{domain.KeyInvestments, &st.investments},
		{domain.KeyGoals, &st.goals},
		{domain.KeyRecurringTransactions, &st.recurring},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok || isJSONNull(v) {
			continue
		}
		if err := json.Unmarshal(v, f.target); err != nil {
			return ledgerState{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidBackup, f.key, err)
		}
	}
	normalizeState(&st)

	st.settings.SavingsGoal = domain.DefaultSavingsGoal
	if v, ok := raw[domain.KeySavingsGoal]; ok && !isJSONNull(v) {
		var goal decimal.Decimal
		if err := json.Unmarshal(v, &goal); err != nil {
			return ledgerState{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidBackup, domain.KeySavingsGoal, err)
		}
		if goal.IsPositive() {
			st.settings.SavingsGoal = goal
		}
	}

	return st, nil
}

func isJSONNull(v json.RawMessage) bool {
	return len(bytes.TrimSpace(v)) == 0 || string(bytes.TrimSpace(v)) == "null"
}
