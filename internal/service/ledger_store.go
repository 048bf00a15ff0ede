package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/util"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ledgerState is every collection and setting the ledger owns
type ledgerState struct {
	transactions []domain.Transaction
	budgets      []domain.Budget
	accounts     []domain.Account
	investments  []domain.Investment
	goals        []domain.Goal
	recurring    []domain.RecurringCommitment
	settings     domain.Settings
}

// LedgerStore is the single owner of the ledger's collections. The services in
// this package mutate it under its lock; every mutation writes the full
// collection snapshot to the key-value store before returning.
//
// Notifications raised while the lock is held are queued and delivered to
// subscribers only after the lock is released. A failed write restores the
// state and the notification queue to the last successful write.
type LedgerStore struct {
	kv     domain.KeyValueStore
	logger zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	state   ledgerState
	pending []domain.Notification

	// checkpoint is the state as of the last successful write under the
	// current lock
	checkpoint        ledgerState
	checkpointPending int

	obsMu        sync.RWMutex
	observers    map[uint64]domain.NotificationHandler
	nextObserver uint64
}

// LedgerStoreOption customizes a LedgerStore
type LedgerStoreOption func(*LedgerStore)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) LedgerStoreOption {
	return func(s *LedgerStore) {
		s.now = now
	}
}

// NewLedgerStore creates an empty LedgerStore backed by kv. Call Load to read
// previously persisted state.
func NewLedgerStore(kv domain.KeyValueStore, logger zerolog.Logger, opts ...LedgerStoreOption) *LedgerStore {
	s := &LedgerStore{
		kv:        kv,
		logger:    logger.With().Str("component", "ledger_store").Logger(),
		now:       time.Now,
		state:     emptyState(),
		observers: make(map[uint64]domain.NotificationHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyState() ledgerState {
	return ledgerState{
		transactions: []domain.Transaction{},
		budgets:      []domain.Budget{},
		accounts:     []domain.Account{},
		investments:  []domain.Investment{},
		goals:        []domain.Goal{},
		recurring:    []domain.RecurringCommitment{},
		settings:     domain.DefaultSettings(),
	}
}

// Load replaces the in-memory state with whatever the key-value store holds.
// Missing keys fall back to empty collections and default settings.
func (s *LedgerStore) Load(ctx context.Context) error {
	st := emptyState()

	collections := []struct {
		key    string
		target interface{}
	}{
		{domain.KeyTransactions, &st.transactions},
		{domain.KeyBudgets, &st.budgets},
		{domain.KeyAccounts, &st.accounts},
		{domain.KeyInvestments, &st.investments},
		{domain.KeyGoals, &st.goals},
		{domain.KeyRecurringTransactions, &st.recurring},
		{domain.KeySavingsGoal, &st.settings.SavingsGoal},
		{domain.KeyCurrency, &st.settings.Currency},
		{domain.KeyLang, &st.settings.Lang},
		{domain.KeyTheme, &st.settings.Theme},
	}

	for _, c := range collections {
		raw, ok, err := s.kv.Get(ctx, c.key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", c.key, err)
		}
		if !ok || len(raw) == 0 || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, c.target); err != nil {
			return fmt.Errorf("failed to decode %s: %w", c.key, err)
		}
	}

	if !st.settings.SavingsGoal.IsPositive() {
		st.settings.SavingsGoal = domain.DefaultSavingsGoal
	}
	if !st.settings.Currency.Valid() {
		st.settings.Currency = domain.BaseCurrency
	}
	normalizeState(&st)

	s.lock()
	s.state = st
	s.unlock()

	s.logger.Info().
		Int("transactions", len(st.transactions)).
		Int("accounts", len(st.accounts)).
		Int("budgets", len(st.budgets)).
		Int("recurring", len(st.recurring)).
		Msg("Ledger loaded")

	return nil
}

// normalizeState replaces nil collections decoded from "null" or missing keys
func normalizeState(st *ledgerState) {
	if st.transactions == nil {
		st.transactions = []domain.Transaction{}
	}
	if st.budgets == nil {
		st.budgets = []domain.Budget{}
	}
	if st.accounts == nil {
		st.accounts = []domain.Account{}
	}
	if st.investments == nil {
		st.investments = []domain.Investment{}
	}
	if st.goals == nil {
		st.goals = []domain.Goal{}
	}
	if st.recurring == nil {
		st.recurring = []domain.RecurringCommitment{}
	}
}

// Subscribe registers a notification handler. The returned function removes
// it again and is safe to call more than once.
func (s *LedgerStore) Subscribe(handler domain.NotificationHandler) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = handler
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// SubscriberCount returns the number of registered notification handlers
func (s *LedgerStore) SubscriberCount() int {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	return len(s.observers)
}

// lock acquires the state lock for a mutation
func (s *LedgerStore) lock() {
	s.mu.Lock()
	s.markCommittedLocked()
}

// unlock releases the state lock and then delivers queued notifications
func (s *LedgerStore) unlock() {
	pending := s.pending
	s.pending = nil
	s.checkpoint = ledgerState{}
	s.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	s.obsMu.RLock()
	handlers := make([]domain.NotificationHandler, 0, len(s.observers))
	ids := make([]uint64, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		handlers = append(handlers, s.observers[id])
	}
	s.obsMu.RUnlock()

	for _, n := range pending {
		for _, h := range handlers {
			h(n)
		}
	}
}

// view runs fn with the state locked for reading
func (s *LedgerStore) view(fn func(st *ledgerState)) {
	s.mu.Lock()
	defer s.unlock()
	fn(&s.state)
}

func (s *LedgerStore) notifyLocked(title, message string, severity domain.Severity) {
	s.pending = append(s.pending, domain.Notification{
		Title:     title,
		Message:   message,
		Severity:  severity,
		Timestamp: s.now().UTC(),
	})
}

// persistLocked writes the full collection snapshot
func (s *LedgerStore) persistLocked() error {
	st := &s.state
	values := map[string]interface{}{
		domain.KeyTransactions:          st.transactions,
		domain.KeyBudgets:               st.budgets,
		domain.KeyAccounts:              st.accounts,
		domain.KeyInvestments:           st.investments,
		domain.KeySavingsGoal:           st.settings.SavingsGoal,
		domain.KeyGoals:                 st.goals,
		domain.KeyRecurringTransactions: st.recurring,
	}

	entries := make(map[string][]byte, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", k, err)
		}
		entries[k] = raw
	}

	if err := s.kv.SetMany(context.Background(), entries); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist ledger snapshot")
		s.rollbackLocked()
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	s.markCommittedLocked()
	return nil
}

// persistSettingLocked writes one scalar setting
func (s *LedgerStore) persistSettingLocked(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Set(context.Background(), key, raw); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to persist setting")
		s.rollbackLocked()
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	s.markCommittedLocked()
	return nil
}

// markCommittedLocked records the current state as durable
func (s *LedgerStore) markCommittedLocked() {
	s.checkpoint = s.state.clone()
	s.checkpointPending = len(s.pending)
}

// rollbackLocked discards every change and notification since the last
// successful write
func (s *LedgerStore) rollbackLocked() {
	s.state = s.checkpoint.clone()
	s.pending = s.pending[:s.checkpointPending]
}

// today returns the current calendar date at midnight UTC
func (s *LedgerStore) today() time.Time {
	return util.DateOnly(s.now())
}

func (st *ledgerState) accountIndex(id uuid.UUID) int {
	for i := range st.accounts {
		if st.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

// adjustBalance adds delta to an account. Unknown accounts are ignored.
func (st *ledgerState) adjustBalance(accountID uuid.UUID, delta decimal.Decimal) bool {
	idx := st.accountIndex(accountID)
	if idx < 0 {
		return false
	}
	st.accounts[idx].Balance = st.accounts[idx].Balance.Add(delta)
	return true
}

// clone copies the collection slices
func (st *ledgerState) clone() ledgerState {
	return ledgerState{
		transactions: append([]domain.Transaction{}, st.transactions...),
		budgets:      append([]domain.Budget{}, st.budgets...),
		accounts:     append([]domain.Account{}, st.accounts...),
		investments:  append([]domain.Investment{}, st.investments...),
		goals:        append([]domain.Goal{}, st.goals...),
		recurring:    append([]domain.RecurringCommitment{}, st.recurring...),
		settings:     st.settings,
	}
}
