package domain

import "context"

// Persisted keys, one per collection and one per scalar setting
const (
	KeyTransactions          = "transactions"
	KeyBudgets               = "budgets"
	KeyAccounts              = "accounts"
	KeyInvestments           = "investments"
	KeyGoals                 = "goals"
	KeyRecurringTransactions = "recurringTransactions"
	KeySavingsGoal           = "savingsGoal"
	KeyCurrency              = "currency"
	KeyLang                  = "lang"
	KeyTheme                 = "theme"
)

// CollectionKeys are written together on every ledger mutation
var CollectionKeys = []string{
	KeyTransactions,
	KeyBudgets,
	KeyAccounts,
	KeyInvestments,
	KeySavingsGoal,
	KeyGoals,
	KeyRecurringTransactions,
}

// KeyValueStore is durable storage for JSON values under string keys
type KeyValueStore interface {
	// Get returns the value for key; ok is false if the key was never set
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes every entry as one snapshot
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
}
