package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BackupVersion tags export documents
const BackupVersion = "1.3.0"

// BackupDocument is the full-state export format
type BackupDocument struct {
	Transactions          []Transaction         `json:"transactions"`
	Budgets               []Budget              `json:"budgets"`
	Accounts              []Account             `json:"accounts"`
	Investments           []Investment          `json:"investments"`
	SavingsGoal           decimal.Decimal       `json:"savingsGoal"`
	Goals                 []Goal                `json:"goals"`
	RecurringTransactions []RecurringCommitment `json:"recurringTransactions"`
	ExportDate            time.Time             `json:"exportDate"`
	Version               string                `json:"version"`
}

// BackupObject describes an export stored in object storage
type BackupObject struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int64     `json:"size"`
}
