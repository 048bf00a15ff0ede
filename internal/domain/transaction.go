package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeDebt       TransactionType = "debt"
	TransactionTypeReceivable TransactionType = "receivable"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeDebt, TransactionTypeReceivable:
		return true
	}
	return false
}

// IsObligation reports whether the type tracks a repayable balance
func (t TransactionType) IsObligation() bool {
	return t == TransactionTypeDebt || t == TransactionTypeReceivable
}

// BalanceDelta returns the signed change a transaction of this type applies
// to its account. Money received (income, borrowed debt) is positive; money
// paid out (expense, lent receivable) is negative.
func (t TransactionType) BalanceDelta(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeIncome || t == TransactionTypeDebt {
		return amount
	}
	return amount.Neg()
}

// PaidTolerance is the remaining amount below which a debt or receivable
// counts as settled.
var PaidTolerance = decimal.NewFromInt(100)

const (
	DefaultCategory          = "General"
	RepaymentCategory        = "Debt Repayment"
	CollectionCategory       = "Receivable Collection"
	MaxDescriptionLength     = 255
	MaxCategoryLength        = 100
	MaxTransactionNoteLength = 1000
)

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	AccountID   uuid.UUID       `json:"accountId"`
	Contact     *string         `json:"contact,omitempty"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	IsPaid      bool            `json:"isPaid"`
	Attachment  *string         `json:"attachment,omitempty"`
	RecurringID *uuid.UUID      `json:"recurringId,omitempty"`
}

// Remaining returns the unpaid part of the transaction
func (t *Transaction) Remaining() decimal.Decimal {
	return t.Amount.Sub(t.PaidAmount)
}

// SettledBy reports whether a positive paid amount covers amount within
// PaidTolerance
func SettledBy(amount, paid decimal.Decimal) bool {
	return paid.IsPositive() && amount.Sub(paid).LessThanOrEqual(PaidTolerance)
}

// TransactionFilters narrows a transaction listing
type TransactionFilters struct {
	AccountID *uuid.UUID
	Type      *TransactionType
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}
