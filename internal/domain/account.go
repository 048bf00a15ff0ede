package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings  AccountType = "Savings"
	AccountTypeChecking AccountType = "Checking"
	AccountTypeCash     AccountType = "Cash"
	AccountTypeEwallet  AccountType = "E-Wallet"
	AccountTypeOther    AccountType = "Other"
)

const DefaultAccountColor = "indigo"

// AccountColors are the palette names the UI knows how to render
var AccountColors = []string{"indigo", "emerald", "sky", "rose", "amber", "violet"}

// Account balance is a running total. It is only ever changed by signed
// deltas and is never recomputed from transaction history.
type Account struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type"`
	Balance decimal.Decimal `json:"balance"`
	Color   string          `json:"color"`
}

const MaxAccountNameLength = 255
