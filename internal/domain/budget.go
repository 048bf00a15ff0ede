package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget caps monthly expense spending for one category
type Budget struct {
	ID       uuid.UUID       `json:"id"`
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

// Utilization thresholds, in percent
var (
	BudgetWarningThreshold  = decimal.NewFromInt(90)
	BudgetExceededThreshold = decimal.NewFromInt(100)
)

// BudgetStatus is a budget together with its current-month spending
type BudgetStatus struct {
	Budget      Budget          `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Utilization decimal.Decimal `json:"utilization"`
	Exceeded    bool            `json:"exceeded"`
}
