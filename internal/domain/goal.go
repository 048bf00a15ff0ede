package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Goal struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Target decimal.Decimal `json:"target"`
}

// GoalProgress measures a goal against the liquid balance of all accounts.
// Funds are not earmarked per goal.
type GoalProgress struct {
	Goal     Goal            `json:"goal"`
	Current  decimal.Decimal `json:"current"`
	Percent  decimal.Decimal `json:"percent"`
	Achieved bool            `json:"achieved"`
}
