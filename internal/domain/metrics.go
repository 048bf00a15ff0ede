package domain

import "github.com/shopspring/decimal"

// Totals aggregates the whole transaction history
type Totals struct {
	Income               decimal.Decimal `json:"income"`
	Expense              decimal.Decimal `json:"expense"`
	TotalDebtTaken       decimal.Decimal `json:"totalDebtTaken"`
	TotalReceivableGiven decimal.Decimal `json:"totalReceivableGiven"`
	ActiveDebt           decimal.Decimal `json:"activeDebt"`
	ActiveReceivable     decimal.Decimal `json:"activeReceivable"`
	RealBalance          decimal.Decimal `json:"realBalance"`
	TotalInvestments     decimal.Decimal `json:"totalInvestments"`
	NetWorth             decimal.Decimal `json:"netWorth"`
}

// Health score weights and normalizers
var (
	SavingsScoreWeight    = decimal.RequireFromString("0.4")
	ComplianceScoreWeight = decimal.RequireFromString("0.4")
	CommitmentScoreWeight = decimal.RequireFromString("0.2")
	TargetSavingsRate     = decimal.RequireFromString("0.2")
)

// HealthBreakdown holds the health score and the sub-scores it blends
type HealthBreakdown struct {
	Score           int             `json:"score"`
	SavingsRate     decimal.Decimal `json:"savingsRate"`
	SavingsScore    decimal.Decimal `json:"savingsScore"`
	ComplianceScore decimal.Decimal `json:"complianceScore"`
	CommitmentScore decimal.Decimal `json:"commitmentScore"`
}

// DashboardSummary is everything the overview page renders
type DashboardSummary struct {
	Totals       Totals          `json:"totals"`
	Health       HealthBreakdown `json:"health"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
	SavingsGoal  decimal.Decimal `json:"savingsGoal"`
	Budgets      []BudgetStatus  `json:"budgets"`
	Goals        []GoalProgress  `json:"goals"`
	Commitments  int             `json:"commitments"`
	Currency     Currency        `json:"currency"`
}
