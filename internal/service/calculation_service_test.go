package service

import (
	"testing"

	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTotals_Empty(t *testing.T) {
	l := setupLedger(t)

	totals := l.calc.GetTotals()
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.NetWorth.IsZero())
}

func TestGetTotals_NetWorthIgnoresReceivables(t *testing.T) {
	l := setupLedger(t)
	accID := l.account(t, 0)

	l.addTx(t, accID, domain.TransactionTypeIncome, 10000, "Salary")
	l.addTx(t, accID, domain.TransactionTypeExpense, 3000, "Food")
	debt := l.addTx(t, accID, domain.TransactionTypeDebt, 2000, "Loan")
	l.addTx(t, accID, domain.TransactionTypeReceivable, 1500, "Lent")

	_, err := l.transactions.RecordPayment(debt.ID, decimal.NewFromInt(500))
	require.NoError(t, err)

	_, err = NewInvestmentService(l.store).CreateInvestment(CreateInvestmentInput{
		Type:     "stock",
		Name:     "BBCA",
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	totals := l.calc.GetTotals()

	// the repayment is recorded as a 500 expense
	assertDecimal(t, 10000, totals.Income)
	assertDecimal(t, 3500, totals.Expense)
	assertDecimal(t, 2000, totals.TotalDebtTaken)
	assertDecimal(t, 1500, totals.TotalReceivableGiven)
	assertDecimal(t, 1500, totals.ActiveDebt)
	assertDecimal(t, 1500, totals.ActiveReceivable)
	// 10000 - 3500 + 2000 - 1500
	assertDecimal(t, 7000, totals.RealBalance)
	assertDecimal(t, 1000, totals.TotalInvestments)
	// 7000 + 1000 - 1500, receivable not added back
	assertDecimal(t, 6500, totals.NetWorth)
}

func TestHealthScore_EmptyLedger(t *testing.T) {
	l := setupLedger(t)

	hb := l.calc.GetHealthBreakdown()
	assertDecimal(t, 100, hb.ComplianceScore)
	assertDecimal(t, 100, hb.CommitmentScore)
	assert.True(t, hb.SavingsScore.IsZero())
	// 0*0.4 + 100*0.4 + 100*0.2
	assert.Equal(t, 60, hb.Score)
	assert.Equal(t, 60, l.calc.CalculateHealthScore())
}

func TestHealthScore_SavingsRate(t *testing.T) {
	tests := []struct {
		name         string
		income       int64
		expense      int64
		savingsScore int64
		score        int
	}{
		{"target met", 1000, 800, 100, 100},
		{"half the target", 1000, 900, 50, 80},
		{"above target is capped", 1000, 100, 100, 100},
		{"overspending floors at zero", 1000, 1500, 0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := setupLedger(t)
			accID := l.account(t, 0)
			l.addTx(t, accID, domain.TransactionTypeIncome, tt.income, "Salary")
			l.addTx(t, accID, domain.TransactionTypeExpense, tt.expense, "Rent")

			hb := l.calc.GetHealthBreakdown()
			assertDecimal(t, tt.savingsScore, hb.SavingsScore)
			assert.Equal(t, tt.score, hb.Score)
		})
	}
}

func TestHealthScore_ComplianceCountsOverBudgets(t *testing.T) {
	l := setupLedger(t)
	accID := l.account(t, 0)
	for _, category := range []string{"Food", "Fun", "Travel", "Rent"} {
		_, err := l.budgets.CreateBudget(BudgetInput{Category: category, Limit: decimal.NewFromInt(100)})
		require.NoError(t, err)
	}

	// exactly at the limit is still compliant
	l.addTx(t, accID, domain.TransactionTypeExpense, 100, "Food")
	l.addTx(t, accID, domain.TransactionTypeExpense, 101, "Fun")

	hb := l.calc.GetHealthBreakdown()
	assertDecimal(t, 75, hb.ComplianceScore)
}

func TestHealthScore_CommitmentOverdueAfter35Days(t *testing.T) {
	l := setupLedger(t)
	accID := l.account(t, 0)
	l.addCommitment(t, monthlyExpense(accID, 10, 0), testNow.AddDate(0, 0, -35))
	l.addCommitment(t, monthlyExpense(accID, 10, 0), testNow.AddDate(0, 0, -36))

	hb := l.calc.GetHealthBreakdown()
	assertDecimal(t, 50, hb.CommitmentScore)
	// 0*0.4 + 100*0.4 + 50*0.2
	assert.Equal(t, 50, hb.Score)
}

func TestGetGoalProgress(t *testing.T) {
	l := setupLedger(t)
	l.account(t, 300)
	l.account(t, 200)
	goals := NewGoalService(l.store)

	_, err := goals.CreateGoal(GoalInput{Name: "Emergency fund", Target: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = goals.CreateGoal(GoalInput{Name: "Bike", Target: decimal.NewFromInt(400)})
	require.NoError(t, err)

	progress := l.calc.GetGoalProgress()
	require.Len(t, progress, 2)

	assertDecimal(t, 500, progress[0].Current)
	assertDecimal(t, 50, progress[0].Percent)
	assert.False(t, progress[0].Achieved)

	assertDecimal(t, 100, progress[1].Percent, "capped at 100")
	assert.True(t, progress[1].Achieved)
}

func TestGetInvestmentSummaries(t *testing.T) {
	l := setupLedger(t)
	investments := NewInvestmentService(l.store)
	buy := decimal.NewFromInt(80)

	_, err := investments.CreateInvestment(CreateInvestmentInput{
		Type: "stock", Name: "TLKM", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100), BuyPrice: &buy,
	})
	require.NoError(t, err)
	_, err = investments.CreateInvestment(CreateInvestmentInput{
		Type: "gold", Name: "Antam", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	summaries := l.calc.GetInvestmentSummaries()
	require.Len(t, summaries, 2)

	assertDecimal(t, 1000, summaries[0].Value)
	require.NotNil(t, summaries[0].ROI)
	assert.True(t, decimal.RequireFromString("0.25").Equal(*summaries[0].ROI))

	assertDecimal(t, 100, summaries[1].Value)
	assert.Nil(t, summaries[1].ROI)
}
