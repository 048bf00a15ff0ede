package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBudgets_WarningThenAlert(t *testing.T) {
	l := setupLedger(t)
	accID := l.account(t, 10000000)
	_, err := l.budgets.CreateBudget(BudgetInput{Category: "Food", Limit: decimal.NewFromInt(2000000)})
	require.NoError(t, err)

	l.addTx(t, accID, domain.TransactionTypeExpense, 1900000, "Food")

	notes := l.recorder.All()
	require.Len(t, notes, 1)
	assert.Equal(t, "Budget Warning", notes[0].Title)
	assert.Equal(t, domain.SeverityWarning, notes[0].Severity)
	assert.Equal(t, "You have used 90% of your Food budget.", notes[0].Message)

	l.recorder.Reset()
	l.addTx(t, accID, domain.TransactionTypeExpense, 200000, "Food")

	notes = l.recorder.All()
	require.Len(t, notes, 1)
	assert.Equal(t, "Budget Alert", notes[0].Title)
	assert.Equal(t, domain.SeverityError, notes[0].Severity)
}

func TestCheckBudgets_ExactlyAtLimitIsAlert(t *testing.T) {
	l := setupLedger(t)
	accID := l.account(t, 1000)
	_, err := l.budgets.CreateBudget(BudgetInput{Category: "Fun", Limit: decimal.NewFromInt(100)})
	require.NoError(t, err)

	l.addTx(t, accID, domain.TransactionTypeExpense, 100, "Fun")

	assert.Equal(t, []string{"Budget Alert"}, l.recorder.Titles())
}

func TestCheckBudgets_RepeatsOnEveryCall(t *testing.T) {
	l := setupLedger(t)
	accID := l.account(t, 1000)
	_, err := l.budgets.CreateBudget(BudgetInput{Category: "Food", Limit: decimal.NewFromInt(100)})
	require.NoError(t, err)
	l.addTx(t, accID, domain.TransactionTypeExpense, 95, "Food")
	l.recorder.Reset()

	l.budgets.CheckBudgets()
	l.budgets.CheckBudgets()

	assert.Equal(t, []string{"Budget Warning", "Budget Warning"}, l.recorder.Titles())
}

func TestCheckBudgets_OnlyCurrentMonthExpenses(t *testing.T) {
	l := setupLedger(t)
	accID := l.account(t, 100000)
	_, err := l.budgets.CreateBudget(BudgetInput{Category: "Food", Limit: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	lastMonth := testNow.AddDate(0, -1, 0)
	_, err = l.transactions.CreateTransaction(CreateTransactionInput{
		Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(5000), Date: &lastMonth,
		Category: "Food", Description: "Old groceries", AccountID: accID,
	})
	require.NoError(t, err)
	l.addTx(t, accID, domain.TransactionTypeIncome, 5000, "Food")
	l.addTx(t, accID, domain.TransactionTypeExpense, 5000, "Travel")
	l.addTx(t, accID, domain.TransactionTypeExpense, 100, "Food")

	assert.Empty(t, l.recorder.All())

	statuses := l.budgets.GetBudgetStatuses()
	require.Len(t, statuses, 1)
	assertDecimal(t, 100, statuses[0].Spent)
	assertDecimal(t, 900, statuses[0].Remaining)
	assertDecimal(t, 10, statuses[0].Utilization)
	assert.False(t, statuses[0].Exceeded)
}

func TestCheckBudgets_SameMonthLastYearIgnored(t *testing.T) {
	l := setupLedger(t)
	accID := l.account(t, 100000)
	_, err := l.budgets.CreateBudget(BudgetInput{Category: "Food", Limit: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	lastYear := testNow.AddDate(-1, 0, 0).Add(-48 * time.Hour)
	_, err = l.transactions.CreateTransaction(CreateTransactionInput{
		Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(5000), Date: &lastYear,
		Category: "Food", Description: "Old groceries", AccountID: accID,
	})
	require.NoError(t, err)

	assert.Empty(t, l.recorder.All())
}

func TestCreateBudget_Validation(t *testing.T) {
	l := setupLedger(t)

	_, err := l.budgets.CreateBudget(BudgetInput{Category: "Food", Limit: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	_, err = l.budgets.CreateBudget(BudgetInput{Category: " ", Limit: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrCategoryRequired)

	assert.Empty(t, l.budgets.GetBudgets())
}

func TestUpdateAndDeleteBudget(t *testing.T) {
	l := setupLedger(t)
	budget, err := l.budgets.CreateBudget(BudgetInput{Category: "Food", Limit: decimal.NewFromInt(100)})
	require.NoError(t, err)

	updated, err := l.budgets.UpdateBudget(budget.ID, BudgetInput{Category: "Groceries", Limit: decimal.NewFromInt(250)})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", updated.Category)
	assertDecimal(t, 250, updated.Limit)

	_, err = l.budgets.UpdateBudget(uuid.New(), BudgetInput{Category: "X", Limit: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)

	require.NoError(t, l.budgets.DeleteBudget(budget.ID))
	assert.Empty(t, l.budgets.GetBudgets())
	assert.ErrorIs(t, l.budgets.DeleteBudget(budget.ID), domain.ErrBudgetNotFound)
}
