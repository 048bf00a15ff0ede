package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalService_CRUD(t *testing.T) {
	l := setupLedger(t)
	goals := NewGoalService(l.store)

	goal, err := goals.CreateGoal(GoalInput{Name: "  Emergency fund ", Target: decimal.NewFromInt(10_000_000)})
	require.NoError(t, err)
	assert.Equal(t, "Emergency fund", goal.Name)

	target := decimal.NewFromInt(12_000_000)
	updated, err := goals.UpdateGoal(goal.ID, UpdateGoalInput{Target: &target})
	require.NoError(t, err)
	assert.Equal(t, "Emergency fund", updated.Name)
	assertDecimal(t, 12_000_000, updated.Target)

	require.NoError(t, goals.DeleteGoal(goal.ID))
	assert.Empty(t, goals.GetGoals())
}

func TestGoalService_Validation(t *testing.T) {
	l := setupLedger(t)
	goals := NewGoalService(l.store)

	_, err := goals.CreateGoal(GoalInput{Name: "Car", Target: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	writes := l.kv.Writes
	name := "Car"
	_, err = goals.UpdateGoal(uuid.New(), UpdateGoalInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	assert.ErrorIs(t, goals.DeleteGoal(uuid.New()), domain.ErrGoalNotFound)
	assert.Equal(t, writes, l.kv.Writes)
}

func TestInvestmentService_CRUD(t *testing.T) {
	l := setupLedger(t)
	investments := NewInvestmentService(l.store)

	buy := decimal.NewFromInt(1000)
	inv, err := investments.CreateInvestment(CreateInvestmentInput{
		Type:     "stock",
		Name:     "BBCA",
		Quantity: decimal.NewFromInt(100),
		Price:    decimal.NewFromInt(1200),
		BuyPrice: &buy,
	})
	require.NoError(t, err)
	assert.True(t, inv.Date.Equal(util.DateOnly(testNow)))

	l.clock.Advance(time.Hour)
	price := decimal.NewFromInt(1300)
	updated, err := investments.UpdateInvestment(inv.ID, UpdateInvestmentInput{Price: &price})
	require.NoError(t, err)
	assertDecimal(t, 1300, updated.Price)
	assert.True(t, updated.LastUpdated.After(inv.LastUpdated))

	totals := l.calc.GetTotals()
	assertDecimal(t, 130_000, totals.TotalInvestments)

	require.NoError(t, investments.DeleteInvestment(inv.ID))
	assert.Empty(t, investments.GetInvestments())
}

func TestInvestmentService_Validation(t *testing.T) {
	l := setupLedger(t)
	investments := NewInvestmentService(l.store)

	_, err := investments.CreateInvestment(CreateInvestmentInput{Name: "Gold", Quantity: decimal.Zero, Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = investments.CreateInvestment(CreateInvestmentInput{Name: "Gold", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = investments.UpdateInvestment(uuid.New(), UpdateInvestmentInput{})
	assert.ErrorIs(t, err, domain.ErrInvestmentNotFound)
}
