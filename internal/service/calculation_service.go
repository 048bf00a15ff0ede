package service

import (
	"time"

	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/util"
	"github.com/shopspring/decimal"
)

// CalculationService computes derived metrics from the ledger snapshot.
// Every method is a read; nothing is cached.
type CalculationService struct {
	store *LedgerStore
}

// NewCalculationService creates a new CalculationService
func NewCalculationService(store *LedgerStore) *CalculationService {
	return &CalculationService{store: store}
}

// GetTotals aggregates cash flow, open obligations and net worth
func (s *CalculationService) GetTotals() domain.Totals {
	var totals domain.Totals
	s.store.view(func(st *ledgerState) {
		totals = computeTotals(st)
	})
	return totals
}

// CalculateHealthScore returns the 0-100 composite health score
func (s *CalculationService) CalculateHealthScore() int {
	return s.GetHealthBreakdown().Score
}

// GetHealthBreakdown returns the health score together with its sub-scores
func (s *CalculationService) GetHealthBreakdown() domain.HealthBreakdown {
	var hb domain.HealthBreakdown
	s.store.view(func(st *ledgerState) {
		hb = healthBreakdown(st, s.store.now())
	})
	return hb
}

// GetGoalProgress measures every goal against the sum of account balances
func (s *CalculationService) GetGoalProgress() []domain.GoalProgress {
	var out []domain.GoalProgress
	s.store.view(func(st *ledgerState) {
		out = goalProgress(st)
	})
	return out
}

// GetInvestmentSummaries values every holding and derives ROI where a buy
// price is known
func (s *CalculationService) GetInvestmentSummaries() []domain.InvestmentSummary {
	var out []domain.InvestmentSummary
	s.store.view(func(st *ledgerState) {
		out = make([]domain.InvestmentSummary, 0, len(st.investments))
		for _, inv := range st.investments {
			summary := domain.InvestmentSummary{Investment: inv, Value: inv.Value()}
			if roi, ok := inv.ROI(); ok {
				r := roi.Round(4)
				summary.ROI = &r
			}
			out = append(out, summary)
		}
	})
	return out
}

// computeTotals keeps the net worth formula of the ledger: receivables are
// never added back.
func computeTotals(st *ledgerState) domain.Totals {
	t := domain.Totals{
		Income:               decimal.Zero,
		Expense:              decimal.Zero,
		TotalDebtTaken:       decimal.Zero,
		TotalReceivableGiven: decimal.Zero,
		ActiveDebt:           decimal.Zero,
		ActiveReceivable:     decimal.Zero,
		TotalInvestments:     decimal.Zero,
	}

	for _, tx := range st.transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			t.Income = t.Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		case domain.TransactionTypeDebt:
			t.TotalDebtTaken = t.TotalDebtTaken.Add(tx.Amount)
			if !tx.IsPaid {
				t.ActiveDebt = t.ActiveDebt.Add(tx.Remaining())
			}
		case domain.TransactionTypeReceivable:
			t.TotalReceivableGiven = t.TotalReceivableGiven.Add(tx.Amount)
			if !tx.IsPaid {
				t.ActiveReceivable = t.ActiveReceivable.Add(tx.Remaining())
			}
		}
	}

	for _, inv := range st.investments {
		t.TotalInvestments = t.TotalInvestments.Add(inv.Value())
	}

	t.RealBalance = t.Income.Sub(t.Expense).Add(t.TotalDebtTaken).Sub(t.TotalReceivableGiven)
	t.NetWorth = t.RealBalance.Add(t.TotalInvestments).Sub(t.ActiveDebt)
	return t
}

func healthBreakdown(st *ledgerState, now time.Time) domain.HealthBreakdown {
	totals := computeTotals(st)

	savingsRate := decimal.Zero
	if totals.Income.IsPositive() {
		savingsRate = totals.Income.Sub(totals.Expense).Div(totals.Income)
	}
	savingsScore := clampScore(savingsRate.Div(domain.TargetSavingsRate).Mul(hundred))

	complianceScore := hundred
	if len(st.budgets) > 0 {
		spent := monthExpensesByCategory(st, now)
		over := 0
		for _, b := range st.budgets {
			if spent[b.Category].GreaterThan(b.Limit) {
				over++
			}
		}
		complianceScore = ratioScore(len(st.budgets)-over, len(st.budgets))
	}

	commitmentScore := hundred
	if len(st.recurring) > 0 {
		overdue := 0
		for i := range st.recurring {
			if st.recurring[i].IsOverdue(now) {
				overdue++
			}
		}
		commitmentScore = ratioScore(len(st.recurring)-overdue, len(st.recurring))
	}

	final := savingsScore.Mul(domain.SavingsScoreWeight).
		Add(complianceScore.Mul(domain.ComplianceScoreWeight)).
		Add(commitmentScore.Mul(domain.CommitmentScoreWeight))

	return domain.HealthBreakdown{
		Score:           int(final.Round(0).IntPart()),
		SavingsRate:     savingsRate.Round(4),
		SavingsScore:    savingsScore.Round(2),
		ComplianceScore: complianceScore.Round(2),
		CommitmentScore: commitmentScore.Round(2),
	}
}

func goalProgress(st *ledgerState) []domain.GoalProgress {
	current := totalBalance(st.accounts)

	out := make([]domain.GoalProgress, 0, len(st.goals))
	for _, g := range st.goals {
		percent := decimal.Zero
		if g.Target.IsPositive() {
			percent = clampScore(current.Div(g.Target).Mul(hundred))
		}
		out = append(out, domain.GoalProgress{
			Goal:     g,
			Current:  current,
			Percent:  percent.Round(2),
			Achieved: g.Target.IsPositive() && current.GreaterThanOrEqual(g.Target),
		})
	}
	return out
}

// monthExpensesByCategory sums expenses dated in now's calendar month
func monthExpensesByCategory(st *ledgerState, now time.Time) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, tx := range st.transactions {
		if tx.Type != domain.TransactionTypeExpense || !util.SameMonth(tx.Date, now) {
			continue
		}
		spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
	}
	return spent
}

func clampScore(v decimal.Decimal) decimal.Decimal {
	return decimal.Min(hundred, decimal.Max(decimal.Zero, v))
}

func ratioScore(ok, total int) decimal.Decimal {
	return decimal.NewFromInt(int64(ok)).Mul(hundred).Div(decimal.NewFromInt(int64(total)))
}
