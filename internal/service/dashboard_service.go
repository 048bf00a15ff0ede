package service

import (
	"github.com/mhyu96-glitch/finance-app/internal/domain"
)

// DashboardService assembles the dashboard read model
type DashboardService struct {
	store *LedgerStore
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store *LedgerStore) *DashboardService {
	return &DashboardService{store: store}
}

// GetSummary computes totals, health, budgets and goals from a single
// consistent snapshot
func (s *DashboardService) GetSummary() domain.DashboardSummary {
	var summary domain.DashboardSummary
	s.store.view(func(st *ledgerState) {
		now := s.store.now()
		summary = domain.DashboardSummary{
			Totals:       computeTotals(st),
			Health:       healthBreakdown(st, now),
			TotalBalance: totalBalance(st.accounts),
			SavingsGoal:  st.settings.SavingsGoal,
			Budgets:      budgetStatuses(st, now),
			Goals:        goalProgress(st),
			Commitments:  len(st.recurring),
			Currency:     st.settings.Currency,
		}
	})
	return summary
}
