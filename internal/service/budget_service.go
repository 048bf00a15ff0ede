package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BudgetService handles monthly category budgets and their compliance checks
type BudgetService struct {
	store *LedgerStore
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(store *LedgerStore) *BudgetService {
	return &BudgetService{store: store}
}

// BudgetInput holds the input for creating or replacing a budget
type BudgetInput struct {
	Category string
	Limit    decimal.Decimal
}

func (in BudgetInput) validate() (string, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return "", domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return "", domain.ErrNameTooLong
	}
	if !in.Limit.IsPositive() {
		return "", domain.ErrInvalidLimit
	}
	return category, nil
}

// CreateBudget adds a budget for a category
func (s *BudgetService) CreateBudget(input BudgetInput) (*domain.Budget, error) {
	category, err := input.validate()
	if err != nil {
		return nil, err
	}

	budget := domain.Budget{ID: uuid.New(), Category: category, Limit: input.Limit}

	s.store.lock()
	defer s.store.unlock()

	s.store.state.budgets = append(s.store.state.budgets, budget)
	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &budget, nil
}

// GetBudgets returns every budget
func (s *BudgetService) GetBudgets() []domain.Budget {
	var out []domain.Budget
	s.store.view(func(st *ledgerState) {
		out = append([]domain.Budget{}, st.budgets...)
	})
	return out
}

// UpdateBudget replaces a budget's category and limit
func (s *BudgetService) UpdateBudget(id uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	category, err := input.validate()
	if err != nil {
		return nil, err
	}

	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.budgetIndex(id)
	if idx < 0 {
		return nil, domain.ErrBudgetNotFound
	}
	s.store.state.budgets[idx].Category = category
	s.store.state.budgets[idx].Limit = input.Limit

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	budget := s.store.state.budgets[idx]
	return &budget, nil
}

// DeleteBudget removes a budget
func (s *BudgetService) DeleteBudget(id uuid.UUID) error {
	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.budgetIndex(id)
	if idx < 0 {
		return domain.ErrBudgetNotFound
	}
	budgets := s.store.state.budgets
	s.store.state.budgets = append(budgets[:idx:idx], budgets[idx+1:]...)
	return s.store.persistLocked()
}

// CheckBudgets emits one notification per budget at or above the warning
// threshold. Repeated calls notify again.
func (s *BudgetService) CheckBudgets() {
	s.store.lock()
	defer s.store.unlock()
	s.store.checkBudgetsLocked()
}

// GetBudgetStatuses returns this month's spend against every budget
func (s *BudgetService) GetBudgetStatuses() []domain.BudgetStatus {
	var out []domain.BudgetStatus
	s.store.view(func(st *ledgerState) {
		out = budgetStatuses(st, s.store.now())
	})
	return out
}

func (s *LedgerStore) checkBudgetsLocked() {
	for _, status := range budgetStatuses(&s.state, s.now()) {
		if !status.Budget.Limit.IsPositive() {
			continue
		}
		used := status.Spent.Mul(hundred)
		switch {
		case used.GreaterThanOrEqual(status.Budget.Limit.Mul(domain.BudgetExceededThreshold)):
			s.notifyLocked("Budget Alert",
				fmt.Sprintf("You have exceeded your %s budget!", status.Budget.Category),
				domain.SeverityError)
		case used.GreaterThanOrEqual(status.Budget.Limit.Mul(domain.BudgetWarningThreshold)):
			s.notifyLocked("Budget Warning",
				fmt.Sprintf("You have used 90%% of your %s budget.", status.Budget.Category),
				domain.SeverityWarning)
		}
	}
}

func budgetStatuses(st *ledgerState, now time.Time) []domain.BudgetStatus {
	spent := monthExpensesByCategory(st, now)

	out := make([]domain.BudgetStatus, 0, len(st.budgets))
	for _, b := range st.budgets {
		amount := spent[b.Category]
		utilization := decimal.Zero
		if b.Limit.IsPositive() {
			utilization = amount.Mul(hundred).Div(b.Limit)
		}
		out = append(out, domain.BudgetStatus{
			Budget:      b,
			Spent:       amount,
			Remaining:   b.Limit.Sub(amount),
			Utilization: utilization.Round(2),
			Exceeded:    amount.GreaterThan(b.Limit),
		})
	}
	return out
}

func (st *ledgerState) budgetIndex(id uuid.UUID) int {
	for i := range st.budgets {
		if st.budgets[i].ID == id {
			return i
		}
	}
	return -1
}
