package service

import (
	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/shopspring/decimal"
)

// GoalService manages savings goals
type GoalService struct {
	store *LedgerStore
}

// NewGoalService creates a new GoalService
func NewGoalService(store *LedgerStore) *GoalService {
	return &GoalService{store: store}
}

// GoalInput holds the input for creating a goal
type GoalInput struct {
	Name   string
	Target decimal.Decimal
}

// UpdateGoalInput holds optional replacements for a goal's fields
type UpdateGoalInput struct {
	Name   *string
	Target *decimal.Decimal
}

// CreateGoal adds a goal
func (s *GoalService) CreateGoal(input GoalInput) (*domain.Goal, error) {
	name, err := validateName(input.Name, domain.MaxAccountNameLength)
	if err != nil {
		return nil, err
	}
	if !input.Target.IsPositive() {
		return nil, domain.ErrInvalidTarget
	}

	goal := domain.Goal{ID: uuid.New(), Name: name, Target: input.Target}

	s.store.lock()
	defer s.store.unlock()

	s.store.state.goals = append(s.store.state.goals, goal)
	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &goal, nil
}

// GetGoals returns every goal
func (s *GoalService) GetGoals() []domain.Goal {
	var out []domain.Goal
	s.store.view(func(st *ledgerState) {
		out = append([]domain.Goal{}, st.goals...)
	})
	return out
}

// UpdateGoal merges the given fields into a goal
func (s *GoalService) UpdateGoal(id uuid.UUID, input UpdateGoalInput) (*domain.Goal, error) {
	var name string
	if input.Name != nil {
		n, err := validateName(*input.Name, domain.MaxAccountNameLength)
		if err != nil {
			return nil, err
		}
		name = n
	}
	if input.Target != nil && !input.Target.IsPositive() {
		return nil, domain.ErrInvalidTarget
	}

	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.goalIndex(id)
	if idx < 0 {
		return nil, domain.ErrGoalNotFound
	}

	goal := &s.store.state.goals[idx]
	if input.Name != nil {
		goal.Name = name
	}
	if input.Target != nil {
		goal.Target = *input.Target
	}

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	result := *goal
	return &result, nil
}

// DeleteGoal removes a goal
func (s *GoalService) DeleteGoal(id uuid.UUID) error {
	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.goalIndex(id)
	if idx < 0 {
		return domain.ErrGoalNotFound
	}
	goals := s.store.state.goals
	s.store.state.goals = append(goals[:idx:idx], goals[idx+1:]...)
	return s.store.persistLocked()
}

func (st *ledgerState) goalIndex(id uuid.UUID) int {
	for i := range st.goals {
		if st.goals[i].ID == id {
			return i
		}
	}
	return -1
}
