package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/util"
	"github.com/shopspring/decimal"
)

// InvestmentService manages investment holdings. Holdings are not linked to
// accounts and never move balances.
type InvestmentService struct {
	store *LedgerStore
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(store *LedgerStore) *InvestmentService {
	return &InvestmentService{store: store}
}

// CreateInvestmentInput holds the input for adding a holding
type CreateInvestmentInput struct {
	Type     string
	Name     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	BuyPrice *decimal.Decimal
	Date     *time.Time
}

// UpdateInvestmentInput holds optional replacements for a holding's fields
type UpdateInvestmentInput struct {
	Type     *string
	Name     *string
	Quantity *decimal.Decimal
	Price    *decimal.Decimal
	BuyPrice *decimal.Decimal
}

// CreateInvestment adds a holding
func (s *InvestmentService) CreateInvestment(input CreateInvestmentInput) (*domain.Investment, error) {
	name, err := validateName(input.Name, domain.MaxAccountNameLength)
	if err != nil {
		return nil, err
	}
	if !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if input.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}
	if input.BuyPrice != nil && input.BuyPrice.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	s.store.lock()
	defer s.store.unlock()

	date := s.store.today()
	if input.Date != nil {
		date = util.DateOnly(*input.Date)
	}

	inv := domain.Investment{
		ID:          uuid.New(),
		Type:        strings.TrimSpace(input.Type),
		Name:        name,
		Quantity:    input.Quantity,
		Price:       input.Price,
		BuyPrice:    input.BuyPrice,
		Date:        date,
		LastUpdated: s.store.now().UTC(),
	}
	s.store.state.investments = append(s.store.state.investments, inv)

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvestments returns every holding
func (s *InvestmentService) GetInvestments() []domain.Investment {
	var out []domain.Investment
	s.store.view(func(st *ledgerState) {
		out = append([]domain.Investment{}, st.investments...)
	})
	return out
}

// UpdateInvestment merges the given fields into a holding and stamps
// LastUpdated
func (s *InvestmentService) UpdateInvestment(id uuid.UUID, input UpdateInvestmentInput) (*domain.Investment, error) {
	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.investmentIndex(id)
	if idx < 0 {
		return nil, domain.ErrInvestmentNotFound
	}

	inv := s.store.state.investments[idx]
	if input.Name != nil {
		name, err := validateName(*input.Name, domain.MaxAccountNameLength)
		if err != nil {
			return nil, err
		}
		inv.Name = name
	}
	if input.Type != nil {
		inv.Type = strings.TrimSpace(*input.Type)
	}
	if input.Quantity != nil {
		if !input.Quantity.IsPositive() {
			return nil, domain.ErrInvalidQuantity
		}
		inv.Quantity = *input.Quantity
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		inv.Price = *input.Price
	}
	if input.BuyPrice != nil {
		if input.BuyPrice.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		inv.BuyPrice = input.BuyPrice
	}
	inv.LastUpdated = s.store.now().UTC()
	s.store.state.investments[idx] = inv

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeleteInvestment removes a holding
func (s *InvestmentService) DeleteInvestment(id uuid.UUID) error {
	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.investmentIndex(id)
	if idx < 0 {
		return domain.ErrInvestmentNotFound
	}
	investments := s.store.state.investments
	s.store.state.investments = append(investments[:idx:idx], investments[idx+1:]...)
	return s.store.persistLocked()
}

func (st *ledgerState) investmentIndex(id uuid.UUID) int {
	for i := range st.investments {
		if st.investments[i].ID == id {
			return i
		}
	}
	return -1
}
