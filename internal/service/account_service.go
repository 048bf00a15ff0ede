package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountService handles account-related business logic
type AccountService struct {
	store *LedgerStore
}

// NewAccountService creates a new AccountService
func NewAccountService(store *LedgerStore) *AccountService {
	return &AccountService{store: store}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name    string
	Type    domain.AccountType
	Balance decimal.Decimal
	Color   string
}

// UpdateAccountInput holds the editable account fields. Balance is changed
// only through UpdateBalance or transactions.
type UpdateAccountInput struct {
	Name  *string
	Type  *domain.AccountType
	Color *string
}

// CreateAccount creates a new account with an opening balance
func (s *AccountService) CreateAccount(input CreateAccountInput) (*domain.Account, error) {
	name, err := validateName(input.Name, domain.MaxAccountNameLength)
	if err != nil {
		return nil, err
	}

	accountType := input.Type
	if accountType == "" {
		accountType = domain.AccountTypeOther
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = domain.DefaultAccountColor
	}

	account := domain.Account{
		ID:      uuid.New(),
		Name:    name,
		Type:    accountType,
		Balance: input.Balance,
		Color:   color,
	}

	s.store.lock()
	defer s.store.unlock()

	s.store.state.accounts = append(s.store.state.accounts, account)
	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccounts returns every account in creation order
func (s *AccountService) GetAccounts() []domain.Account {
	var out []domain.Account
	s.store.view(func(st *ledgerState) {
		out = append([]domain.Account{}, st.accounts...)
	})
	return out
}

// GetAccountByID returns a single account
func (s *AccountService) GetAccountByID(id uuid.UUID) (*domain.Account, error) {
	var (
		account domain.Account
		found   bool
	)
	s.store.view(func(st *ledgerState) {
		if idx := st.accountIndex(id); idx >= 0 {
			account, found = st.accounts[idx], true
		}
	})
	if !found {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

// UpdateAccount changes an account's name, type or color
func (s *AccountService) UpdateAccount(id uuid.UUID, input UpdateAccountInput) (*domain.Account, error) {
	var name string
	if input.Name != nil {
		n, err := validateName(*input.Name, domain.MaxAccountNameLength)
		if err != nil {
			return nil, err
		}
		name = n
	}

	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.accountIndex(id)
	if idx < 0 {
		return nil, domain.ErrAccountNotFound
	}

	account := &s.store.state.accounts[idx]
	if input.Name != nil {
		account.Name = name
	}
	if input.Type != nil {
		account.Type = *input.Type
	}
	if input.Color != nil && strings.TrimSpace(*input.Color) != "" {
		account.Color = strings.TrimSpace(*input.Color)
	}

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	result := *account
	return &result, nil
}

// UpdateBalance adds a signed change to an account's running balance
func (s *AccountService) UpdateBalance(id uuid.UUID, change decimal.Decimal) (*domain.Account, error) {
	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.accountIndex(id)
	if idx < 0 {
		return nil, domain.ErrAccountNotFound
	}

	s.store.state.accounts[idx].Balance = s.store.state.accounts[idx].Balance.Add(change)
	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	result := s.store.state.accounts[idx]
	return &result, nil
}

// DeleteAccount removes an account. Transactions that reference it are kept.
func (s *AccountService) DeleteAccount(id uuid.UUID) error {
	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.accountIndex(id)
	if idx < 0 {
		return domain.ErrAccountNotFound
	}

	accounts := s.store.state.accounts
	s.store.state.accounts = append(accounts[:idx:idx], accounts[idx+1:]...)
	return s.store.persistLocked()
}

// GetTotalBalance sums the balances of every account
func (s *AccountService) GetTotalBalance() decimal.Decimal {
	var total decimal.Decimal
	s.store.view(func(st *ledgerState) {
		total = totalBalance(st.accounts)
	})
	return total
}

func totalBalance(accounts []domain.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// validateName trims and bounds a user-supplied name
func validateName(raw string, max int) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > max {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}
