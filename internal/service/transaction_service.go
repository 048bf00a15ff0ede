package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/util"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	store *LedgerStore
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(store *LedgerStore) *TransactionService {
	return &TransactionService{store: store}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Date        *time.Time
	Category    string
	Description string
	AccountID   uuid.UUID
	Contact     *string
	Attachment  *string
}

// UpdateTransactionInput holds the fields that may change on edit. Nil fields
// keep their current value.
type UpdateTransactionInput struct {
	Type        *domain.TransactionType
	Amount      *decimal.Decimal
	Date        *time.Time
	Category    *string
	Description *string
	AccountID   *uuid.UUID
	Contact     *string
}

// PaymentResult is the outcome of a partial or full repayment
type PaymentResult struct {
	Obligation domain.Transaction `json:"obligation"`
	Payment    domain.Transaction `json:"payment"`
}

// CreateTransaction records a new transaction, applies its balance delta to the
// account and re-runs the budget check.
func (s *TransactionService) CreateTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	if st.accountIndex(input.AccountID) < 0 {
		return nil, domain.ErrAccountNotFound
	}

	date := s.store.today()
	if input.Date != nil {
		date = util.DateOnly(*input.Date)
	}

	tx := domain.Transaction{
		ID:          uuid.New(),
		Type:        input.Type,
		Amount:      input.Amount,
		Date:        date,
		Category:    category,
		Description: description,
		AccountID:   input.AccountID,
		Contact:     trimOptional(input.Contact),
		PaidAmount:  decimal.Zero,
		IsPaid:      !input.Type.IsObligation(),
		Attachment:  input.Attachment,
	}
	st.transactions = append(st.transactions, tx)
	st.adjustBalance(tx.AccountID, tx.Type.BalanceDelta(tx.Amount))

	s.store.checkBudgetsLocked()

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransactions returns transactions matching filters, newest first
func (s *TransactionService) GetTransactions(filters *domain.TransactionFilters) []domain.Transaction {
	var out []domain.Transaction
	s.store.view(func(st *ledgerState) {
		out = make([]domain.Transaction, 0, len(st.transactions))
		for _, t := range st.transactions {
			if matchesFilters(t, filters) {
				out = append(out, t)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// GetTransactionByID returns a single transaction
func (s *TransactionService) GetTransactionByID(id uuid.UUID) (*domain.Transaction, error) {
	var (
		tx    domain.Transaction
		found bool
	)
	s.store.view(func(st *ledgerState) {
		if idx := st.transactionIndex(id); idx >= 0 {
			tx, found = st.transactions[idx], true
		}
	})
	if !found {
		return nil, domain.ErrTransactionNotFound
	}
	return &tx, nil
}

// UpdateTransaction edits a transaction. The old balance delta is undone on the
// old account and the new delta applied to the new account.
func (s *TransactionService) UpdateTransaction(id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	idx := st.transactionIndex(id)
	if idx < 0 {
		return nil, domain.ErrTransactionNotFound
	}

	old := st.transactions[idx]
	updated := old

	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, domain.ErrInvalidTransactionType
		}
		updated.Type = *input.Type
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		updated.Amount = *input.Amount
	}
	if input.Description != nil {
		description, err := validateDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		updated.Description = description
	}
	if input.Category != nil {
		category, err := normalizeCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		updated.Category = category
	}
	if input.Date != nil {
		updated.Date = util.DateOnly(*input.Date)
	}
	if input.Contact != nil {
		updated.Contact = trimOptional(input.Contact)
	}
	if input.AccountID != nil {
		if st.accountIndex(*input.AccountID) < 0 {
			return nil, domain.ErrAccountNotFound
		}
		updated.AccountID = *input.AccountID
	}

	if updated.Type.IsObligation() {
		if updated.Amount.LessThan(updated.PaidAmount) {
			return nil, domain.ErrAmountBelowPaid
		}
		updated.IsPaid = domain.SettledBy(updated.Amount, updated.PaidAmount)
	} else {
		updated.PaidAmount = decimal.Zero
		updated.IsPaid = true
	}

	st.adjustBalance(old.AccountID, old.Type.BalanceDelta(old.Amount).Neg())
	st.adjustBalance(updated.AccountID, updated.Type.BalanceDelta(updated.Amount))
	st.transactions[idx] = updated

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction removes a transaction and undoes its balance delta
func (s *TransactionService) DeleteTransaction(id uuid.UUID) error {
	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	idx := st.transactionIndex(id)
	if idx < 0 {
		return domain.ErrTransactionNotFound
	}

	old := st.transactions[idx]
	st.adjustBalance(old.AccountID, old.Type.BalanceDelta(old.Amount).Neg())
	st.transactions = append(st.transactions[:idx:idx], st.transactions[idx+1:]...)

	return s.store.persistLocked()
}

// ClearTransactions drops the whole transaction history. Account balances are
// left as they are.
func (s *TransactionService) ClearTransactions() error {
	s.store.lock()
	defer s.store.unlock()

	s.store.state.transactions = []domain.Transaction{}
	return s.store.persistLocked()
}

// RecordPayment applies a repayment to a debt or receivable. A matching cash
// movement is recorded on the same account: an expense when paying back a
// debt, an income when a receivable is collected.
func (s *TransactionService) RecordPayment(id uuid.UUID, amount decimal.Decimal) (*PaymentResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	idx := st.transactionIndex(id)
	if idx < 0 {
		return nil, domain.ErrTransactionNotFound
	}

	obligation := st.transactions[idx]
	if !obligation.Type.IsObligation() {
		return nil, domain.ErrNotObligation
	}
	if obligation.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if amount.GreaterThan(obligation.Remaining()) {
		return nil, domain.ErrOverpayment
	}

	obligation.PaidAmount = obligation.PaidAmount.Add(amount)
	obligation.IsPaid = domain.SettledBy(obligation.Amount, obligation.PaidAmount)
	st.transactions[idx] = obligation

	payment := domain.Transaction{
		ID:         uuid.New(),
		Amount:     amount,
		Date:       s.store.today(),
		AccountID:  obligation.AccountID,
		Contact:    obligation.Contact,
		PaidAmount: decimal.Zero,
		IsPaid:     true,
	}
	if obligation.Type == domain.TransactionTypeDebt {
		payment.Type = domain.TransactionTypeExpense
		payment.Category = domain.RepaymentCategory
		payment.Description = fmt.Sprintf("Repayment: %s", obligation.Description)
	} else {
		payment.Type = domain.TransactionTypeIncome
		payment.Category = domain.CollectionCategory
		payment.Description = fmt.Sprintf("Collection: %s", obligation.Description)
	}
	st.transactions = append(st.transactions, payment)
	st.adjustBalance(payment.AccountID, payment.Type.BalanceDelta(payment.Amount))

	if obligation.IsPaid {
		s.store.notifyLocked("Obligation Settled", obligation.Description, domain.SeveritySuccess)
	}

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &PaymentResult{Obligation: obligation, Payment: payment}, nil
}

// SetAttachment stores or clears the attachment object key of a transaction
func (s *TransactionService) SetAttachment(id uuid.UUID, key *string) (*domain.Transaction, error) {
	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	idx := st.transactionIndex(id)
	if idx < 0 {
		return nil, domain.ErrTransactionNotFound
	}

	st.transactions[idx].Attachment = key
	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	tx := st.transactions[idx]
	return &tx, nil
}

func (st *ledgerState) transactionIndex(id uuid.UUID) int {
	for i := range st.transactions {
		if st.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func matchesFilters(t domain.Transaction, f *domain.TransactionFilters) bool {
	if f == nil {
		return true
	}
	if f.AccountID != nil && t.AccountID != *f.AccountID {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Category != nil && !strings.EqualFold(t.Category, *f.Category) {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func validateDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if description == "" {
		return "", domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return "", domain.ErrNameTooLong
	}
	return description, nil
}

func normalizeCategory(raw string) (string, error) {
	category := strings.TrimSpace(raw)
	if category == "" {
		return domain.DefaultCategory, nil
	}
	if len(category) > domain.MaxCategoryLength {
		return "", domain.ErrNameTooLong
	}
	return category, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
