package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/util"
	"github.com/shopspring/decimal"
)

// RecurringService manages recurring commitments and materializes their
// transactions as periods elapse
type RecurringService struct {
	store *LedgerStore
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(store *LedgerStore) *RecurringService {
	return &RecurringService{store: store}
}

// CreateRecurringInput holds the input for creating a recurring commitment
type CreateRecurringInput struct {
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Description string
	Category    string
	Contact     *string
	AccountID   uuid.UUID
	Frequency   domain.Frequency
	Tenor       int

	// RecordFirst also records today's occurrence as a regular transaction.
	// It does not count toward the tenor.
	RecordFirst bool
}

// InstallmentPlanInput describes a purchase paid off in equal installments.
// Type defaults to expense.
type InstallmentPlanInput struct {
	Type        domain.TransactionType
	Description string
	Category    string
	Contact     *string
	AccountID   uuid.UUID
	Frequency   domain.Frequency
	TotalPrice  decimal.Decimal
	DPAmount    decimal.Decimal
	Tenor       int
}

// InstallmentPlanResult is the commitment created for a plan and the down
// payment expense, if any
type InstallmentPlanResult struct {
	Commitment  domain.RecurringCommitment `json:"commitment"`
	DownPayment *domain.Transaction        `json:"downPayment,omitempty"`
}

// UpdateRecurringInput holds optional replacements for a commitment's fields.
// Changing TotalPrice, DPAmount or Tenor on an installment plan recomputes the
// installment amount.
type UpdateRecurringInput struct {
	Type        *domain.TransactionType
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Contact     *string
	AccountID   *uuid.UUID
	Frequency   *domain.Frequency
	Tenor       *int
	TotalPrice  *decimal.Decimal
	DPAmount    *decimal.Decimal
}

// CreateRecurring adds a commitment whose first period starts now. With
// RecordFirst the current occurrence is recorded as well, tagged with the
// commitment's id.
func (s *RecurringService) CreateRecurring(input CreateRecurringInput) (*domain.RecurringCommitment, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}
	if input.Tenor < 0 {
		return nil, domain.ErrInvalidTenor
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

	if s.store.state.accountIndex(input.AccountID) < 0 {
		return nil, domain.ErrAccountNotFound
	}

	rc := domain.RecurringCommitment{
		ID:            uuid.New(),
		Type:          input.Type,
		Amount:        input.Amount,
		Description:   description,
		Category:      category,
		Contact:       trimOptional(input.Contact),
		AccountID:     input.AccountID,
		Frequency:     input.Frequency,
		Tenor:         input.Tenor,
		LastProcessed: s.store.now().UTC(),
	}
	st := &s.store.state
	st.recurring = append(st.recurring, rc)

	if input.RecordFirst {
		recurringID := rc.ID
		tx := domain.Transaction{
			ID:          uuid.New(),
			Type:        rc.Type,
			Amount:      rc.Amount,
			Date:        s.store.today(),
			Category:    rc.Category,
			Description: rc.Description,
			AccountID:   rc.AccountID,
			Contact:     rc.Contact,
			PaidAmount:  decimal.Zero,
			IsPaid:      !rc.Type.IsObligation(),
			RecurringID: &recurringID,
		}
		st.transactions = append(st.transactions, tx)
		st.adjustBalance(tx.AccountID, tx.Type.BalanceDelta(tx.Amount))
		s.store.checkBudgetsLocked()
	}

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &rc, nil
}

// CreateInstallmentPlan records the down payment as a one-time expense and
// creates a commitment for the financed remainder split over tenor periods,
// rounded up.
func (s *RecurringService) CreateInstallmentPlan(input InstallmentPlanInput) (*InstallmentPlanResult, error) {
	txType := input.Type
	if txType == "" {
		txType = domain.TransactionTypeExpense
	}
	if !txType.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if input.Tenor <= 0 {
		return nil, domain.ErrInvalidTenor
	}
	if !input.TotalPrice.IsPositive() || input.DPAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	frequency := input.Frequency
	if frequency == "" {
		frequency = domain.FrequencyMonthly
	}
	if !frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	amount := domain.InstallmentAmount(input.TotalPrice, input.DPAmount, input.Tenor)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	if st.accountIndex(input.AccountID) < 0 {
		return nil, domain.ErrAccountNotFound
	}

	result := &InstallmentPlanResult{}

	if input.DPAmount.IsPositive() {
		dp := domain.Transaction{
			ID:          uuid.New(),
			Type:        domain.TransactionTypeExpense,
			Amount:      input.DPAmount,
			Date:        s.store.today(),
			Category:    category,
			Description: fmt.Sprintf("DP: %s", description),
			AccountID:   input.AccountID,
			PaidAmount:  decimal.Zero,
			IsPaid:      true,
		}
		st.transactions = append(st.transactions, dp)
		st.adjustBalance(dp.AccountID, dp.Type.BalanceDelta(dp.Amount))
		s.store.checkBudgetsLocked()
		result.DownPayment = &dp
	}

	totalPrice := input.TotalPrice
	dpAmount := input.DPAmount
	result.Commitment = domain.RecurringCommitment{
		ID:            uuid.New(),
		Type:          txType,
		Amount:        amount,
		Description:   description,
		Category:      category,
		AccountID:     input.AccountID,
		Frequency:     frequency,
		Tenor:         input.Tenor,
		LastProcessed: s.store.now().UTC(),
		TotalPrice:    &totalPrice,
		DPAmount:      &dpAmount,
	}
	if txType.IsObligation() {
		result.Commitment.Contact = trimOptional(input.Contact)
	}
	st.recurring = append(st.recurring, result.Commitment)

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetRecurring returns every active commitment
func (s *RecurringService) GetRecurring() []domain.RecurringCommitment {
	var out []domain.RecurringCommitment
	s.store.view(func(st *ledgerState) {
		out = append([]domain.RecurringCommitment{}, st.recurring...)
	})
	return out
}

// GetRecurringByID returns a single commitment
func (s *RecurringService) GetRecurringByID(id uuid.UUID) (*domain.RecurringCommitment, error) {
	var (
		rc    domain.RecurringCommitment
		found bool
	)
	s.store.view(func(st *ledgerState) {
		if idx := st.recurringIndex(id); idx >= 0 {
			rc, found = st.recurring[idx], true
		}
	})
	if !found {
		return nil, domain.ErrRecurringNotFound
	}
	return &rc, nil
}

// UpdateRecurring merges the given fields into a commitment. Progress counters
// and LastProcessed are kept.
func (s *RecurringService) UpdateRecurring(id uuid.UUID, input UpdateRecurringInput) (*domain.RecurringCommitment, error) {
	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	idx := st.recurringIndex(id)
	if idx < 0 {
		return nil, domain.ErrRecurringNotFound
	}

	rc := st.recurring[idx]
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, domain.ErrInvalidTransactionType
		}
		rc.Type = *input.Type
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		rc.Amount = *input.Amount
	}
	if input.Description != nil {
		description, err := validateDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		rc.Description = description
	}
	if input.Category != nil {
		category, err := normalizeCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		rc.Category = category
	}
	if input.Contact != nil {
		rc.Contact = trimOptional(input.Contact)
	}
	if input.AccountID != nil {
		if st.accountIndex(*input.AccountID) < 0 {
			return nil, domain.ErrAccountNotFound
		}
		rc.AccountID = *input.AccountID
	}
	if input.Frequency != nil {
		if !input.Frequency.Valid() {
			return nil, domain.ErrInvalidFrequency
		}
		rc.Frequency = *input.Frequency
	}
	if input.Tenor != nil {
		if *input.Tenor < 0 {
			return nil, domain.ErrInvalidTenor
		}
		rc.Tenor = *input.Tenor
	}
	if input.TotalPrice != nil {
		if !input.TotalPrice.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		v := *input.TotalPrice
		rc.TotalPrice = &v
	}
	if input.DPAmount != nil {
		if input.DPAmount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		v := *input.DPAmount
		rc.DPAmount = &v
	}

	planChanged := input.TotalPrice != nil || input.DPAmount != nil || input.Tenor != nil
	if rc.TotalPrice != nil && rc.Tenor > 0 && planChanged {
		dp := decimal.Zero
		if rc.DPAmount != nil {
			dp = *rc.DPAmount
		}
		amount := domain.InstallmentAmount(*rc.TotalPrice, dp, rc.Tenor)
		if !amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		rc.Amount = amount
	}

	st.recurring[idx] = rc
	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return &rc, nil
}

// DeleteRecurring cancels a commitment. Transactions it already produced are
// kept.
func (s *RecurringService) DeleteRecurring(id uuid.UUID) error {
	s.store.lock()
	defer s.store.unlock()

	idx := s.store.state.recurringIndex(id)
	if idx < 0 {
		return domain.ErrRecurringNotFound
	}
	recurring := s.store.state.recurring
	s.store.state.recurring = append(recurring[:idx:idx], recurring[idx+1:]...)
	return s.store.persistLocked()
}

// ProcessDueNow runs ProcessDue at the ledger clock's current time
func (s *RecurringService) ProcessDueNow() (bool, error) {
	return s.ProcessDue(s.store.now())
}

// ProcessDue advances every commitment whose next due instant is not after
// now by exactly one period. A commitment that completes its tenor is removed
// in the same write that records its last transaction, and each advanced
// commitment is persisted before the next one is looked at. It reports
// whether any transaction was materialized.
func (s *RecurringService) ProcessDue(now time.Time) (bool, error) {
	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	addedAny := false

	for i := 0; i < len(st.recurring); {
		rc := st.recurring[i]
		if rc.IsFulfilled() || !rc.IsDue(now) {
			i++
			continue
		}

		s.store.advanceLocked(&rc, rc.Type, rc.Description, nil, now)
		addedAny = true

		s.store.notifyLocked("Auto-Payment Processed",
			fmt.Sprintf("Recurring %s: %s - %s has been recorded.", rc.Type, rc.Description, formatBaseAmount(rc.Amount)),
			domain.SeveritySuccess)

		if !s.store.settleLocked(i, rc) {
			i++
		}

		s.store.logger.Info().
			Str("recurring_id", rc.ID.String()).
			Str("type", string(rc.Type)).
			Int("completed_payments", rc.CompletedPayments).
			Int("tenor", rc.Tenor).
			Msg("Recurring commitment processed")

		if err := s.store.persistLocked(); err != nil {
			return addedAny, err
		}
	}

	return addedAny, nil
}

// InstallmentPaymentResult is a manual installment payment and the
// commitment's progress after it. Commitment is nil once fulfilled.
type InstallmentPaymentResult struct {
	Payment    domain.Transaction          `json:"payment"`
	Commitment *domain.RecurringCommitment `json:"commitment,omitempty"`
	Fulfilled  bool                        `json:"fulfilled"`
}

// PayInstallment records one installment of a commitment ahead of the engine.
// The payment is an expense named "Installment: <description>" carrying the
// optional proof attachment; it advances the commitment exactly like an
// automatic period, so the next automatic one is due a full period from now.
func (s *RecurringService) PayInstallment(id uuid.UUID, attachment *string) (*InstallmentPaymentResult, error) {
	s.store.lock()
	defer s.store.unlock()

	st := &s.store.state
	idx := st.recurringIndex(id)
	if idx < 0 {
		return nil, domain.ErrRecurringNotFound
	}
	rc := st.recurring[idx]
	if rc.IsFulfilled() {
		return nil, domain.ErrCommitmentFulfilled
	}

	tx := s.store.advanceLocked(&rc, domain.TransactionTypeExpense,
		fmt.Sprintf("Installment: %s", rc.Description), attachment, s.store.now())

	result := &InstallmentPaymentResult{Payment: tx}
	result.Fulfilled = s.store.settleLocked(idx, rc)
	if !result.Fulfilled {
		result.Commitment = &rc
	}

	if err := s.store.persistLocked(); err != nil {
		return nil, err
	}
	return result, nil
}

// advanceLocked records one period of rc as a transaction of txType dated now,
// applies the engine's balance delta and moves the commitment's progress
// forward.
func (s *LedgerStore) advanceLocked(rc *domain.RecurringCommitment, txType domain.TransactionType, description string, attachment *string, now time.Time) domain.Transaction {
	st := &s.state
	rc.CompletedPayments++

	recurringID := rc.ID
	tx := domain.Transaction{
		ID:          uuid.New(),
		Type:        txType,
		Amount:      rc.Amount,
		Date:        util.DateOnly(now),
		Category:    rc.Category,
		Description: description,
		AccountID:   rc.AccountID,
		Contact:     rc.Contact,
		PaidAmount:  decimal.Zero,
		IsPaid:      !txType.IsObligation(),
		Attachment:  attachment,
		RecurringID: &recurringID,
	}
	st.transactions = append(st.transactions, tx)
	s.checkBudgetsLocked()

	delta := rc.Amount.Neg()
	if txType == domain.TransactionTypeIncome {
		delta = rc.Amount
	}
	st.adjustBalance(rc.AccountID, delta)

	rc.LastProcessed = now.UTC()
	return tx
}

// settleLocked stores rc back at idx, or removes it when its tenor is complete.
// It reports whether the commitment was removed.
func (s *LedgerStore) settleLocked(idx int, rc domain.RecurringCommitment) bool {
	st := &s.state
	if !rc.IsFulfilled() {
		st.recurring[idx] = rc
		return false
	}
	st.recurring = append(st.recurring[:idx:idx], st.recurring[idx+1:]...)
	s.notifyLocked("Commitment Fulfilled",
		fmt.Sprintf("You have successfully completed all payments for %s!", rc.Description),
		domain.SeveritySuccess)
	return true
}

func (st *ledgerState) recurringIndex(id uuid.UUID) int {
	for i := range st.recurring {
		if st.recurring[i].ID == id {
			return i
		}
	}
	return -1
}
