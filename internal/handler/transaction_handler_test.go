package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
)

type transactionFixture struct {
	handler      *TransactionHandler
	transactions *service.TransactionService
	accounts     *service.AccountService
	publisher    *recordingPublisher
	accountID    uuid.UUID
}

func setupTransactionHandler(t *testing.T) *transactionFixture {
	store, _ := newTestStore(t)
	accounts := service.NewAccountService(store)
	account, err := accounts.CreateAccount(service.CreateAccountInput{Name: "Cash", Balance: mustDecimal("1000")})
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	transactions := service.NewTransactionService(store)
	publisher := &recordingPublisher{}
	return &transactionFixture{
		handler:      NewTransactionHandler(transactions, publisher),
		transactions: transactions,
		accounts:     accounts,
		publisher:    publisher,
		accountID:    account.ID,
	}
}

func (f *transactionFixture) create(t *testing.T, txType domain.TransactionType, amount, category string) *domain.Transaction {
	t.Helper()
	tx, err := f.transactions.CreateTransaction(service.CreateTransactionInput{
		Type:        txType,
		Amount:      mustDecimal(amount),
		Category:    category,
		Description: category,
		AccountID:   f.accountID,
	})
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}
	return tx
}

func TestCreateTransaction_Success(t *testing.T) {
	f := setupTransactionHandler(t)
	body := `{"type": "expense", "amount": "250", "date": "2026-03-10", "category": "Food", "description": "Groceries", "accountId": "` + f.accountID.String() + `"}`
	c, rec := newJSONContext(http.MethodPost, "/api/v1/transactions", body)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var tx domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if tx.Date.Format(dateLayout) != "2026-03-10" {
		t.Errorf("Expected date 2026-03-10, got %s", tx.Date)
	}

	account, _ := f.accounts.GetAccountByID(f.accountID)
	if account.Balance.String() != "750" {
		t.Errorf("Expected balance 750, got %s", account.Balance)
	}
	if types := f.publisher.Types(); len(types) != 1 || types[0] != "transaction.created" {
		t.Errorf("Expected transaction.created event, got %v", types)
	}
}

func TestCreateTransaction_CollectsFieldErrors(t *testing.T) {
	f := setupTransactionHandler(t)
	body := `{"type": "expense", "amount": "abc", "date": "10/03/2026", "accountId": "nope"}`
	c, rec := newJSONContext(http.MethodPost, "/api/v1/transactions", body)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if problem := decodeProblem(t, rec); len(problem.Errors) != 3 {
		t.Errorf("Expected 3 field errors, got %+v", problem.Errors)
	}
}

func TestCreateTransaction_UnknownAccount(t *testing.T) {
	f := setupTransactionHandler(t)
	body := `{"type": "income", "amount": "10", "category": "Salary", "description": "Pay", "accountId": "` + uuid.NewString() + `"}`
	c, rec := newJSONContext(http.MethodPost, "/api/v1/transactions", body)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetTransactions_Filters(t *testing.T) {
	f := setupTransactionHandler(t)
	f.create(t, domain.TransactionTypeExpense, "10", "Food")
	f.create(t, domain.TransactionTypeExpense, "20", "Travel")
	f.create(t, domain.TransactionTypeIncome, "30", "Salary")

	c, rec := newJSONContext(http.MethodGet, "/api/v1/transactions?type=expense&category=Food", "")
	if err := f.handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var txs []domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(txs) != 1 || txs[0].Category != "Food" {
		t.Errorf("Expected only the Food expense, got %+v", txs)
	}
}

func TestGetTransactions_InvalidType(t *testing.T) {
	f := setupTransactionHandler(t)
	c, rec := newJSONContext(http.MethodGet, "/api/v1/transactions?type=transfer", "")

	if err := f.handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUpdateTransaction_RebalancesAccount(t *testing.T) {
	f := setupTransactionHandler(t)
	tx := f.create(t, domain.TransactionTypeExpense, "100", "Food")

	c, rec := newJSONContext(http.MethodPut, "/api/v1/transactions/x", `{"amount": "300"}`)
	withID(c, tx.ID.String())
	if err := f.handler.UpdateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	account, _ := f.accounts.GetAccountByID(f.accountID)
	if account.Balance.String() != "700" {
		t.Errorf("Expected balance 700, got %s", account.Balance)
	}
}

func TestDeleteTransaction(t *testing.T) {
	f := setupTransactionHandler(t)
	tx := f.create(t, domain.TransactionTypeExpense, "100", "Food")

	c, rec := newJSONContext(http.MethodDelete, "/api/v1/transactions/x", "")
	withID(c, tx.ID.String())
	if err := f.handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}

	c, rec = newJSONContext(http.MethodDelete, "/api/v1/transactions/x", "")
	withID(c, tx.ID.String())
	if err := f.handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", rec.Code)
	}
}

func TestClearTransactions(t *testing.T) {
	f := setupTransactionHandler(t)
	f.create(t, domain.TransactionTypeExpense, "100", "Food")

	c, rec := newJSONContext(http.MethodDelete, "/api/v1/transactions", "")
	if err := f.handler.ClearTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if n := len(f.transactions.GetTransactions(nil)); n != 0 {
		t.Errorf("Expected no transactions, got %d", n)
	}
}

func TestRecordPayment(t *testing.T) {
	f := setupTransactionHandler(t)
	debt := f.create(t, domain.TransactionTypeDebt, "500", "Loan")

	c, rec := newJSONContext(http.MethodPost, "/api/v1/transactions/x/payments", `{"amount": "500"}`)
	withID(c, debt.ID.String())
	if err := f.handler.RecordPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result service.PaymentResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !result.Obligation.IsPaid {
		t.Error("Expected debt to be settled")
	}
	if result.Payment.Type != domain.TransactionTypeExpense {
		t.Errorf("Expected expense payment, got %s", result.Payment.Type)
	}

	// a settled obligation cannot be paid again
	c, rec = newJSONContext(http.MethodPost, "/api/v1/transactions/x/payments", `{"amount": "1"}`)
	withID(c, debt.ID.String())
	if err := f.handler.RecordPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestRecordPayment_NotObligation(t *testing.T) {
	f := setupTransactionHandler(t)
	expense := f.create(t, domain.TransactionTypeExpense, "50", "Food")

	c, rec := newJSONContext(http.MethodPost, "/api/v1/transactions/x/payments", `{"amount": "10"}`)
	withID(c, expense.ID.String())
	if err := f.handler.RecordPayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}
