package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
)

func setupAccountHandler(t *testing.T) (*AccountHandler, *service.AccountService, *recordingPublisher) {
	store, _ := newTestStore(t)
	accountService := service.NewAccountService(store)
	publisher := &recordingPublisher{}
	return NewAccountHandler(accountService, publisher), accountService, publisher
}

func TestCreateAccount_Success(t *testing.T) {
	h, _, publisher := setupAccountHandler(t)
	c, rec := newJSONContext(http.MethodPost, "/api/v1/accounts", `{"name": "BCA", "type": "Savings", "balance": "1000.50"}`)

	if err := h.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var account domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if account.Name != "BCA" {
		t.Errorf("Expected name 'BCA', got %s", account.Name)
	}
	if account.Balance.String() != "1000.5" {
		t.Errorf("Expected balance 1000.5, got %s", account.Balance)
	}
	if types := publisher.Types(); len(types) != 1 || types[0] != "account.updated" {
		t.Errorf("Expected one account.updated event, got %v", types)
	}
}

func TestCreateAccount_InvalidBalance(t *testing.T) {
	h, accounts, _ := setupAccountHandler(t)
	c, rec := newJSONContext(http.MethodPost, "/api/v1/accounts", `{"name": "BCA", "balance": "lots"}`)

	if err := h.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "balance" {
		t.Errorf("Expected a balance field error, got %+v", problem.Errors)
	}
	if len(accounts.GetAccounts()) != 0 {
		t.Error("Expected no account to be created")
	}
}

func TestCreateAccount_MissingName(t *testing.T) {
	h, _, _ := setupAccountHandler(t)
	c, rec := newJSONContext(http.MethodPost, "/api/v1/accounts", `{"name": "  "}`)

	if err := h.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if problem := decodeProblem(t, rec); problem.Errors[0].Field != "name" {
		t.Errorf("Expected name field error, got %+v", problem.Errors)
	}
}

func TestGetAccounts_IncludesTotalBalance(t *testing.T) {
	h, accounts, _ := setupAccountHandler(t)
	for _, name := range []string{"Cash", "Bank"} {
		if _, err := accounts.CreateAccount(service.CreateAccountInput{Name: name, Balance: mustDecimal("250")}); err != nil {
			t.Fatalf("Failed to create account: %v", err)
		}
	}

	c, rec := newJSONContext(http.MethodGet, "/api/v1/accounts", "")
	if err := h.GetAccounts(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response AccountListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Accounts) != 2 {
		t.Errorf("Expected 2 accounts, got %d", len(response.Accounts))
	}
	if response.TotalBalance.String() != "500" {
		t.Errorf("Expected total balance 500, got %s", response.TotalBalance)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	h, _, _ := setupAccountHandler(t)
	c, rec := newJSONContext(http.MethodGet, "/api/v1/accounts/x", "")
	withID(c, uuid.NewString())

	if err := h.GetAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetAccount_InvalidID(t *testing.T) {
	h, _, _ := setupAccountHandler(t)
	c, rec := newJSONContext(http.MethodGet, "/api/v1/accounts/abc", "")
	withID(c, "abc")

	if err := h.GetAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAdjustBalance(t *testing.T) {
	h, accounts, publisher := setupAccountHandler(t)
	account, err := accounts.CreateAccount(service.CreateAccountInput{Name: "Cash", Balance: mustDecimal("100")})
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	c, rec := newJSONContext(http.MethodPost, "/api/v1/accounts/x/balance", `{"change": "-40"}`)
	withID(c, account.ID.String())
	if err := h.AdjustBalance(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	got, _ := accounts.GetAccountByID(account.ID)
	if got.Balance.String() != "60" {
		t.Errorf("Expected balance 60, got %s", got.Balance)
	}
	if len(publisher.Types()) != 1 {
		t.Errorf("Expected one event, got %v", publisher.Types())
	}
}

func TestUpdateAndDeleteAccount(t *testing.T) {
	h, accounts, _ := setupAccountHandler(t)
	account, err := accounts.CreateAccount(service.CreateAccountInput{Name: "Cash"})
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	c, rec := newJSONContext(http.MethodPut, "/api/v1/accounts/x", `{"name": "Wallet", "color": "#ff0000"}`)
	withID(c, account.ID.String())
	if err := h.UpdateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	got, _ := accounts.GetAccountByID(account.ID)
	if got.Name != "Wallet" || got.Color != "#ff0000" {
		t.Errorf("Expected updated account, got %+v", got)
	}

	c, rec = newJSONContext(http.MethodDelete, "/api/v1/accounts/x", "")
	withID(c, account.ID.String())
	if err := h.DeleteAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if len(accounts.GetAccounts()) != 0 {
		t.Error("Expected account to be deleted")
	}
}
