package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
	publisher      websocket.EventPublisher
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService, publisher websocket.EventPublisher) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		publisher:      publisher,
	}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance string `json:"balance,omitempty"`
	Color   string `json:"color,omitempty"`
}

// UpdateAccountRequest represents the update account request body
type UpdateAccountRequest struct {
	Name  *string `json:"name"`
	Type  *string `json:"type"`
	Color *string `json:"color"`
}

// AdjustBalanceRequest represents a manual balance correction
type AdjustBalanceRequest struct {
	Change string `json:"change"`
}

// AccountListResponse wraps accounts with their combined balance
type AccountListResponse struct {
	Accounts     []domain.Account `json:"accounts"`
	TotalBalance decimal.Decimal  `json:"totalBalance"`
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	balance := decimal.Zero
	if req.Balance != "" {
		parsed, verr := parseDecimalField("balance", req.Balance)
		if verr != nil {
			return NewValidationError(c, "Invalid balance", []ValidationError{*verr})
		}
		balance = parsed
	}

	account, err := h.accountService.CreateAccount(service.CreateAccountInput{
		Name:    req.Name,
		Type:    domain.AccountType(req.Type),
		Balance: balance,
		Color:   req.Color,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to create account")
	}

	log.Info().Str("account_id", account.ID.String()).Str("name", account.Name).Msg("Account created")
	h.publisher.Publish(websocket.AccountUpdated(account))
	return c.JSON(http.StatusCreated, account)
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	accounts := h.accountService.GetAccounts()
	return c.JSON(http.StatusOK, AccountListResponse{
		Accounts:     accounts,
		TotalBalance: h.accountService.GetTotalBalance(),
	})
}

// GetAccount handles GET /api/v1/accounts/:id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	account, err := h.accountService.GetAccountByID(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to get account")
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateAccount handles PUT /api/v1/accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateAccountInput{Name: req.Name, Color: req.Color}
	if req.Type != nil {
		t := domain.AccountType(*req.Type)
		input.Type = &t
	}

	account, err := h.accountService.UpdateAccount(id, input)
	if err != nil {
		return respondServiceError(c, err, "Failed to update account")
	}

	log.Info().Str("account_id", account.ID.String()).Msg("Account updated")
	h.publisher.Publish(websocket.AccountUpdated(account))
	return c.JSON(http.StatusOK, account)
}

// AdjustBalance handles POST /api/v1/accounts/:id/balance
func (h *AccountHandler) AdjustBalance(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req AdjustBalanceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	change, verr := parseDecimalField("change", req.Change)
	if verr != nil {
		return NewValidationError(c, "Invalid balance change", []ValidationError{*verr})
	}

	account, err := h.accountService.UpdateBalance(id, change)
	if err != nil {
		return respondServiceError(c, err, "Failed to adjust balance")
	}

	log.Info().Str("account_id", account.ID.String()).Str("change", change.String()).Msg("Account balance adjusted")
	h.publisher.Publish(websocket.AccountUpdated(account))
	return c.JSON(http.StatusOK, account)
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	if err := h.accountService.DeleteAccount(id); err != nil {
		return respondServiceError(c, err, "Failed to delete account")
	}

	log.Info().Str("account_id", id.String()).Msg("Account deleted")
	return c.NoContent(http.StatusNoContent)
}
