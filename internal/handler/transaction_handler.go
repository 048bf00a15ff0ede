package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/websocket"
	"github.com/rs/zerolog/log"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	publisher          websocket.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, publisher websocket.EventPublisher) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		publisher:          publisher,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Date        *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Category    string  `json:"category"`
	Description string  `json:"description"`
	AccountID   string  `json:"accountId"`
	Contact     *string `json:"contact,omitempty"`
}

// UpdateTransactionRequest represents the update transaction request body.
// Omitted fields keep their current value.
type UpdateTransactionRequest struct {
	Type        *string `json:"type"`
	Amount      *string `json:"amount"`
	Date        *string `json:"date"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	AccountID   *string `json:"accountId"`
	Contact     *string `json:"contact"`
}

// RecordPaymentRequest represents a partial or full repayment
type RecordPaymentRequest struct {
	Amount string `json:"amount"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, amountErr := parseDecimalField("amount", req.Amount)
	date, dateErr := parseOptionalDate("date", req.Date)
	accountID, accountErr := uuid.Parse(req.AccountID)
	errs := collect(amountErr, dateErr)
	if accountErr != nil {
		errs = append(errs, ValidationError{Field: "accountId", Message: "Must be a valid ID"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	tx, err := h.transactionService.CreateTransaction(service.CreateTransactionInput{
		Type:        domain.TransactionType(req.Type),
		Amount:      amount,
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
		AccountID:   accountID,
		Contact:     req.Contact,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to create transaction")
	}

	log.Info().
		Str("transaction_id", tx.ID.String()).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.String()).
		Msg("Transaction created")
	h.publisher.Publish(websocket.TransactionCreated(tx))
	return c.JSON(http.StatusCreated, tx)
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	filters := &domain.TransactionFilters{
		Search: strings.TrimSpace(c.QueryParam("search")),
	}

	if v := c.QueryParam("accountId"); v != "" {
		id, verr := parseOptionalUUID("accountId", &v)
		if verr != nil {
			return NewValidationError(c, "Invalid accountId", []ValidationError{*verr})
		}
		filters.AccountID = id
	}

	if v := c.QueryParam("type"); v != "" {
		txType := domain.TransactionType(v)
		if !txType.Valid() {
			return NewValidationError(c, "Invalid type (must be income, expense, debt or receivable)", nil)
		}
		filters.Type = &txType
	}

	if v := c.QueryParam("category"); v != "" {
		filters.Category = &v
	}

	startDate := c.QueryParam("startDate")
	start, verr := parseOptionalDate("startDate", &startDate)
	if verr != nil {
		return NewValidationError(c, "Invalid startDate format (use YYYY-MM-DD)", nil)
	}
	filters.StartDate = start

	endDate := c.QueryParam("endDate")
	end, verr := parseOptionalDate("endDate", &endDate)
	if verr != nil {
		return NewValidationError(c, "Invalid endDate format (use YYYY-MM-DD)", nil)
	}
	filters.EndDate = end

	return c.JSON(http.StatusOK, h.transactionService.GetTransactions(filters))
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	tx, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to get transaction")
	}
	return c.JSON(http.StatusOK, tx)
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, amountErr := parseOptionalDecimal("amount", req.Amount)
	date, dateErr := parseOptionalDate("date", req.Date)
	accountID, accountErr := parseOptionalUUID("accountId", req.AccountID)
	if errs := collect(amountErr, dateErr, accountErr); len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	input := service.UpdateTransactionInput{
		Amount:      amount,
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
		AccountID:   accountID,
		Contact:     req.Contact,
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		input.Type = &t
	}

	tx, err := h.transactionService.UpdateTransaction(id, input)
	if err != nil {
		return respondServiceError(c, err, "Failed to update transaction")
	}

	log.Info().Str("transaction_id", tx.ID.String()).Msg("Transaction updated")
	h.publisher.Publish(websocket.TransactionUpdated(tx))
	return c.JSON(http.StatusOK, tx)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		return respondServiceError(c, err, "Failed to delete transaction")
	}

	log.Info().Str("transaction_id", id.String()).Msg("Transaction deleted")
	h.publisher.Publish(websocket.TransactionDeleted(map[string]string{"id": id.String()}))
	return c.NoContent(http.StatusNoContent)
}

// ClearTransactions handles DELETE /api/v1/transactions
func (h *TransactionHandler) ClearTransactions(c echo.Context) error {
	if err := h.transactionService.ClearTransactions(); err != nil {
		return respondServiceError(c, err, "Failed to clear transactions")
	}

	log.Warn().Msg("All transactions cleared")
	h.publisher.Publish(websocket.TransactionsCleared())
	return c.NoContent(http.StatusNoContent)
}

// RecordPayment handles POST /api/v1/transactions/:id/payments
func (h *TransactionHandler) RecordPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, verr := parseDecimalField("amount", req.Amount)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	result, err := h.transactionService.RecordPayment(id, amount)
	if err != nil {
		return respondServiceError(c, err, "Failed to record payment")
	}

	log.Info().
		Str("transaction_id", id.String()).
		Str("amount", amount.String()).
		Bool("settled", result.Obligation.IsPaid).
		Msg("Payment recorded")
	h.publisher.Publish(websocket.TransactionUpdated(result.Obligation))
	h.publisher.Publish(websocket.TransactionCreated(result.Payment))
	return c.JSON(http.StatusCreated, result)
}
