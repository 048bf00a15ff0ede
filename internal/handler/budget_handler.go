package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/websocket"
	"github.com/rs/zerolog/log"
)

// BudgetHandler handles monthly category budget requests
type BudgetHandler struct {
	budgetService *service.BudgetService
	publisher     websocket.EventPublisher
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, publisher websocket.EventPublisher) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		publisher:     publisher,
	}
}

// BudgetRequest represents the create/update budget request body
type BudgetRequest struct {
	Category string `json:"category"`
	Limit    string `json:"limit"`
}

func (h *BudgetHandler) bindBudget(c echo.Context) (service.BudgetInput, []ValidationError, error) {
	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return service.BudgetInput{}, nil, err
	}
	limit, verr := parseDecimalField("limit", req.Limit)
	if verr != nil {
		return service.BudgetInput{}, []ValidationError{*verr}, nil
	}
	return service.BudgetInput{Category: req.Category, Limit: limit}, nil, nil
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	input, verrs, err := h.bindBudget(c)
	if err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(verrs) > 0 {
		return NewValidationError(c, "Validation failed", verrs)
	}

	budget, err := h.budgetService.CreateBudget(input)
	if err != nil {
		return respondServiceError(c, err, "Failed to create budget")
	}

	log.Info().Str("budget_id", budget.ID.String()).Str("category", budget.Category).Msg("Budget created")
	h.publisher.Publish(websocket.BudgetUpdated(budget))
	return c.JSON(http.StatusCreated, budget)
}

// GetBudgets handles GET /api/v1/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	return c.JSON(http.StatusOK, h.budgetService.GetBudgets())
}

// GetBudgetStatuses handles GET /api/v1/budgets/status
func (h *BudgetHandler) GetBudgetStatuses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.budgetService.GetBudgetStatuses())
}

// CheckBudgets handles POST /api/v1/budgets/check. Alerts are delivered as
// notifications; the response carries the current statuses.
func (h *BudgetHandler) CheckBudgets(c echo.Context) error {
	h.budgetService.CheckBudgets()
	return c.JSON(http.StatusOK, h.budgetService.GetBudgetStatuses())
}

// UpdateBudget handles PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	input, verrs, err := h.bindBudget(c)
	if err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(verrs) > 0 {
		return NewValidationError(c, "Validation failed", verrs)
	}

	budget, err := h.budgetService.UpdateBudget(id, input)
	if err != nil {
		return respondServiceError(c, err, "Failed to update budget")
	}

	log.Info().Str("budget_id", budget.ID.String()).Msg("Budget updated")
	h.publisher.Publish(websocket.BudgetUpdated(budget))
	return c.JSON(http.StatusOK, budget)
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(id); err != nil {
		return respondServiceError(c, err, "Failed to delete budget")
	}

	log.Info().Str("budget_id", id.String()).Msg("Budget deleted")
	return c.NoContent(http.StatusNoContent)
}
