package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/rs/zerolog/log"
)

// GoalHandler handles savings goal requests
type GoalHandler struct {
	goalService        *service.GoalService
	calculationService *service.CalculationService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService, calculationService *service.CalculationService) *GoalHandler {
	return &GoalHandler{
		goalService:        goalService,
		calculationService: calculationService,
	}
}

// CreateGoalRequest represents the create goal request body
type CreateGoalRequest struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// UpdateGoalRequest represents the update goal request body
type UpdateGoalRequest struct {
	Name   *string `json:"name"`
	Target *string `json:"target"`
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	target, verr := parseDecimalField("target", req.Target)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	goal, err := h.goalService.CreateGoal(service.GoalInput{Name: req.Name, Target: target})
	if err != nil {
		return respondServiceError(c, err, "Failed to create goal")
	}

	log.Info().Str("goal_id", goal.ID.String()).Str("name", goal.Name).Msg("Goal created")
	return c.JSON(http.StatusCreated, goal)
}

// GetGoals handles GET /api/v1/goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.goalService.GetGoals())
}

// GetGoalProgress handles GET /api/v1/goals/progress
func (h *GoalHandler) GetGoalProgress(c echo.Context) error {
	return c.JSON(http.StatusOK, h.calculationService.GetGoalProgress())
}

// UpdateGoal handles PUT /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	target, verr := parseOptionalDecimal("target", req.Target)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	goal, err := h.goalService.UpdateGoal(id, service.UpdateGoalInput{Name: req.Name, Target: target})
	if err != nil {
		return respondServiceError(c, err, "Failed to update goal")
	}
	return c.JSON(http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(id); err != nil {
		return respondServiceError(c, err, "Failed to delete goal")
	}
	return c.NoContent(http.StatusNoContent)
}
