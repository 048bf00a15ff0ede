package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/service"
)

// DashboardHandler serves the derived metrics
type DashboardHandler struct {
	dashboardService   *service.DashboardService
	calculationService *service.CalculationService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, calculationService *service.CalculationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:   dashboardService,
		calculationService: calculationService,
	}
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboardService.GetSummary())
}

// GetTotals handles GET /api/v1/dashboard/totals
func (h *DashboardHandler) GetTotals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.calculationService.GetTotals())
}

// GetHealth handles GET /api/v1/dashboard/health
func (h *DashboardHandler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, h.calculationService.GetHealthBreakdown())
}
