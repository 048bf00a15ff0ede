package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/rs/zerolog/log"
)

// InvestmentHandler handles investment holding requests
type InvestmentHandler struct {
	investmentService  *service.InvestmentService
	calculationService *service.CalculationService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *service.InvestmentService, calculationService *service.CalculationService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService:  investmentService,
		calculationService: calculationService,
	}
}

// CreateInvestmentRequest represents the create investment request body
type CreateInvestmentRequest struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Price    string  `json:"price"`
	BuyPrice *string `json:"buy_price,omitempty"`
	Date     *string `json:"date,omitempty"`
}

// UpdateInvestmentRequest represents the update investment request body
type UpdateInvestmentRequest struct {
	Type     *string `json:"type"`
	Name     *string `json:"name"`
	Quantity *string `json:"quantity"`
	Price    *string `json:"price"`
	BuyPrice *string `json:"buy_price"`
}

// CreateInvestment handles POST /api/v1/investments
func (h *InvestmentHandler) CreateInvestment(c echo.Context) error {
	var req CreateInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	quantity, quantityErr := parseDecimalField("quantity", req.Quantity)
	price, priceErr := parseDecimalField("price", req.Price)
	buyPrice, buyErr := parseOptionalDecimal("buy_price", req.BuyPrice)
	date, dateErr := parseOptionalDate("date", req.Date)
	if errs := collect(quantityErr, priceErr, buyErr, dateErr); len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	inv, err := h.investmentService.CreateInvestment(service.CreateInvestmentInput{
		Type:     req.Type,
		Name:     req.Name,
		Quantity: quantity,
		Price:    price,
		BuyPrice: buyPrice,
		Date:     date,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to create investment")
	}

	log.Info().Str("investment_id", inv.ID.String()).Str("name", inv.Name).Msg("Investment created")
	return c.JSON(http.StatusCreated, inv)
}

// GetInvestments handles GET /api/v1/investments
func (h *InvestmentHandler) GetInvestments(c echo.Context) error {
	return c.JSON(http.StatusOK, h.investmentService.GetInvestments())
}

// GetInvestmentSummaries handles GET /api/v1/investments/summary
func (h *InvestmentHandler) GetInvestmentSummaries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.calculationService.GetInvestmentSummaries())
}

// UpdateInvestment handles PUT /api/v1/investments/:id
func (h *InvestmentHandler) UpdateInvestment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid investment ID", nil)
	}

	var req UpdateInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	quantity, quantityErr := parseOptionalDecimal("quantity", req.Quantity)
	price, priceErr := parseOptionalDecimal("price", req.Price)
	buyPrice, buyErr := parseOptionalDecimal("buy_price", req.BuyPrice)
	if errs := collect(quantityErr, priceErr, buyErr); len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	inv, err := h.investmentService.UpdateInvestment(id, service.UpdateInvestmentInput{
		Type:     req.Type,
		Name:     req.Name,
		Quantity: quantity,
		Price:    price,
		BuyPrice: buyPrice,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to update investment")
	}

	log.Info().Str("investment_id", inv.ID.String()).Msg("Investment updated")
	return c.JSON(http.StatusOK, inv)
}

// DeleteInvestment handles DELETE /api/v1/investments/:id
func (h *InvestmentHandler) DeleteInvestment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid investment ID", nil)
	}

	if err := h.investmentService.DeleteInvestment(id); err != nil {
		return respondServiceError(c, err, "Failed to delete investment")
	}

	log.Info().Str("investment_id", id.String()).Msg("Investment deleted")
	return c.NoContent(http.StatusNoContent)
}
