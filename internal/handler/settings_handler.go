package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/rs/zerolog/log"
)

// SettingsHandler handles preferences and display currency
type SettingsHandler struct {
	settingsService *service.SettingsService
	currencyService *service.CurrencyService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService, currencyService *service.CurrencyService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		currencyService: currencyService,
	}
}

// UpdateSettingsRequest changes any subset of the preferences
type UpdateSettingsRequest struct {
	SavingsGoal *string `json:"savingsGoal"`
	Currency    *string `json:"currency"`
	Lang        *string `json:"lang"`
	Theme       *string `json:"theme"`
}

// FormatResponse is an amount rendered in the active currency
type FormatResponse struct {
	Currency  domain.Currency `json:"currency"`
	Converted string          `json:"converted"`
	Formatted string          `json:"formatted"`
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.GetSettings())
}

// UpdateSettings handles PATCH /api/v1/settings. Each field is validated
// before anything is written.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	goal, verr := parseOptionalDecimal("savingsGoal", req.SavingsGoal)
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}
	var errs []ValidationError
	if goal != nil && !goal.IsPositive() {
		errs = append(errs, ValidationError{Field: "savingsGoal", Message: domain.ErrInvalidTarget.Error()})
	}
	if req.Currency != nil && !domain.Currency(*req.Currency).Valid() {
		errs = append(errs, ValidationError{Field: "currency", Message: domain.ErrInvalidCurrency.Error()})
	}
	if req.Lang != nil && !domain.SupportedLangs[*req.Lang] {
		errs = append(errs, ValidationError{Field: "lang", Message: domain.ErrInvalidLang.Error()})
	}
	if req.Theme != nil && domain.Theme(*req.Theme) != domain.ThemeLight && domain.Theme(*req.Theme) != domain.ThemeDark {
		errs = append(errs, ValidationError{Field: "theme", Message: domain.ErrInvalidTheme.Error()})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	var err error
	if goal != nil {
		_, err = h.settingsService.SetSavingsGoal(*goal)
	}
	if err == nil && req.Currency != nil {
		_, err = h.settingsService.SetCurrency(domain.Currency(*req.Currency))
	}
	if err == nil && req.Lang != nil {
		_, err = h.settingsService.SetLang(*req.Lang)
	}
	if err == nil && req.Theme != nil {
		_, err = h.settingsService.SetTheme(domain.Theme(*req.Theme))
	}
	if err != nil {
		return respondServiceError(c, err, "Failed to update settings")
	}

	settings := h.settingsService.GetSettings()
	log.Info().
		Str("currency", string(settings.Currency)).
		Str("lang", settings.Lang).
		Str("theme", string(settings.Theme)).
		Msg("Settings updated")
	return c.JSON(http.StatusOK, settings)
}

// GetCurrency handles GET /api/v1/currency
func (h *SettingsHandler) GetCurrency(c echo.Context) error {
	return c.JSON(http.StatusOK, h.currencyService.GetCurrencyData())
}

// FormatAmount handles GET /api/v1/currency/format?amount=
func (h *SettingsHandler) FormatAmount(c echo.Context) error {
	amount, verr := parseDecimalField("amount", c.QueryParam("amount"))
	if verr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*verr})
	}

	data := h.currencyService.GetCurrencyData()
	return c.JSON(http.StatusOK, FormatResponse{
		Currency:  data.Current,
		Converted: h.currencyService.Convert(amount).String(),
		Formatted: h.currencyService.Format(amount),
	})
}
