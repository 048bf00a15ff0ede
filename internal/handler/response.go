package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://finance-app.dev/errors/validation"
	ErrorTypeNotFound     = "https://finance-app.dev/errors/not-found"
	ErrorTypeUnauthorized = "https://finance-app.dev/errors/unauthorized"
	ErrorTypeConflict     = "https://finance-app.dev/errors/conflict"
	ErrorTypeUnavailable  = "https://finance-app.dev/errors/service-unavailable"
	ErrorTypeInternal     = "https://finance-app.dev/errors/internal"
)

// dateLayout is the wire format for calendar dates
const dateLayout = "2006-01-02"

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldErrors maps input validation failures to the request field at fault
var fieldErrors = []struct {
	err   error
	field string
}{
	{domain.ErrNameRequired, "name"},
	{domain.ErrNameTooLong, "name"},
	{domain.ErrDescriptionRequired, "description"},
	{domain.ErrInvalidAmount, "amount"},
	{domain.ErrInvalidTransactionType, "type"},
	{domain.ErrInvalidFrequency, "frequency"},
	{domain.ErrInvalidTenor, "tenor"},
	{domain.ErrInvalidLimit, "limit"},
	{domain.ErrInvalidTarget, "target"},
	{domain.ErrInvalidQuantity, "quantity"},
	{domain.ErrInvalidPrice, "price"},
	{domain.ErrCategoryRequired, "category"},
	{domain.ErrInvalidCurrency, "currency"},
	{domain.ErrInvalidLang, "lang"},
	{domain.ErrInvalidTheme, "theme"},
	{domain.ErrInvalidBackup, "file"},
}

// conflictErrors are rule violations against the current ledger state
var conflictErrors = []error{
	domain.ErrNotObligation,
	domain.ErrAlreadyPaid,
	domain.ErrOverpayment,
	domain.ErrAmountBelowPaid,
	domain.ErrCommitmentFulfilled,
}

var notFoundErrors = []error{
	domain.ErrNotFound,
	domain.ErrTransactionNotFound,
	domain.ErrAccountNotFound,
	domain.ErrBudgetNotFound,
	domain.ErrInvestmentNotFound,
	domain.ErrGoalNotFound,
	domain.ErrRecurringNotFound,
}

// respondServiceError renders a service error as a problem response.
// Unrecognized errors are logged and reported as internal errors with the
// given fallback detail.
func respondServiceError(c echo.Context, err error, fallback string) error {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: fe.field, Message: fe.err.Error()},
			})
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return NewNotFoundError(c, target.Error())
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return NewConflictError(c, target.Error())
		}
	}
	if errors.Is(err, domain.ErrStorageNotConfigured) {
		return NewServiceUnavailableError(c, "Object storage is not configured")
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(fallback)
	return NewInternalError(c, fallback)
}

// parseID reads a UUID path parameter
func parseID(c echo.Context, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(param))
}

// parseDecimalField parses a required decimal request field
func parseDecimalField(field, value string) (decimal.Decimal, *ValidationError) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Message: "Must be a valid decimal number"}
	}
	return d, nil
}

// parseOptionalDecimal parses an optional decimal request field
func parseOptionalDecimal(field string, value *string) (*decimal.Decimal, *ValidationError) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, verr := parseDecimalField(field, *value)
	if verr != nil {
		return nil, verr
	}
	return &d, nil
}

// parseOptionalDate parses an optional YYYY-MM-DD request field
func parseOptionalDate(field string, value *string) (*time.Time, *ValidationError) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "Must be a date in YYYY-MM-DD format"}
	}
	return &parsed, nil
}

// parseOptionalUUID parses an optional UUID request field
func parseOptionalUUID(field string, value *string) (*uuid.UUID, *ValidationError) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "Must be a valid ID"}
	}
	return &id, nil
}

// collect drops nil entries from a list of parse results
func collect(errs ...*ValidationError) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}
