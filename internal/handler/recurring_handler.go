package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/mhyu96-glitch/finance-app/internal/websocket"
	"github.com/rs/zerolog/log"
)

// RecurringHandler handles recurring commitment HTTP requests
type RecurringHandler struct {
	recurringService  *service.RecurringService
	attachmentService *service.AttachmentService
	publisher         websocket.EventPublisher
}

// NewRecurringHandler creates a new RecurringHandler. The attachment service
// stores optional proof images for manual installment payments.
func NewRecurringHandler(recurringService *service.RecurringService, attachmentService *service.AttachmentService, publisher websocket.EventPublisher) *RecurringHandler {
	return &RecurringHandler{
		recurringService:  recurringService,
		attachmentService: attachmentService,
		publisher:         publisher,
	}
}

// CreateRecurringRequest represents the create recurring commitment request body
type CreateRecurringRequest struct {
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Contact     *string `json:"contact,omitempty"`
	AccountID   string  `json:"accountId"`
	Frequency   string  `json:"frequency"`
	Tenor       int     `json:"tenor"` // 0 = no end
	RecordFirst bool    `json:"recordFirst"`
}

// InstallmentPlanRequest represents a purchase paid by down payment plus installments
type InstallmentPlanRequest struct {
	Type        string  `json:"type,omitempty"` // defaults to expense
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Contact     *string `json:"contact,omitempty"`
	AccountID   string  `json:"accountId"`
	Frequency   string  `json:"frequency"`
	TotalPrice  string  `json:"totalPrice"`
	DPAmount    string  `json:"dpAmount,omitempty"`
	Tenor       int     `json:"tenor"`
}

// UpdateRecurringRequest represents the update recurring commitment request body
type UpdateRecurringRequest struct {
	Type        *string `json:"type"`
	Amount      *string `json:"amount"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Contact     *string `json:"contact"`
	AccountID   *string `json:"accountId"`
	Frequency   *string `json:"frequency"`
	Tenor       *int    `json:"tenor"`
	TotalPrice  *string `json:"totalPrice"`
	DPAmount    *string `json:"dpAmount"`
}

// ProcessResponse reports the outcome of a manual recurring pass
type ProcessResponse struct {
	Added     bool                         `json:"added"`
	Remaining []domain.RecurringCommitment `json:"remaining"`
}

// CreateRecurring handles POST /api/v1/recurring
func (h *RecurringHandler) CreateRecurring(c echo.Context) error {
	var req CreateRecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, amountErr := parseDecimalField("amount", req.Amount)
	errs := collect(amountErr)
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		errs = append(errs, ValidationError{Field: "accountId", Message: "Must be a valid ID"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	rc, err := h.recurringService.CreateRecurring(service.CreateRecurringInput{
		Type:        domain.TransactionType(req.Type),
		Amount:      amount,
		Description: req.Description,
		Category:    req.Category,
		Contact:     req.Contact,
		AccountID:   accountID,
		Frequency:   domain.Frequency(req.Frequency),
		Tenor:       req.Tenor,
		RecordFirst: req.RecordFirst,
	})
	if err != nil {
		return respondServiceError(c, err, "Failed to create recurring commitment")
	}

	log.Info().
		Str("recurring_id", rc.ID.String()).
		Str("frequency", string(rc.Frequency)).
		Int("tenor", rc.Tenor).
		Bool("record_first", req.RecordFirst).
		Msg("Recurring commitment created")
	h.publisher.Publish(websocket.RecurringCreated(rc))
	return c.JSON(http.StatusCreated, rc)
}

// CreateInstallmentPlan handles POST /api/v1/recurring/installments
func (h *RecurringHandler) CreateInstallmentPlan(c echo.Context) error {
	var req InstallmentPlanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalPrice, totalErr := parseDecimalField("totalPrice", req.TotalPrice)
	dp, dpErr := parseOptionalDecimal("dpAmount", &req.DPAmount)
	errs := collect(totalErr, dpErr)
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		errs = append(errs, ValidationError{Field: "accountId", Message: "Must be a valid ID"})
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	input := service.InstallmentPlanInput{
		Type:        domain.TransactionType(req.Type),
		Description: req.Description,
		Category:    req.Category,
		Contact:     req.Contact,
		AccountID:   accountID,
		Frequency:   domain.Frequency(req.Frequency),
		TotalPrice:  totalPrice,
		Tenor:       req.Tenor,
	}
	if dp != nil {
		input.DPAmount = *dp
	}

	result, err := h.recurringService.CreateInstallmentPlan(input)
	if err != nil {
		return respondServiceError(c, err, "Failed to create installment plan")
	}

	log.Info().
		Str("recurring_id", result.Commitment.ID.String()).
		Str("installment", result.Commitment.Amount.String()).
		Msg("Installment plan created")
	h.publisher.Publish(websocket.RecurringCreated(result.Commitment))
	if result.DownPayment != nil {
		h.publisher.Publish(websocket.TransactionCreated(result.DownPayment))
	}
	return c.JSON(http.StatusCreated, result)
}

// GetRecurring handles GET /api/v1/recurring
func (h *RecurringHandler) GetRecurring(c echo.Context) error {
	return c.JSON(http.StatusOK, h.recurringService.GetRecurring())
}

// GetRecurringByID handles GET /api/v1/recurring/:id
func (h *RecurringHandler) GetRecurringByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid recurring ID", nil)
	}

	rc, err := h.recurringService.GetRecurringByID(id)
	if err != nil {
		return respondServiceError(c, err, "Failed to get recurring commitment")
	}
	return c.JSON(http.StatusOK, rc)
}

// UpdateRecurring handles PUT /api/v1/recurring/:id
func (h *RecurringHandler) UpdateRecurring(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid recurring ID", nil)
	}

	var req UpdateRecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, amountErr := parseOptionalDecimal("amount", req.Amount)
	totalPrice, totalErr := parseOptionalDecimal("totalPrice", req.TotalPrice)
	dp, dpErr := parseOptionalDecimal("dpAmount", req.DPAmount)
	accountID, accountErr := parseOptionalUUID("accountId", req.AccountID)
	if errs := collect(amountErr, totalErr, dpErr, accountErr); len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	input := service.UpdateRecurringInput{
		Amount:      amount,
		Description: req.Description,
		Category:    req.Category,
		Contact:     req.Contact,
		AccountID:   accountID,
		Tenor:       req.Tenor,
		TotalPrice:  totalPrice,
		DPAmount:    dp,
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		input.Type = &t
	}
	if req.Frequency != nil {
		f := domain.Frequency(*req.Frequency)
		input.Frequency = &f
	}

	rc, err := h.recurringService.UpdateRecurring(id, input)
	if err != nil {
		return respondServiceError(c, err, "Failed to update recurring commitment")
	}

	log.Info().Str("recurring_id", rc.ID.String()).Msg("Recurring commitment updated")
	h.publisher.Publish(websocket.RecurringUpdated(rc))
	return c.JSON(http.StatusOK, rc)
}

// DeleteRecurring handles DELETE /api/v1/recurring/:id
func (h *RecurringHandler) DeleteRecurring(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid recurring ID", nil)
	}

	if err := h.recurringService.DeleteRecurring(id); err != nil {
		return respondServiceError(c, err, "Failed to delete recurring commitment")
	}

	log.Info().Str("recurring_id", id.String()).Msg("Recurring commitment deleted")
	h.publisher.Publish(websocket.RecurringDeleted(map[string]string{"id": id.String()}))
	return c.NoContent(http.StatusNoContent)
}

// ProcessDue handles POST /api/v1/recurring/process
func (h *RecurringHandler) ProcessDue(c echo.Context) error {
	added, err := h.recurringService.ProcessDueNow()
	if err != nil {
		return respondServiceError(c, err, "Failed to process recurring commitments")
	}

	remaining := h.recurringService.GetRecurring()
	if added {
		h.publisher.Publish(websocket.RecurringProcessed(remaining))
	}
	return c.JSON(http.StatusOK, ProcessResponse{Added: added, Remaining: remaining})
}

// PayInstallment handles POST /api/v1/recurring/:id/payments. The body is
// empty or multipart with an optional proof image in "file".
func (h *RecurringHandler) PayInstallment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid recurring ID", nil)
	}

	var (
		proof    []byte
		filename string
	)
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if file, err := c.FormFile("file"); err == nil {
			if !h.attachmentService.IsEnabled() {
				return NewServiceUnavailableError(c, "Attachments are disabled (storage not configured)")
			}
			if file.Size > service.MaxImageSize {
				message, _ := imageValidationMessage(service.ErrImageTooLarge)
				return NewValidationError(c, "Validation failed", []ValidationError{{Field: "file", Message: message}})
			}
			src, err := file.Open()
			if err != nil {
				log.Error().Err(err).Msg("Failed to open uploaded proof")
				return NewInternalError(c, "Failed to process file")
			}
			proof, err = io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
			src.Close()
			if err != nil {
				log.Error().Err(err).Msg("Failed to read uploaded proof")
				return NewInternalError(c, "Failed to read file")
			}
			if err := h.attachmentService.ValidateImage(proof, file.Filename); err != nil {
				message, _ := imageValidationMessage(err)
				return NewValidationError(c, "Validation failed", []ValidationError{{Field: "file", Message: message}})
			}
			filename = file.Filename
		}
	}

	result, err := h.recurringService.PayInstallment(id, nil)
	if err != nil {
		return respondServiceError(c, err, "Failed to record installment payment")
	}

	if proof != nil {
		tx, err := h.attachmentService.Attach(c.Request().Context(), result.Payment.ID, proof, filename)
		if err != nil {
			log.Warn().Err(err).Str("transaction_id", result.Payment.ID.String()).Msg("Installment recorded without proof")
		} else {
			result.Payment = *tx
		}
	}

	log.Info().
		Str("recurring_id", id.String()).
		Str("transaction_id", result.Payment.ID.String()).
		Bool("fulfilled", result.Fulfilled).
		Msg("Installment paid")
	h.publisher.Publish(websocket.TransactionCreated(result.Payment))
	if result.Fulfilled {
		h.publisher.Publish(websocket.RecurringDeleted(map[string]string{"id": id.String()}))
	} else {
		h.publisher.Publish(websocket.RecurringUpdated(result.Commitment))
	}
	return c.JSON(http.StatusCreated, result)
}
