package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/middleware"
	"github.com/coinsage/coinsage-backend/internal/service"
	"github.com/coinsage/coinsage-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	budgetService      *service.BudgetService
	publisher          websocket.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, budgetService *service.BudgetService, publisher websocket.EventPublisher) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		budgetService:      budgetService,
		publisher:          publisher,
	}
}

// TransactionRequest is the create/update/restore request body
type TransactionRequest struct {
	ID       *string `json:"id,omitempty"`
	Title    string  `json:"title"`
	Amount   string  `json:"amount"`
	Category string  `json:"category"`
	Date     *string `json:"date,omitempty"`
	Type     string  `json:"type"`
	Notes    *string `json:"notes,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Amount   string  `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Notes    *string `json:"notes,omitempty"`
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:       tx.ID.String(),
		Title:    tx.Title,
		Amount:   tx.Amount.StringFixed(domain.AmountScale),
		Category: string(tx.Category),
		Date:     tx.Date.Format(time.RFC3339),
		Type:     string(tx.Type),
		Notes:    tx.Notes,
	}
}

var (
	errUnparseableAmount = errors.New("amount is not a valid decimal number")
	errUnparseableDate   = errors.New("date is not RFC 3339 formatted")
)

// parseTransactionInput converts the request body into a service input. It
// never writes to the response; the handler maps the returned sentinel to a
// single problem document.
func parseTransactionInput(req TransactionRequest) (service.TransactionInput, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return service.TransactionInput{}, errUnparseableAmount
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return service.TransactionInput{}, errUnparseableDate
		}
		date = &parsed
	}

	return service.TransactionInput{
		Title:    req.Title,
		Amount:   amount,
		Category: domain.Category(req.Category),
		Date:     date,
		Type:     domain.TransactionType(req.Type),
		Notes:    req.Notes,
	}, nil
}

func parseError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errUnparseableAmount):
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	case errors.Is(err, errUnparseableDate):
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be RFC 3339 formatted"},
		})
	default:
		return NewValidationError(c, "Invalid request body", nil)
	}
}

func (h *TransactionHandler) serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrNotesTooLong),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		return NewConflictError(c, "Transaction already exists")
	default:
		log.Error().Err(err).Msg("Transaction operation failed")
		return NewInternalError(c, "Transaction operation failed")
	}
}

// recalculate re-runs budget progress and threshold alerts after a mutation.
func (h *TransactionHandler) recalculate(userID uuid.UUID) {
	if _, err := h.budgetService.Recalculate(userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to recalculate budget progress")
	}
}

// GetTransactions lists the user's transactions, newest first
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	transactions, err := h.transactionService.GetTransactions(userID)
	if err != nil {
		return h.serviceError(c, err)
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, toTransactionResponse(&transactions[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

// CreateTransaction logs a new transaction
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := parseTransactionInput(req)
	if err != nil {
		return parseError(c, err)
	}

	tx, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		return h.serviceError(c, err)
	}

	response := toTransactionResponse(tx)
	h.publisher.Publish(userID, websocket.TransactionCreated(response))
	h.recalculate(userID)

	return c.JSON(http.StatusCreated, response)
}

// UpdateTransaction fully replaces a transaction, keeping its ID
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := parseTransactionInput(req)
	if err != nil {
		return parseError(c, err)
	}

	tx, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		return h.serviceError(c, err)
	}

	response := toTransactionResponse(tx)
	h.publisher.Publish(userID, websocket.TransactionUpdated(response))
	h.recalculate(userID)

	return c.JSON(http.StatusOK, response)
}

// DeleteTransaction removes a transaction and returns the removed record so
// the client can offer an undo
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	tx, err := h.transactionService.DeleteTransaction(userID, id)
	if err != nil {
		return h.serviceError(c, err)
	}

	response := toTransactionResponse(tx)
	h.publisher.Publish(userID, websocket.TransactionDeleted(response))
	h.recalculate(userID)

	return c.JSON(http.StatusOK, response)
}

// RestoreTransaction reverses a delete using the record the delete returned
func (h *TransactionHandler) RestoreTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.ID == nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "id", Message: "Transaction ID is required"},
		})
	}

	id, err := uuid.Parse(*req.ID)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	input, err := parseTransactionInput(req)
	if err != nil {
		return parseError(c, err)
	}

	date := time.Time{}
	if input.Date != nil {
		date = *input.Date
	}

	tx, err := h.transactionService.RestoreTransaction(userID, domain.Transaction{
		ID:       id,
		Title:    input.Title,
		Amount:   input.Amount,
		Category: input.Category,
		Date:     date,
		Type:     input.Type,
		Notes:    input.Notes,
	})
	if err != nil {
		return h.serviceError(c, err)
	}

	response := toTransactionResponse(tx)
	h.publisher.Publish(userID, websocket.TransactionRestored(response))
	h.recalculate(userID)

	return c.JSON(http.StatusCreated, response)
}
