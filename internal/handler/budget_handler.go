package handler

import (
	"errors"
	"net/http"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/middleware"
	"github.com/coinsage/coinsage-backend/internal/service"
	"github.com/coinsage/coinsage-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles monthly budget HTTP requests
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

// SetBudgetRequest is the budget update request body
type SetBudgetRequest struct {
	Amount string `json:"amount"`
}

// BudgetResponse carries the budget amount and current-month progress
type BudgetResponse struct {
	Amount   string `json:"amount"`
	Spent    string `json:"spent"`
	Progress string `json:"progress"`
}

func toBudgetResponse(status *service.BudgetStatus) BudgetResponse {
	return BudgetResponse{
		Amount:   status.Amount.StringFixed(domain.AmountScale),
		Spent:    status.Spent.StringFixed(domain.AmountScale),
		Progress: status.Progress.StringFixed(domain.AmountScale),
	}
}

// SummaryResponse carries the all-time balance and income/expense totals
// shown on the home dashboard
type SummaryResponse struct {
	Balance       string `json:"balance"`
	TotalIncome   string `json:"totalIncome"`
	TotalExpenses string `json:"totalExpenses"`
}

// GetSummary returns the current balance with its income and expense totals
func (h *BudgetHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)

	summary, err := h.budgetService.GetSummary(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load account summary")
		return NewInternalError(c, "Failed to load account summary")
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		Balance:       summary.Balance.StringFixed(domain.AmountScale),
		TotalIncome:   summary.TotalIncome.StringFixed(domain.AmountScale),
		TotalExpenses: summary.TotalExpenses.StringFixed(domain.AmountScale),
	})
}

// GetBudget returns the budget with recomputed progress
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	status, err := h.budgetService.GetStatus(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load budget")
		return NewInternalError(c, "Failed to load budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(status))
}

// SetBudget stores a new monthly budget amount and starts a fresh alert epoch
func (h *BudgetHandler) SetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	status, err := h.budgetService.SetBudget(userID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Must be greater than zero"},
			})
		}
		log.Error().Err(err).Msg("Failed to set budget")
		return NewInternalError(c, "Failed to set budget")
	}

	response := toBudgetResponse(status)
	h.publisher.Publish(userID, websocket.BudgetUpdated(response))

	return c.JSON(http.StatusOK, response)
}
