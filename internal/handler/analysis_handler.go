package handler

import (
	"net/http"

	"github.com/coinsage/coinsage-backend/internal/middleware"
	"github.com/coinsage/coinsage-backend/internal/service"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AnalysisHandler handles the category spending breakdown endpoint
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// CategorySpendingResponse is one slice of the breakdown
type CategorySpendingResponse struct {
	Category    string `json:"category"`
	DisplayName string `json:"displayName"`
	Amount      string `json:"amount"`
	Percentage  string `json:"percentage"`
}

// AnalysisResponse is the full breakdown for the requested window
type AnalysisResponse struct {
	Window     string                     `json:"window"`
	Categories []CategorySpendingResponse `json:"categories"`
}

// GetAnalysis returns expense totals and shares per category over the
// requested window (week, month or year; month by default)
func (h *AnalysisHandler) GetAnalysis(c echo.Context) error {
	userID := middleware.GetUserID(c)

	window, ok := util.ParseWindow(c.QueryParam("window"))
	if !ok {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "window", Message: "Must be week, month or year"},
		})
	}

	breakdown, err := h.analysisService.Analyze(userID, window)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute analysis")
		return NewInternalError(c, "Failed to compute analysis")
	}

	categories := make([]CategorySpendingResponse, 0, len(breakdown))
	for _, entry := range breakdown {
		categories = append(categories, CategorySpendingResponse{
			Category:    string(entry.Category),
			DisplayName: entry.Category.DisplayName(),
			Amount:      entry.Amount.StringFixed(2),
			// One displayed fractional digit; computed at higher precision
			Percentage: entry.Percentage.StringFixed(1),
		})
	}

	return c.JSON(http.StatusOK, AnalysisResponse{
		Window:     string(window),
		Categories: categories,
	})
}
