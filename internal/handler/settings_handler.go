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
)

// SettingsHandler handles user preference HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
	publisher       websocket.EventPublisher
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService, publisher websocket.EventPublisher) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		publisher:       publisher,
	}
}

// GetSettings returns the user's preferences
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)

	settings, err := h.settingsService.GetSettings(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load settings")
		return NewInternalError(c, "Failed to load settings")
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings stores new preference values
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req service.Settings
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	settings, err := h.settingsService.UpdateSettings(userID, req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currency", Message: "Must be a three-letter currency code"},
			})
		}
		log.Error().Err(err).Msg("Failed to update settings")
		return NewInternalError(c, "Failed to update settings")
	}

	h.publisher.Publish(userID, websocket.SettingsUpdated(settings))
	return c.JSON(http.StatusOK, settings)
}

// ClearUserData wipes the user's stored transactions, budget and preferences
func (h *SettingsHandler) ClearUserData(c echo.Context) error {
	userID := middleware.GetUserID(c)

	if err := h.settingsService.ClearUserData(userID); err != nil {
		log.Error().Err(err).Msg("Failed to clear user data")
		return NewInternalError(c, "Failed to clear user data")
	}

	return c.NoContent(http.StatusNoContent)
}
