package handler

import (
	"errors"
	"net/http"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/middleware"
	"github.com/coinsage/coinsage-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BackupHandler handles backup and restore HTTP requests
type BackupHandler struct {
	archiveService *service.ArchiveService
	budgetService  *service.BudgetService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(archiveService *service.ArchiveService, budgetService *service.BudgetService) *BackupHandler {
	return &BackupHandler{
		archiveService: archiveService,
		budgetService:  budgetService,
	}
}

// BackupResponse names a created backup
type BackupResponse struct {
	Name string `json:"name"`
}

// RestoreRequest names the backup to restore
type RestoreRequest struct {
	Name string `json:"name"`
}

// RestoreResponse reports the restore outcome
type RestoreResponse struct {
	Restored int `json:"restored"`
}

// CreateBackup writes a timestamped backup of the user's transactions
func (h *BackupHandler) CreateBackup(c echo.Context) error {
	userID := middleware.GetUserID(c)

	name, err := h.archiveService.Backup(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create backup")
		return NewInternalError(c, "Failed to create backup")
	}

	return c.JSON(http.StatusCreated, BackupResponse{Name: name})
}

// ListBackups lists the user's backups, newest first
func (h *BackupHandler) ListBackups(c echo.Context) error {
	userID := middleware.GetUserID(c)

	backups, err := h.archiveService.List(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list backups")
		return NewInternalError(c, "Failed to list backups")
	}

	return c.JSON(http.StatusOK, backups)
}

// LatestBackup returns the most recent backup
func (h *BackupHandler) LatestBackup(c echo.Context) error {
	userID := middleware.GetUserID(c)

	latest, err := h.archiveService.Latest(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrBackupNotFound) {
			return NewNotFoundError(c, "No backups exist")
		}
		log.Error().Err(err).Msg("Failed to load latest backup")
		return NewInternalError(c, "Failed to load latest backup")
	}

	return c.JSON(http.StatusOK, latest)
}

// RestoreBackup replaces the stored transactions with a backup's contents.
// A failed restore leaves the existing transactions untouched.
func (h *BackupHandler) RestoreBackup(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req RestoreRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Name == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Backup name is required"},
		})
	}

	restored, err := h.archiveService.Restore(c.Request().Context(), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBackupNotFound):
			return NewNotFoundError(c, "Backup not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Backup contents are not a valid transaction list", nil)
		default:
			log.Error().Err(err).Msg("Failed to restore backup")
			return NewInternalError(c, "Failed to restore backup")
		}
	}

	// Restored data changes month-to-date spend; re-run threshold evaluation
	if _, err := h.budgetService.Recalculate(userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to recalculate budget progress")
	}

	return c.JSON(http.StatusOK, RestoreResponse{Restored: restored})
}
