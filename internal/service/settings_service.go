package service

import (
	"strings"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/google/uuid"
)

// SettingsService handles per-user preferences: the notifications toggle and
// the display currency code.
type SettingsService struct {
	settings domain.SettingsStore
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settings domain.SettingsStore) *SettingsService {
	return &SettingsService{settings: settings}
}

// Settings is the user's preference snapshot.
type Settings struct {
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	Currency             string `json:"currency"`
}

// GetSettings returns the user's current preferences.
func (s *SettingsService) GetSettings(userID uuid.UUID) (*Settings, error) {
	enabled, err := s.settings.GetNotificationsEnabled(userID)
	if err != nil {
		return nil, err
	}
	currency, err := s.settings.GetCurrency(userID)
	if err != nil {
		return nil, err
	}
	return &Settings{NotificationsEnabled: enabled, Currency: currency}, nil
}

// UpdateSettings stores new preference values. Currency is a free three-letter
// code; no conversion happens anywhere, it is display-only.
func (s *SettingsService) UpdateSettings(userID uuid.UUID, input Settings) (*Settings, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return nil, domain.ErrInvalidInput
	}

	if err := s.settings.SetNotificationsEnabled(userID, input.NotificationsEnabled); err != nil {
		return nil, err
	}
	if err := s.settings.SetCurrency(userID, currency); err != nil {
		return nil, err
	}

	return s.GetSettings(userID)
}

// ClearUserData wipes the user's stored transactions, budget and preferences.
func (s *SettingsService) ClearUserData(userID uuid.UUID) error {
	return s.settings.ClearUserData(userID)
}
