package service

import (
	"sync"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// budgetThresholds are the progress percentages that trigger an alert, in the
// order they must be evaluated. Each fires at most once per budget epoch.
var budgetThresholds = []int{80, 90, 100}

// AlertService tracks which budget thresholds have already been alerted for
// each user's current budget epoch and fires newly crossed ones. Evaluation
// is serialized per service instance so a threshold can never fire twice.
type AlertService struct {
	settings domain.SettingsStore
	notifier domain.Notifier

	mu    sync.Mutex
	fired map[uuid.UUID]map[int]bool
}

// NewAlertService creates a new AlertService
func NewAlertService(settings domain.SettingsStore, notifier domain.Notifier) *AlertService {
	return &AlertService{
		settings: settings,
		notifier: notifier,
		fired:    make(map[uuid.UUID]map[int]bool),
	}
}

// Evaluate fires an alert for every threshold that progress has reached and
// that has not fired in the current epoch, in ascending threshold order.
// When the user has notifications disabled it does nothing at all: no alerts,
// and no change to the fired set, so thresholds crossed while disabled can
// still fire if crossed again after re-enabling.
func (s *AlertService) Evaluate(userID uuid.UUID, progress decimal.Decimal) error {
	enabled, err := s.settings.GetNotificationsEnabled(userID)
	if err != nil {
		return err
	}
	if !enabled {
		log.Debug().Str("user_id", userID.String()).Msg("Notifications disabled, skipping threshold evaluation")
		return nil
	}

	currentPercent := int(progress.IntPart())

	s.mu.Lock()
	defer s.mu.Unlock()

	fired := s.fired[userID]
	if fired == nil {
		fired = make(map[int]bool)
		s.fired[userID] = fired
	}

	for _, threshold := range budgetThresholds {
		if progress.GreaterThanOrEqual(decimal.NewFromInt(int64(threshold))) && !fired[threshold] {
			log.Info().
				Str("user_id", userID.String()).
				Int("threshold", threshold).
				Int("percent", currentPercent).
				Msg("Budget threshold crossed")
			s.notifier.FireAlert(userID, threshold, currentPercent)
			fired[threshold] = true
		}
	}

	return nil
}

// Reset clears the fired set for the user, starting a new budget epoch.
// Called when the budget amount is updated, never on transaction changes.
func (s *AlertService) Reset(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fired, userID)
}

// HasFired reports whether the threshold has already alerted in the user's
// current epoch.
func (s *AlertService) HasFired(userID uuid.UUID, threshold int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired[userID][threshold]
}
