package websocket

import (
	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/google/uuid"
)

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all clients connected for the specified user
	Publish(userID uuid.UUID, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}

// AlertNotifier adapts an EventPublisher to the domain.Notifier contract,
// turning threshold crossings into budget.alert events.
type AlertNotifier struct {
	publisher EventPublisher
}

// NewAlertNotifier creates a new AlertNotifier
func NewAlertNotifier(publisher EventPublisher) *AlertNotifier {
	return &AlertNotifier{publisher: publisher}
}

var _ domain.Notifier = (*AlertNotifier)(nil)

// FireAlert publishes a budget.alert event for the threshold. Severity scales
// with the threshold: 80 is low, 90 normal, 100 high.
func (n *AlertNotifier) FireAlert(userID uuid.UUID, threshold int, currentPercent int) {
	n.publisher.Publish(userID, BudgetAlert(BudgetAlertPayload{
		Threshold:      threshold,
		CurrentPercent: currentPercent,
		Severity:       alertSeverity(threshold),
	}))
}

func alertSeverity(threshold int) string {
	switch {
	case threshold >= 100:
		return "high"
	case threshold >= 90:
		return "normal"
	default:
		return "low"
	}
}
