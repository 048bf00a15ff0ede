package websocket

import "github.com/mhyu96-glitch/finance-app/internal/domain"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to every connected client
	Publish(event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event
func (h *Hub) Publish(event Event) {
	h.Broadcast(event)
}

// NotificationForwarder returns a ledger subscriber that relays every
// notification to p as a notification.created event
func NotificationForwarder(p EventPublisher) func(domain.Notification) {
	return func(n domain.Notification) {
		p.Publish(NotificationCreated(n))
	}
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(event Event) {}
