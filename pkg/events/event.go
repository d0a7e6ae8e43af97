// Package events defines the live-update events exchanged over NATS.
package events

import "time"

// Event types; the NATS subject is "events.<type>".
const (
	TypeNotification      = "notifications"
	TypeContractorUpdated = "contractors.updated"
)

// Event defines the contract for all live-update events.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string               { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time            { return e.OccurredAt }

func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

// Subject returns the NATS subject events of eventType travel on.
func Subject(eventType string) string {
	return "events." + eventType
}
