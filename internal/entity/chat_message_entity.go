package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeText       MessageType = "text"
	MessageTypeGreeting   MessageType = "greeting"
	MessageTypeSuggestion MessageType = "suggestion"
	MessageTypeError      MessageType = "error"
)

// Delivery says how a bot reply came to be.
type Delivery string

const (
	DeliveryNone     Delivery = ""
	DeliverySent     Delivery = "sent"
	DeliveryDegraded Delivery = "degraded"
	DeliveryFailed   Delivery = "failed"
)

type ChatMessage struct {
	Id        uuid.UUID   `json:"id"`
	Text      string      `json:"text"`
	IsBot     bool        `json:"isBot"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
	Delivery  Delivery    `json:"delivery,omitempty"`
}
