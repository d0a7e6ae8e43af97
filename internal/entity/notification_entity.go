package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notification is a toast shown by the front-end until removed.
type Notification struct {
	Id        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Duration  int              `json:"duration"` // milliseconds
	CreatedAt time.Time        `json:"createdAt"`
}
