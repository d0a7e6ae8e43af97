package dto

import (
	"time"

	"buildhub-state/internal/entity"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// SendMessageArg is the thunk argument; the message id and time are fixed
// by the caller so the pending reducer stays pure.
type SendMessageArg struct {
	MessageId      uuid.UUID `json:"messageId"`
	Text           string    `json:"text"`
	SentAt         time.Time `json:"sentAt"`
	ConversationId string    `json:"conversationId"`
}

type BotReply struct {
	MessageId      uuid.UUID       `json:"messageId"`
	Text           string          `json:"text"`
	RepliedAt      time.Time       `json:"repliedAt"`
	ConversationId string          `json:"conversationId"`
	Delivery       entity.Delivery `json:"delivery"`
}

type ConversationSummary struct {
	ConversationId string     `json:"conversationId"`
	Total          int        `json:"total"`
	UserMessages   int        `json:"userMessages"`
	BotMessages    int        `json:"botMessages"`
	LastMessageAt  *time.Time `json:"lastMessageAt,omitempty"`
}

type ChatbotStatus struct {
	IsOpen       bool            `json:"isOpen"`
	IsTyping     bool            `json:"isTyping"`
	IsLoading    bool            `json:"isLoading"`
	HasError     bool            `json:"hasError"`
	LastDelivery entity.Delivery `json:"lastDelivery"`
}
