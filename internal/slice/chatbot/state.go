// Package chatbot owns the assistant conversation: the message list, the
// typing indicator and how each bot reply was delivered.
package chatbot

import (
	"time"

	"buildhub-state/internal/entity"

	"github.com/google/uuid"
)

const (
	TypeSendMessage          = "chatbot/sendMessage"
	TypeToggleChat           = "chatbot/toggleChat"
	TypeOpenChat             = "chatbot/openChat"
	TypeCloseChat            = "chatbot/closeChat"
	TypeSetTyping            = "chatbot/setTyping"
	TypeClearMessages        = "chatbot/clearMessages"
	TypeClearChatError       = "chatbot/clearError"
	TypeStartNewConversation = "chatbot/startNewConversation"
)

const GreetingText = "Hi! I'm the BuildHub assistant. Ask me about finding contractors, planning a project or getting quotes."

var greetingID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("buildhub:chatbot:greeting"))

type State struct {
	IsOpen                bool                 `json:"isOpen"`
	Messages              []entity.ChatMessage `json:"messages"`
	IsTyping              bool                 `json:"isTyping"`
	IsLoading             bool                 `json:"isLoading"`
	Error                 string               `json:"error,omitempty"`
	CurrentConversationId string               `json:"currentConversationId"`
	LastDelivery          entity.Delivery      `json:"lastDelivery,omitempty"`
}

func InitialState() *State {
	return &State{
		Messages:              []entity.ChatMessage{greeting(time.Now())},
		CurrentConversationId: uuid.NewString(),
	}
}

func greeting(at time.Time) entity.ChatMessage {
	return entity.ChatMessage{
		Id:        greetingID,
		Text:      GreetingText,
		IsBot:     true,
		Timestamp: at,
		Type:      entity.MessageTypeGreeting,
	}
}

func (s *State) clone() *State {
	next := *s
	return &next
}
