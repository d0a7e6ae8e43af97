package chatbot

import (
	"slices"
	"strings"
	"time"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/pkg/store"

	"github.com/google/uuid"
)

func ToggleChat() store.Action     { return store.NewAction(TypeToggleChat, nil) }
func OpenChat() store.Action       { return store.NewAction(TypeOpenChat, nil) }
func CloseChat() store.Action      { return store.NewAction(TypeCloseChat, nil) }
func ClearChatError() store.Action { return store.NewAction(TypeClearChatError, nil) }

func SetTyping(typing bool) store.Action {
	return store.NewAction(TypeSetTyping, typing)
}

// ClearMessages resets the conversation to a fresh greeting.
func ClearMessages() store.Action {
	return store.NewAction(TypeClearMessages, time.Now())
}

type newConversation struct {
	ConversationId string    `json:"conversationId"`
	At             time.Time `json:"at"`
}

func StartNewConversation() store.Action {
	return store.NewAction(TypeStartNewConversation, newConversation{
		ConversationId: uuid.NewString(),
		At:             time.Now(),
	})
}

func Reducer(s *State, a store.Action) *State {
	switch a.Type {
	case TypeToggleChat:
		next := s.clone()
		next.IsOpen = !s.IsOpen
		return next
	case TypeOpenChat, TypeCloseChat:
		open := a.Type == TypeOpenChat
		if s.IsOpen == open {
			return s
		}
		next := s.clone()
		next.IsOpen = open
		return next
	case TypeSetTyping:
		typing, _ := store.PayloadAs[bool](a)
		if s.IsTyping == typing {
			return s
		}
		next := s.clone()
		next.IsTyping = typing
		return next
	case TypeClearChatError:
		if s.Error == "" {
			return s
		}
		next := s.clone()
		next.Error = ""
		return next
	case TypeClearMessages:
		at, ok := store.PayloadAs[time.Time](a)
		if !ok {
			at = time.Now()
		}
		next := s.clone()
		next.Messages = []entity.ChatMessage{greeting(at)}
		next.Error = ""
		next.LastDelivery = entity.DeliveryNone
		return next
	case TypeStartNewConversation:
		conv, ok := store.PayloadAs[newConversation](a)
		if !ok {
			return s
		}
		next := s.clone()
		next.Messages = []entity.ChatMessage{greeting(conv.At)}
		next.CurrentConversationId = conv.ConversationId
		next.IsTyping, next.IsLoading = false, false
		next.Error = ""
		next.LastDelivery = entity.DeliveryNone
		return next

	case TypeSendMessage + "/" + store.StatusPending:
		next := s.clone()
		next.IsTyping, next.IsLoading = true, true
		next.Error = ""
		if arg, ok := sendArg(a); ok && strings.TrimSpace(arg.Text) != "" {
			next.Messages = append(slices.Clone(s.Messages), entity.ChatMessage{
				Id:        arg.MessageId,
				Text:      arg.Text,
				IsBot:     false,
				Timestamp: arg.SentAt,
				Type:      entity.MessageTypeText,
				Delivery:  entity.DeliverySent,
			})
		}
		return next
	case TypeSendMessage + "/" + store.StatusFulfilled:
		next := s.clone()
		next.IsTyping, next.IsLoading = false, false
		next.Error = ""
		if reply, ok := store.PayloadAs[dto.BotReply](a); ok {
			next.Messages = append(slices.Clone(s.Messages), entity.ChatMessage{
				Id:        reply.MessageId,
				Text:      reply.Text,
				IsBot:     true,
				Timestamp: reply.RepliedAt,
				Type:      entity.MessageTypeText,
				Delivery:  reply.Delivery,
			})
			next.LastDelivery = reply.Delivery
		}
		return next
	case TypeSendMessage + "/" + store.StatusRejected:
		next := s.clone()
		next.IsTyping, next.IsLoading = false, false
		next.Error = store.RejectionMessage(a)
		next.LastDelivery = entity.DeliveryFailed
		return next
	}
	return s
}

func sendArg(a store.Action) (dto.SendMessageArg, bool) {
	if a.Meta == nil {
		return dto.SendMessageArg{}, false
	}
	arg, ok := a.Meta.Arg.(dto.SendMessageArg)
	return arg, ok
}
