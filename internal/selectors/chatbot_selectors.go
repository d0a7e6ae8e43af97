package selectors

import (
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/chatbot"
	"buildhub-state/pkg/selector"
)

func SelectChatbot(s Root) *chatbot.State        { return s.Chatbot }
func SelectIsChatOpen(s Root) bool               { return s.Chatbot.IsOpen }
func SelectMessages(s Root) []entity.ChatMessage { return s.Chatbot.Messages }
func SelectIsTyping(s Root) bool                 { return s.Chatbot.IsTyping }
func SelectChatError(s Root) string              { return s.Chatbot.Error }
func SelectMessageCount(s Root) int              { return len(s.Chatbot.Messages) }
func SelectConversationID(s Root) string         { return s.Chatbot.CurrentConversationId }

func SelectLastMessage(s Root) *entity.ChatMessage {
	msgs := s.Chatbot.Messages
	if len(msgs) == 0 {
		return nil
	}
	return &msgs[len(msgs)-1]
}

var SelectUserMessages = selector.Create1(SelectMessages, func(msgs []entity.ChatMessage) []entity.ChatMessage {
	return messagesBy(msgs, false)
})

var SelectBotMessages = selector.Create1(SelectMessages, func(msgs []entity.ChatMessage) []entity.ChatMessage {
	return messagesBy(msgs, true)
})

func messagesBy(msgs []entity.ChatMessage, bot bool) []entity.ChatMessage {
	out := []entity.ChatMessage{}
	for _, m := range msgs {
		if m.IsBot == bot {
			out = append(out, m)
		}
	}
	return out
}

var SelectConversationSummary = selector.Create2(SelectMessages, SelectConversationID,
	func(msgs []entity.ChatMessage, conversationID string) *dto.ConversationSummary {
		summary := &dto.ConversationSummary{ConversationId: conversationID, Total: len(msgs)}
		for _, m := range msgs {
			if m.IsBot {
				summary.BotMessages++
			} else {
				summary.UserMessages++
			}
		}
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1].Timestamp
			summary.LastMessageAt = &last
		}
		return summary
	})

var SelectChatbotStatus = selector.Create1(SelectChatbot, func(c *chatbot.State) *dto.ChatbotStatus {
	return &dto.ChatbotStatus{
		IsOpen:       c.IsOpen,
		IsTyping:     c.IsTyping,
		IsLoading:    c.IsLoading,
		HasError:     c.Error != "",
		LastDelivery: c.LastDelivery,
	}
})
