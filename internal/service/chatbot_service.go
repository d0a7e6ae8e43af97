package service

import (
	"context"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/validation"
	"buildhub-state/internal/selectors"
	"buildhub-state/internal/slice/chatbot"
)

type IChatbotService interface {
	Status() *dto.ChatbotStatus
	Messages() []entity.ChatMessage
	Send(ctx context.Context, req *dto.SendMessageRequest) (*dto.BotReply, error)
	Open() *dto.ChatbotStatus
	Close() *dto.ChatbotStatus
	Toggle() *dto.ChatbotStatus
	ClearMessages() []entity.ChatMessage
	NewConversation() *dto.ConversationSummary
	Summary() *dto.ConversationSummary
}

type chatbotService struct {
	app *appstate.App
}

func NewChatbotService(app *appstate.App) IChatbotService {
	return &chatbotService{app: app}
}

func (s *chatbotService) Status() *dto.ChatbotStatus {
	return selectors.SelectChatbotStatus(s.app.State())
}

func (s *chatbotService) Messages() []entity.ChatMessage {
	return selectors.SelectMessages(s.app.State())
}

// Send posts a user message into the current conversation and waits for the
// reply. A degraded reply is returned without error.
func (s *chatbotService) Send(ctx context.Context, req *dto.SendMessageRequest) (*dto.BotReply, error) {
	if err := validation.Validator().Struct(req); err != nil {
		return nil, err
	}
	arg := chatbot.NewMessage(req.Text, selectors.SelectConversationID(s.app.State()))
	reply, err := s.app.Chatbot.SendMessage.Dispatch(ctx, s.app.Store, arg)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *chatbotService) Open() *dto.ChatbotStatus {
	s.app.Store.Dispatch(chatbot.OpenChat())
	return s.Status()
}

func (s *chatbotService) Close() *dto.ChatbotStatus {
	s.app.Store.Dispatch(chatbot.CloseChat())
	return s.Status()
}

func (s *chatbotService) Toggle() *dto.ChatbotStatus {
	s.app.Store.Dispatch(chatbot.ToggleChat())
	return s.Status()
}

func (s *chatbotService) ClearMessages() []entity.ChatMessage {
	s.app.Store.Dispatch(chatbot.ClearMessages())
	return s.Messages()
}

func (s *chatbotService) NewConversation() *dto.ConversationSummary {
	s.app.Store.Dispatch(chatbot.StartNewConversation())
	return s.Summary()
}

func (s *chatbotService) Summary() *dto.ConversationSummary {
	return selectors.SelectConversationSummary(s.app.State())
}
