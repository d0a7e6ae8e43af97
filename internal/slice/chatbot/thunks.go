package chatbot

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/pkg/llm"
	"buildhub-state/pkg/store"

	"github.com/google/uuid"
)

const (
	MsgEmptyMessage = "Message cannot be empty"
	historyLimit    = 20
	systemPrompt    = "You are the BuildHub assistant for a construction marketplace. " +
		"Help homeowners and clients find contractors, scope projects and understand quotes. Keep answers short."
)

// FallbackReplies are served when the model cannot be reached and fallback
// is enabled.
var FallbackReplies = []string{
	"I'm having trouble connecting right now. In the meantime, try browsing verified contractors in your area.",
	"Sorry, I couldn't reach the assistant service. You can filter contractors by specialty and rating while I reconnect.",
	"I'm temporarily offline. Tip: compare at least three quotes before hiring a contractor.",
	"Something went wrong on my side. Please try again in a moment, or use the search to find contractors directly.",
}

type Options struct {
	Provider llm.LLMProvider
	Fallback bool
	Logger   store.Logger

	// History returns the current conversation, including the message that
	// is being answered.
	History func() []entity.ChatMessage
	Rand    *rand.Rand
	Now     func() time.Time
}

type Thunks struct {
	SendMessage *store.AsyncThunk[dto.SendMessageArg, dto.BotReply]

	opts   Options
	randMu sync.Mutex
}

func NewThunks(opts Options) *Thunks {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	if opts.History == nil {
		opts.History = func() []entity.ChatMessage { return nil }
	}
	t := &Thunks{opts: opts}
	t.SendMessage = store.NewAsyncThunk(TypeSendMessage, t.send)
	return t
}

// NewMessage stamps a send argument for text in conversation.
func NewMessage(text, conversationId string) dto.SendMessageArg {
	return dto.SendMessageArg{
		MessageId:      uuid.New(),
		Text:           text,
		SentAt:         time.Now(),
		ConversationId: conversationId,
	}
}

func (t *Thunks) send(ctx context.Context, arg dto.SendMessageArg, _ store.ThunkAPI) (dto.BotReply, error) {
	if strings.TrimSpace(arg.Text) == "" {
		return dto.BotReply{}, store.RejectWithValue(MsgEmptyMessage)
	}

	text, err := t.ask(ctx, arg)
	delivery := entity.DeliverySent
	if err != nil {
		if ctx.Err() != nil || !t.opts.Fallback {
			return dto.BotReply{}, err
		}
		t.warn("Assistant unavailable, serving fallback reply", map[string]interface{}{
			"conversation_id": arg.ConversationId,
			"error":           err.Error(),
		})
		text = t.fallbackReply()
		delivery = entity.DeliveryDegraded
	}

	return dto.BotReply{
		MessageId:      uuid.New(),
		Text:           text,
		RepliedAt:      t.opts.Now(),
		ConversationId: arg.ConversationId,
		Delivery:       delivery,
	}, nil
}

func (t *Thunks) ask(ctx context.Context, arg dto.SendMessageArg) (string, error) {
	if t.opts.Provider == nil {
		return "", errors.New("no assistant provider configured")
	}
	reply, err := t.opts.Provider.Chat(ctx, t.buildHistory(arg))
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", errors.New("assistant returned an empty reply")
	}
	return reply, nil
}

func (t *Thunks) buildHistory(arg dto.SendMessageArg) []llm.Message {
	msgs := t.opts.History()
	if len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}

	history := make([]llm.Message, 0, len(msgs)+2)
	history = append(history, llm.Message{Role: "system", Content: systemPrompt})
	included := false
	for _, m := range msgs {
		if m.Type == entity.MessageTypeGreeting {
			continue
		}
		role := "user"
		if m.IsBot {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: m.Text})
		if m.Id == arg.MessageId {
			included = true
		}
	}
	if !included {
		history = append(history, llm.Message{Role: "user", Content: arg.Text})
	}
	return history
}

func (t *Thunks) fallbackReply() string {
	t.randMu.Lock()
	defer t.randMu.Unlock()
	return FallbackReplies[t.opts.Rand.IntN(len(FallbackReplies))]
}

func (t *Thunks) warn(msg string, details map[string]interface{}) {
	if t.opts.Logger != nil {
		t.opts.Logger.Warn("Chatbot", msg, details)
	}
}
