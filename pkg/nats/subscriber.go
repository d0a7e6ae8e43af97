package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"buildhub-state/pkg/events"

	"github.com/nats-io/nats.go"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber receives live events. Subscriptions are ephemeral: events
// published while disconnected are not replayed.
type Subscriber struct {
	nc *nats.Conn

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewSubscriber connects a new subscriber.
func NewSubscriber(opts ConnOptions) (*Subscriber, error) {
	nc, err := Connect(opts)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc}, nil
}

// Subscribe registers handler for subject. The event type is the subject
// without its "events." prefix.
func (s *Subscriber) Subscribe(subject string, handler EventHandler) error {
	sub, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
		event, err := Decode(msg.Subject, msg.Data)
		if err != nil {
			log.Printf("Error unmarshalling event data on %s: %v", msg.Subject, err)
			return
		}
		if err := handler(context.Background(), event); err != nil {
			log.Printf("Handler failed for event %s: %v", msg.Subject, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return nil
}

// Decode builds an event from a raw message.
func Decode(subject string, data []byte) (events.BaseEvent, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return events.BaseEvent{}, err
	}

	occurredAt := time.Now()
	if ts, ok := payload["timestamp"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			occurredAt = parsed
		}
	}
	return events.BaseEvent{
		Type:       strings.TrimPrefix(subject, "events."),
		Data:       payload,
		OccurredAt: occurredAt,
	}, nil
}

// Connected reports whether the underlying connection is up.
func (s *Subscriber) Connected() bool {
	return s.nc != nil && s.nc.IsConnected()
}

// Close unsubscribes and closes the connection.
func (s *Subscriber) Close() {
	s.mu.Lock()
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
	s.mu.Unlock()

	if s.nc != nil {
		s.nc.Close()
	}
}
