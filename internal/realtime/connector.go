// Package realtime keeps the live-update socket connected while a user is
// signed in and turns incoming events into store actions.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/contractor"
	"buildhub-state/internal/slice/ui"
	"buildhub-state/pkg/events"
	pktNats "buildhub-state/pkg/nats"
	"buildhub-state/pkg/store"
)

// Socket is a live event subscription.
type Socket interface {
	Subscribe(subject string, handler pktNats.EventHandler) error
	Close()
}

// Dialer opens a socket authenticated with the session token.
type Dialer func(token string) (Socket, error)

// NATSDialer dials NATS with the reconnect policy in opts.
func NATSDialer(opts pktNats.ConnOptions) Dialer {
	return func(token string) (Socket, error) {
		o := opts
		o.Token = token
		return pktNats.NewSubscriber(o)
	}
}

type session struct {
	Authenticated bool
	Token         string
}

// Connector ties the socket lifecycle to the auth branch.
type Connector struct {
	store  *store.Store[*appstate.RootState]
	dial   Dialer
	logger store.Logger

	mu          sync.Mutex
	socket      Socket
	token       string
	unsubscribe func()
	stopped     bool
}

func NewConnector(s *store.Store[*appstate.RootState], dial Dialer, log store.Logger) *Connector {
	if log == nil {
		log = store.NopLogger()
	}
	return &Connector{store: s, dial: dial, logger: log}
}

// Start connects now if the user is already signed in and follows every
// later change of the session.
func (c *Connector) Start() {
	c.mu.Lock()
	c.stopped = false
	c.unsubscribe = store.Watch(c.store, sessionOf, func(_, _ session) {
		c.reconcile()
	})
	c.mu.Unlock()
	c.reconcile()
}

func sessionOf(s *appstate.RootState) session {
	return session{Authenticated: s.Auth.IsAuthenticated, Token: s.Auth.Token}
}

// reconcile reads the session under the lock, so a late caller never
// applies a snapshot older than one already applied.
func (c *Connector) reconcile() {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := sessionOf(c.store.GetState())

	if c.stopped || !s.Authenticated {
		c.disconnectLocked("signed out")
		return
	}
	if c.socket != nil && c.token == s.Token {
		return
	}
	c.disconnectLocked("token changed")

	socket, err := c.dial(s.Token)
	if err != nil {
		c.logger.Error("Realtime", "Socket connect failed", map[string]interface{}{"error": err.Error()})
		return
	}
	handlers := map[string]pktNats.EventHandler{
		events.Subject(events.TypeNotification):      c.onNotification,
		events.Subject(events.TypeContractorUpdated): c.onContractorUpdated,
	}
	for subject, h := range handlers {
		if err := socket.Subscribe(subject, h); err != nil {
			c.logger.Error("Realtime", "Subscribe failed", map[string]interface{}{"subject": subject, "error": err.Error()})
		}
	}
	c.socket = socket
	c.token = s.Token
	c.logger.Info("Realtime", "Socket connected", nil)
}

func (c *Connector) disconnectLocked(reason string) {
	if c.socket == nil {
		return
	}
	c.socket.Close()
	c.socket = nil
	c.token = ""
	c.logger.Info("Realtime", "Socket disconnected", map[string]interface{}{"reason": reason})
}

// Connected reports whether a socket is open.
func (c *Connector) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.socket != nil
}

// Stop stops following the session and closes the socket.
func (c *Connector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.disconnectLocked("stopped")
}

func (c *Connector) onNotification(_ context.Context, ev events.Event) error {
	payload := make(map[string]interface{}, len(ev.Payload()))
	for k, v := range ev.Payload() {
		if k != "id" {
			payload[k] = v
		}
	}
	var n entity.Notification
	if err := decode(payload, &n); err != nil {
		return err
	}
	if n.Message == "" && n.Title == "" {
		return fmt.Errorf("empty notification")
	}
	if n.Duration == 0 {
		n.Duration = ui.ErrorNotificationDuration
	}
	n.CreatedAt = ev.Timestamp()
	c.store.Dispatch(ui.AddNotification(n))
	return nil
}

func (c *Connector) onContractorUpdated(_ context.Context, ev events.Event) error {
	var ct entity.Contractor
	if err := decode(ev.Payload(), &ct); err != nil {
		return err
	}
	if ct.Id == "" {
		return fmt.Errorf("contractor update without id")
	}
	c.store.Dispatch(contractor.UpsertContractor(ct))
	return nil
}

func decode(payload map[string]interface{}, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return nil
}
