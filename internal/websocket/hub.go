package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"buildhub-state/internal/entity"
	"buildhub-state/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the redis channel hubs use to reach clients connected
// to other instances.
const ClusterChannel = "cluster_events"

// Broadcast is the target of a cluster message meant for every client.
const Broadcast = "*"

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	// Closed once Run returns.
	done chan struct{}

	mu sync.RWMutex

	// Optional; nil keeps delivery local.
	rdb *redis.Client

	id     string
	logger store.Logger
}

func NewHub(rdb *redis.Client, log store.Logger) *Hub {
	if log == nil {
		log = store.NopLogger()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		id:         uuid.NewString(),
		logger:     log,
	}
}

// Run serves register and unregister requests until ctx is done, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.clients {
				for _, c := range clients {
					close(c.Send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

// ClientCount reports the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func encode(notification entity.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// Broadcast sends a notification to every connected client, here and on
// other instances.
func (h *Hub) Broadcast(notification entity.Notification) {
	data := encode(notification)
	h.deliver(Broadcast, data)
	h.publish(Broadcast, data)
}

// Send delivers a notification to every device of one user.
func (h *Hub) Send(userID uuid.UUID, notification entity.Notification) {
	data := encode(notification)
	h.deliver(userID.String(), data)
	h.publish(userID.String(), data)
}

func (h *Hub) deliver(target string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var targets [][]*Client
	if target == Broadcast {
		for _, clients := range h.clients {
			targets = append(targets, clients)
		}
	} else {
		uid, err := uuid.Parse(target)
		if err != nil {
			return
		}
		targets = append(targets, h.clients[uid])
	}

	for _, clients := range targets {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": client.UserID})
			}
		}
	}
}

func (h *Hub) publish(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{Origin: h.id, TargetUserID: target, Message: data})
	if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Cluster publish failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				continue
			}
			// Local clients were served before publishing.
			if payload.Origin == h.id {
				continue
			}
			h.deliver(payload.TargetUserID, payload.Message)
		}
	}
}

// Follow broadcasts every notification that appears in the selected list.
// The returned func stops following.
func Follow[S any](h *Hub, s *store.Store[S], notifications func(S) []entity.Notification) func() {
	return store.Watch(s, notifications, func(prev, next []entity.Notification) {
		seen := make(map[uuid.UUID]struct{}, len(prev))
		for _, n := range prev {
			seen[n.Id] = struct{}{}
		}
		for _, n := range next {
			if _, ok := seen[n.Id]; !ok {
				h.Broadcast(n)
			}
		}
	})
}
