package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/serverutils"
	"buildhub-state/internal/slice/auth"
	internalWS "buildhub-state/internal/websocket"
	"buildhub-state/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T, pub EventPublisher) (*fiber.App, string) {
	t.Helper()
	tokens := auth.NewTokenIssuer("test")
	token, err := tokens.Issue(&entity.User{Id: uuid.New(), Email: "ops@b.com", Role: entity.UserRoleAdmin}, time.Now(), time.Hour)
	require.NoError(t, err)

	f := fiber.New()
	f.Use(serverutils.ErrorHandlerMiddleware())
	NewNotificationHandler(tokens, pub, internalWS.NewHub(nil, nil), nil).RegisterRoutes(f, f.Group("/api"))
	return f, token
}

func send(t *testing.T, f *fiber.App, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestPublishRoutesRequireToken(t *testing.T) {
	pub := &stubPublisher{}
	f, _ := newTestApp(t, pub)

	for _, path := range []string{"/api/events/notifications", "/api/events/contractors"} {
		code, env := send(t, f, http.MethodPost, path, "", `{"title":"x","id":"c1"}`)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.Equal(t, "Missing token", env.Message)

		code, env = send(t, f, http.MethodPost, path, "forged", `{"title":"x","id":"c1"}`)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.Equal(t, "Invalid token", env.Message)
	}
	assert.Empty(t, pub.events)
}

func TestPublishNotification(t *testing.T) {
	pub := &stubPublisher{}
	f, token := newTestApp(t, pub)

	code, env := send(t, f, http.MethodPost, "/api/events/notifications", token,
		`{"type":"info","title":"Bid received","message":"Ace Plumbing sent a bid","duration":4000}`)
	require.Equal(t, http.StatusAccepted, code)
	assert.JSONEq(t, `{"subject":"events.notifications"}`, string(env.Data))

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, events.TypeNotification, ev.EventType())
	assert.Equal(t, map[string]interface{}{
		"type":     "info",
		"title":    "Bid received",
		"message":  "Ace Plumbing sent a bid",
		"duration": 4000,
	}, ev.Payload())

	code, _ = send(t, f, http.MethodPost, "/api/events/notifications", token, `{"type":"loud","title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, pub.events, 1)
}

func TestPublishContractorUpdate(t *testing.T) {
	pub := &stubPublisher{}
	f, token := newTestApp(t, pub)

	code, env := send(t, f, http.MethodPost, "/api/events/contractors", token,
		`{"id":"c7","name":"Solid Roofs","rating":4.6,"verified":true}`)
	require.Equal(t, http.StatusAccepted, code)
	assert.JSONEq(t, `{"subject":"events.contractors.updated"}`, string(env.Data))

	require.Len(t, pub.events, 1)
	payload := pub.events[0].Payload()
	assert.Equal(t, events.TypeContractorUpdated, pub.events[0].EventType())
	assert.Equal(t, "c7", payload["id"])
	assert.Equal(t, "Solid Roofs", payload["name"])
	assert.Equal(t, 4.6, payload["rating"])
	assert.Equal(t, true, payload["verified"])

	code, env = send(t, f, http.MethodPost, "/api/events/contractors", token, `{"name":"No Id"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Contractor id is required", env.Message)
}

func TestPublishWithoutBus(t *testing.T) {
	f, token := newTestApp(t, nil)

	code, env := send(t, f, http.MethodPost, "/api/events/notifications", token, `{"title":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "Event bus unavailable", env.Message)
}

func TestPublishFailureIsBadGateway(t *testing.T) {
	f, token := newTestApp(t, &stubPublisher{err: errors.New("nats: timeout")})

	code, env := send(t, f, http.MethodPost, "/api/events/notifications", token, `{"title":"x"}`)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "Failed to publish event", env.Message)
}

func TestServeWsAuthenticatesHandshake(t *testing.T) {
	f, token := newTestApp(t, &stubPublisher{})

	code, env := send(t, f, http.MethodGet, "/ws", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Missing token", env.Message)

	code, env = send(t, f, http.MethodGet, "/ws?token=forged", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", env.Message)

	// A valid token without the upgrade headers is not a websocket handshake.
	code, _ = send(t, f, http.MethodGet, "/ws?token="+token, "", "")
	assert.Equal(t, http.StatusUpgradeRequired, code)
}
