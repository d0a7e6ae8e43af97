package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	t.Setenv("NATS_URL", "nats://bus:4222")

	cfg := Load()
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Zero(t, cfg.API.RequestTimeout)
	assert.Equal(t, "nats://bus:4222", cfg.Socket.URL)
	assert.Equal(t, 5, cfg.Socket.ReconnectAttempts)
	assert.Equal(t, time.Second, cfg.Socket.ReconnectWait)
	assert.True(t, cfg.DevTools.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("API_REQUEST_TIMEOUT", "2500")
	t.Setenv("SOCKET_RECONNECT_WAIT", "3s")
	t.Setenv("CHAT_FALLBACK", "false")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.DevTools.Enabled)
	assert.Equal(t, 2500*time.Millisecond, cfg.API.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.Socket.ReconnectWait)
	assert.False(t, cfg.Ai.ChatFallback)
}
