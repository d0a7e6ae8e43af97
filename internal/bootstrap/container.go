package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/config"
	"buildhub-state/internal/controller"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/handler"
	"buildhub-state/internal/pkg/logger"
	"buildhub-state/internal/pkg/serverutils"
	"buildhub-state/internal/realtime"
	"buildhub-state/internal/service"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/slice/chatbot"
	"buildhub-state/internal/slice/contractor"
	"buildhub-state/internal/storage"
	"buildhub-state/internal/websocket"
	"buildhub-state/pkg/database"
	"buildhub-state/pkg/llm/factory"
	pktNats "buildhub-state/pkg/nats"
	"buildhub-state/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	App    *appstate.App
	Logger logger.ILogger
	Tokens *auth.TokenIssuer

	// Controllers
	AuthController       controller.IAuthController
	ContractorController controller.IContractorController
	ChatbotController    controller.IChatbotController
	UIController         controller.IUIController
	// Nil in production.
	DevToolsController controller.IDevToolsController

	// Live updates
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
	Connector           *realtime.Connector

	devtools *store.DevTools
	cfg      *config.Config
	closers  []func() error
}

// NewContainer wires storage, the app store and the HTTP surface. Optional
// infrastructure (redis fan-out, NATS publisher, LLM) degrades with a
// warning; the configured storage driver is required.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	realtimeLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	c := &Container{Logger: sysLogger, cfg: cfg}

	// 1. Infrastructure
	rdb := connectRedis(ctx, cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, rdb.Close)
	}

	stateStorage, err := c.newStorage(cfg, rdb)
	if err != nil {
		return c.abort(err)
	}

	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   cfg.Ai.HuggingFaceAPIKey,
	})
	if err != nil {
		return c.abort(err)
	}
	sysLogger.Info("Bootstrap", "LLM provider configured", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
		"fallback": cfg.Ai.ChatFallback,
	})

	if cfg.DevTools.Enabled {
		c.devtools = store.NewDevTools(store.DevToolsOptions{Name: "buildhub", Trace: cfg.DevTools.Trace}, sysLogger)
	}

	// 2. Store
	c.Tokens = auth.NewTokenIssuer(cfg.Auth.JWTSecret)
	app, err := appstate.New(ctx, appstate.Options{
		Storage:    stateStorage,
		Logger:     sysLogger,
		Production: cfg.IsProduction(),
		DevTools:   c.devtools,
		Auth: auth.Options{
			Tokens:       c.Tokens,
			FailureEmail: cfg.Auth.FailureEmail,
			SessionTTL:   cfg.Auth.SessionTTL,
			RefreshTTL:   cfg.Auth.RefreshTTL,
		},
		Chatbot: chatbot.Options{
			Provider: llmProvider,
			Fallback: cfg.Ai.ChatFallback,
		},
		Contractor: contractor.Options{
			API:     service.NewContractorAPI(cfg.API.ContractorBaseURL, cfg.API.RequestTimeout),
			Timeout: cfg.API.RequestTimeout,
		},
	})
	if app == nil {
		return c.abort(err)
	}
	if err != nil {
		// A corrupt blob only costs the restored session.
		sysLogger.Warn("Bootstrap", "Starting without restored session", map[string]interface{}{"error": err.Error()})
	}
	c.App = app
	c.closers = append(c.closers, app.Close)

	// 3. Live updates
	c.WebSocketHub = websocket.NewHub(rdb, realtimeLogger)
	c.Connector = realtime.NewConnector(app.Store, realtime.NATSDialer(pktNats.ConnOptions{
		URL:           cfg.Socket.URL,
		Name:          "buildhub-state",
		MaxReconnects: cfg.Socket.ReconnectAttempts,
		ReconnectWait: cfg.Socket.ReconnectWait,
	}), realtimeLogger)

	var publisher handler.EventPublisher
	if natsPub, err := pktNats.NewPublisher(pktNats.ConnOptions{URL: cfg.App.NatsURL, Name: "buildhub-publisher"}); err != nil {
		sysLogger.Warn("Bootstrap", "NATS publisher unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		publisher = natsPub
		c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
	}
	c.NotificationHandler = handler.NewNotificationHandler(c.Tokens, publisher, c.WebSocketHub, realtimeLogger)

	// 4. Services & controllers
	protect := serverutils.JwtMiddleware(c.Tokens)
	c.AuthController = controller.NewAuthController(service.NewAuthService(app), protect)
	c.ContractorController = controller.NewContractorController(service.NewContractorService(app))
	c.ChatbotController = controller.NewChatbotController(service.NewChatbotService(app))
	c.UIController = controller.NewUIController(service.NewUIService(app))
	if !cfg.IsProduction() {
		c.DevToolsController = controller.NewDevToolsController(service.NewDevToolsService(app, sysLogger))
	}

	return c, nil
}

// abort releases whatever NewContainer acquired before failing with err.
func (c *Container) abort(err error) (*Container, error) {
	if closeErr := c.Close(); closeErr != nil {
		c.Logger.Warn("Bootstrap", "Cleanup after failed start", map[string]interface{}{"error": closeErr.Error()})
	}
	return nil, err
}

func (c *Container) newStorage(cfg *config.Config, rdb *redis.Client) (store.Storage, error) {
	switch cfg.Storage.Driver {
	case "redis":
		if rdb == nil {
			return nil, errors.New("storage driver redis: redis is not reachable")
		}
		return storage.NewRedisStore(rdb, cfg.Storage.KeyPrefix), nil
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("storage driver postgres: %w", err)
		}
		kv, err := storage.NewGormStore(db, cfg.Storage.KeyPrefix)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.Close()
			}
			return nil, fmt.Errorf("storage driver postgres: %w", err)
		}
		c.closers = append(c.closers, kv.Close)
		return kv, nil
	case "memory", "":
		mem := storage.NewMemoryStore(cfg.Storage.KeyPrefix)
		c.closers = append(c.closers, mem.Close)
		return mem, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

func connectRedis(ctx context.Context, url string, sysLogger logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Invalid REDIS_URL", map[string]interface{}{"error": err.Error()})
		return nil
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		sysLogger.Warn("Bootstrap", "Redis unavailable, websocket fan-out stays local", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return ""
}

// Start runs the background workers until ctx is done.
func (c *Container) Start(ctx context.Context) {
	go c.WebSocketHub.Run(ctx)
	stopFollow := websocket.Follow(c.WebSocketHub, c.App.Store, func(s *appstate.RootState) []entity.Notification {
		return s.UI.Notifications
	})
	c.closers = append(c.closers, func() error { stopFollow(); return nil })

	c.Connector.Start()
	c.closers = append(c.closers, func() error { c.Connector.Stop(); return nil })

	if c.devtools != nil && c.cfg.DevTools.Trace {
		msgs, err := c.devtools.Subscribe(ctx)
		if err != nil {
			c.Logger.Warn("Bootstrap", "DevTools feed unavailable", map[string]interface{}{"error": err.Error()})
			return
		}
		go c.devtools.Print(msgs, os.Stdout)
	}
}

// RegisterRoutes mounts every controller under r.
func (c *Container) RegisterRoutes(r fiber.Router) {
	c.AuthController.RegisterRoutes(r)
	c.ContractorController.RegisterRoutes(r)
	c.ChatbotController.RegisterRoutes(r)
	c.UIController.RegisterRoutes(r)
	if c.DevToolsController != nil {
		c.DevToolsController.RegisterRoutes(r)
	}
}

// Close releases everything in reverse order of acquisition.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.Logger.Sync(); err != nil {
		log.Printf("logger sync: %v", err)
	}
	return errors.Join(errs...)
}
