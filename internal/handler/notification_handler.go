package handler

import (
	"context"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/serverutils"
	"buildhub-state/internal/pkg/validation"
	"buildhub-state/internal/slice/auth"
	internalWS "buildhub-state/internal/websocket"
	"buildhub-state/pkg/events"
	"buildhub-state/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// EventPublisher puts live-update events on the bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// NotificationHandler serves the websocket feed and lets operators push
// live-update events onto the bus.
type NotificationHandler struct {
	tokens    *auth.TokenIssuer
	publisher EventPublisher
	hub       *internalWS.Hub
	logger    store.Logger
}

// NewNotificationHandler accepts a nil publisher; the publish routes then
// answer 503.
func NewNotificationHandler(tokens *auth.TokenIssuer, pub EventPublisher, hub *internalWS.Hub, log store.Logger) *NotificationHandler {
	if log == nil {
		log = store.NopLogger()
	}
	return &NotificationHandler{tokens: tokens, publisher: pub, hub: hub, logger: log}
}

// RegisterRoutes mounts the feed at /ws on root and the publish routes
// under api.
func (h *NotificationHandler) RegisterRoutes(root, api fiber.Router) {
	root.Get("/ws", h.ServeWs)

	ev := api.Group("/events", serverutils.JwtMiddleware(h.tokens))
	ev.Post("/notifications", h.PublishNotification)
	ev.Post("/contractors", h.PublishContractorUpdate)
}

// ServeWs authenticates the session token and upgrades to the feed.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := serverutils.BearerToken(c)
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "code": 401, "message": "Missing token"})
	}

	claims, err := h.tokens.Parse(tokenStr)
	if err != nil {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "code": 401, "message": "Invalid token"})
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "code": 401, "message": "Invalid user ID in token"})
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NotificationHandler", "WebSocket session started", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *NotificationHandler) PublishNotification(c *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validation.Validator().Struct(&req); err != nil {
		return err
	}
	return h.publish(c, events.New(events.TypeNotification, map[string]interface{}{
		"type":     string(req.Type),
		"title":    req.Title,
		"message":  req.Message,
		"duration": req.Duration,
	}))
}

func (h *NotificationHandler) PublishContractorUpdate(c *fiber.Ctx) error {
	var req entity.Contractor
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Contractor id is required")
	}
	return h.publish(c, events.New(events.TypeContractorUpdated, map[string]interface{}{
		"id":              req.Id,
		"name":            req.Name,
		"company":         req.Company,
		"specialties":     req.Specialties,
		"location":        req.Location,
		"rating":          req.Rating,
		"reviewCount":     req.ReviewCount,
		"verified":        req.Verified,
		"hourlyRate":      req.HourlyRate,
		"yearsExperience": req.YearsExperience,
		"availability":    req.Availability,
		"description":     req.Description,
		"avatar":          req.Avatar,
	}))
}

func (h *NotificationHandler) publish(c *fiber.Ctx, ev events.Event) error {
	if h.publisher == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Event bus unavailable")
	}
	if err := h.publisher.Publish(c.UserContext(), ev); err != nil {
		h.logger.Error("NotificationHandler", "Publish failed", map[string]interface{}{"type": ev.EventType(), "error": err.Error()})
		return fiber.NewError(fiber.StatusBadGateway, "Failed to publish event")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"code":    202,
		"message": "Event published",
		"data":    fiber.Map{"subject": events.Subject(ev.EventType())},
	})
}
