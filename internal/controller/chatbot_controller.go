package controller

import (
	"buildhub-state/internal/dto"
	"buildhub-state/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	ClearMessages(ctx *fiber.Ctx) error
	Open(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	Toggle(ctx *fiber.Ctx) error
	Conversation(ctx *fiber.Ctx) error
	NewConversation(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service service.IChatbotService
}

func NewChatbotController(service service.IChatbotService) IChatbotController {
	return &chatbotController{service: service}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot")
	h.Get("/", c.Status)
	h.Get("/messages", c.Messages)
	h.Post("/messages", c.Send)
	h.Delete("/messages", c.ClearMessages)
	h.Post("/open", c.Open)
	h.Post("/close", c.Close)
	h.Post("/toggle", c.Toggle)
	h.Get("/conversations", c.Conversation)
	h.Post("/conversations", c.NewConversation)
}

func (c *chatbotController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chatbot status",
		"data":    c.service.Status(),
	})
}

func (c *chatbotController) Messages(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Messages retrieved",
		"data":    c.service.Messages(),
	})
}

func (c *chatbotController) Send(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	reply, err := c.service.Send(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Message sent",
		"data":    reply,
	})
}

func (c *chatbotController) ClearMessages(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Messages cleared",
		"data":    c.service.ClearMessages(),
	})
}

func (c *chatbotController) Open(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat opened",
		"data":    c.service.Open(),
	})
}

func (c *chatbotController) Close(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat closed",
		"data":    c.service.Close(),
	})
}

func (c *chatbotController) Toggle(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Chat toggled",
		"data":    c.service.Toggle(),
	})
}

func (c *chatbotController) Conversation(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Conversation summary",
		"data":    c.service.Summary(),
	})
}

func (c *chatbotController) NewConversation(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Conversation started",
		"data":    c.service.NewConversation(),
	})
}
