package controller

import (
	"errors"

	"buildhub-state/internal/pkg/logger"
	"buildhub-state/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IDevToolsController exposes store internals. It is only mounted outside
// production.
type IDevToolsController interface {
	RegisterRoutes(r fiber.Router)
	State(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
	Log(ctx *fiber.Ctx) error
}

type devToolsController struct {
	service service.IDevToolsService
}

func NewDevToolsController(service service.IDevToolsService) IDevToolsController {
	return &devToolsController{service: service}
}

func (c *devToolsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/devtools")
	h.Get("/state", c.State)
	h.Post("/reset", c.Reset)
	h.Get("/logs", c.Logs)
	h.Get("/logs/:id", c.Log)
}

func (c *devToolsController) State(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Store state",
		"data":    c.service.State(),
	})
}

func (c *devToolsController) Reset(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Store reset",
		"data":    c.service.Reset(),
	})
}

func (c *devToolsController) Logs(ctx *fiber.Ctx) error {
	logs, err := c.service.Logs(ctx.Query("level"), ctx.QueryInt("limit", 50), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Logs retrieved",
		"data":    logs,
	})
}

func (c *devToolsController) Log(ctx *fiber.Ctx) error {
	entry, err := c.service.Log(ctx.Params("id"))
	if errors.Is(err, logger.ErrLogNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Log not found")
	}
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Log retrieved",
		"data":    entry,
	})
}
