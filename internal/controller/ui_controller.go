package controller

import (
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUIController interface {
	RegisterRoutes(r fiber.Router)
	State(ctx *fiber.Ctx) error
	Dashboard(ctx *fiber.Ctx) error
	SetTheme(ctx *fiber.Ctx) error
	ToggleTheme(ctx *fiber.Ctx) error
	Notifications(ctx *fiber.Ctx) error
	Notify(ctx *fiber.Ctx) error
	Dismiss(ctx *fiber.Ctx) error
	ClearNotifications(ctx *fiber.Ctx) error
	OpenModal(ctx *fiber.Ctx) error
	CloseModals(ctx *fiber.Ctx) error
	Sidebar(ctx *fiber.Ctx) error
}

type uiController struct {
	service service.IUIService
}

func NewUIController(service service.IUIService) IUIController {
	return &uiController{service: service}
}

func (c *uiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ui")
	h.Get("/", c.State)
	h.Get("/dashboard", c.Dashboard)
	h.Put("/theme", c.SetTheme)
	h.Post("/theme/toggle", c.ToggleTheme)
	h.Get("/notifications", c.Notifications)
	h.Post("/notifications", c.Notify)
	h.Delete("/notifications", c.ClearNotifications)
	h.Delete("/notifications/:id", c.Dismiss)
	h.Post("/modals/open", c.OpenModal)
	h.Post("/modals/close", c.CloseModals)
	h.Post("/sidebar", c.Sidebar)
}

func (c *uiController) State(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "UI state",
		"data":    c.service.State(),
	})
}

func (c *uiController) Dashboard(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Dashboard",
		"data":    c.service.Dashboard(),
	})
}

func (c *uiController) SetTheme(ctx *fiber.Ctx) error {
	var req dto.ThemeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	theme, err := c.service.SetTheme(&req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Theme updated",
		"data":    fiber.Map{"theme": theme},
	})
}

func (c *uiController) ToggleTheme(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Theme toggled",
		"data":    fiber.Map{"theme": c.service.ToggleTheme()},
	})
}

func (c *uiController) Notifications(ctx *fiber.Ctx) error {
	list := c.service.Notifications(entity.NotificationType(ctx.Query("type")))
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Notifications retrieved",
		"data":    list,
	})
}

func (c *uiController) Notify(ctx *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	n, err := c.service.Notify(&req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Notification added",
		"data":    n,
	})
}

func (c *uiController) Dismiss(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid notification id")
	}
	c.service.Dismiss(id)
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Notification dismissed",
		"data":    nil,
	})
}

func (c *uiController) ClearNotifications(ctx *fiber.Ctx) error {
	c.service.ClearNotifications()
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Notifications cleared",
		"data":    nil,
	})
}

func (c *uiController) OpenModal(ctx *fiber.Ctx) error {
	var req dto.ModalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	state, err := c.service.OpenModal(&req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Modal opened",
		"data":    state,
	})
}

func (c *uiController) CloseModals(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Modals closed",
		"data":    c.service.CloseModals(),
	})
}

func (c *uiController) Sidebar(ctx *fiber.Ctx) error {
	var req dto.SidebarRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Sidebar updated",
		"data":    fiber.Map{"isSidebarOpen": c.service.Sidebar(&req)},
	})
}
