package controller

import (
	"buildhub-state/internal/dto"
	"buildhub-state/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContractorController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Page(ctx *fiber.Ctx) error
	SetPage(ctx *fiber.Ctx) error
	SetFilters(ctx *fiber.Ctx) error
	ClearFilters(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type contractorController struct {
	service service.IContractorService
}

func NewContractorController(service service.IContractorService) IContractorController {
	return &contractorController{service: service}
}

func (c *contractorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/contractors")
	h.Get("/", c.List)
	h.Get("/search", c.Search)
	h.Get("/stats", c.Stats)
	h.Get("/page", c.Page)
	h.Put("/page", c.SetPage)
	h.Put("/filters", c.SetFilters)
	h.Delete("/filters", c.ClearFilters)
	h.Get("/:id", c.Show)
}

func (c *contractorController) List(ctx *fiber.Ctx) error {
	var params dto.ListContractorsParams
	if err := ctx.QueryParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	page, err := c.service.List(ctx.UserContext(), params)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Contractors loaded",
		"data":    page,
	})
}

func (c *contractorController) Search(ctx *fiber.Ctx) error {
	page, err := c.service.Search(ctx.UserContext(), ctx.Query("q"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Search complete",
		"data":    page,
	})
}

func (c *contractorController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Contractor stats",
		"data":    c.service.Stats(),
	})
}

func (c *contractorController) Page(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Contractor page",
		"data":    c.service.Page(),
	})
}

func (c *contractorController) SetPage(ctx *fiber.Ctx) error {
	var req dto.SetPageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	page, err := c.service.SetPage(&req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Page updated",
		"data":    page,
	})
}

func (c *contractorController) SetFilters(ctx *fiber.Ctx) error {
	var req dto.ContractorFiltersPatch
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	page, err := c.service.SetFilters(&req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Filters updated",
		"data":    page,
	})
}

func (c *contractorController) ClearFilters(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Filters cleared",
		"data":    c.service.ClearFilters(),
	})
}

func (c *contractorController) Show(ctx *fiber.Ctx) error {
	contractor, err := c.service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Contractor loaded",
		"data":    contractor,
	})
}
