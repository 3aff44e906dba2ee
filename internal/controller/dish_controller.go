package controller

import (
	"cooking-coach-be/internal/pkg/serverutils"
	"cooking-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDishController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type dishController struct {
	service service.IDishService
}

func NewDishController(service service.IDishService) IDishController {
	return &dishController{service: service}
}

func (c *dishController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dish/v1")
	h.Use(serverutils.UserContextMiddleware)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
}

func (c *dishController) GetAll(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)

	res, err := c.service.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all dishes", res))
}

func (c *dishController) Show(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)
	dishId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid dish id")
	}

	res, err := c.service.Show(ctx.Context(), userId, dishId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show dish", res))
}
