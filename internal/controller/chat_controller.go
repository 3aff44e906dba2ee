package controller

import (
	"cooking-coach-be/internal/pkg/serverutils"
	"cooking-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	GetRooms(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.UserContextMiddleware)
	h.Get("rooms", c.GetRooms)
	h.Get("rooms/:id/messages", c.GetMessages)
}

func (c *chatController) GetRooms(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)

	res, err := c.service.GetRooms(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat rooms", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)
	roomId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid room id")
	}

	res, err := c.service.GetMessages(ctx.Context(), userId, roomId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat messages", res))
}
