package controller

import (
	"cooking-coach-be/internal/dto"
	"cooking-coach-be/internal/pkg/serverutils"
	"cooking-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	ConfirmUpload(ctx *fiber.Ctx) error
	Retry(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetProfile(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.UserContextMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("profile", c.GetProfile)
	h.Get(":id", c.Show)
	h.Post(":id/confirm-upload", c.ConfirmUpload)
	h.Post(":id/retry", c.Retry)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) ConfirmUpload(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.ConfirmUpload(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success confirm upload", res))
}

func (c *sessionController) Retry(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.Retry(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success retry session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.Show(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) GetAll(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)

	res, err := c.service.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *sessionController) GetProfile(ctx *fiber.Ctx) error {
	userId, _ := serverutils.UserIdFromLocals(ctx)

	res, err := c.service.GetProfile(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get learner profile", res))
}
