package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ErrorHandlerMiddleware converts unhandled errors into a uniform JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		return ctx.Status(code).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}

// UserContextMiddleware resolves the authenticated user from the gateway header.
// Authentication itself is handled upstream (external collaborator); the API
// only needs the resolved owner id.
func UserContextMiddleware(ctx *fiber.Ctx) error {
	raw := ctx.Get("X-User-Id")
	if raw == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing user identity"})
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user identity"})
	}
	ctx.Locals("user_id", userId)
	return ctx.Next()
}

// UserIdFromLocals returns the uuid set by UserContextMiddleware.
func UserIdFromLocals(ctx *fiber.Ctx) (uuid.UUID, bool) {
	userId, ok := ctx.Locals("user_id").(uuid.UUID)
	return userId, ok
}
