package Controllers

import (
	"errors"

	"Inspector/Models"

	"github.com/gofiber/fiber/v2"
)

// mapDomainError converts the model layer's typed errors into the JSON
// responses the clients expect.
func mapDomainError(ctx *fiber.Ctx, err error) error {
	var notFound *Models.NotFoundError
	if errors.As(err, &notFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFound.Error(),
		})
	}

	var configuration *Models.ConfigurationError
	if errors.As(err, &configuration) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": configuration.Error(),
		})
	}

	var validation *Models.ValidationError
	if errors.As(err, &validation) {
		response := fiber.Map{"error": validation.Reason}
		if len(validation.Items) > 0 {
			response["items"] = validation.Items
		}
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(response)
	}

	var invalidState *Models.InvalidStateError
	if errors.As(err, &invalidState) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": invalidState.Error(),
		})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Database error",
	})
}
