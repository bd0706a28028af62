package handlers

import (
	"errors"
	"strconv"

	"healthwallet/internal/errs"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler as {"error": message}.
// Errors without a known kind become a 500 whose text is only exposed, as
// "detail", when development is true.
func ErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := classify(err)
		body := fiber.Map{"error": message}
		if status == fiber.StatusInternalServerError && development {
			body["detail"] = err.Error()
		}
		return c.Status(status).JSON(body)
	}
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	message := errs.Message(err)
	switch {
	case errors.Is(err, errs.ErrValidation):
		return fiber.StatusBadRequest, orDefault(message, "Invalid request")
	case errors.Is(err, errs.ErrUnauthorized):
		return fiber.StatusUnauthorized, orDefault(message, "Unauthorized")
	case errors.Is(err, errs.ErrNotFound):
		return fiber.StatusNotFound, orDefault(message, "Not found")
	case errors.Is(err, errs.ErrConflict):
		return fiber.StatusConflict, orDefault(message, "Conflict")
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// paramID reads a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validation("Invalid " + name)
	}
	return uint(id), nil
}

// parseBody decodes a JSON request body into dst.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errs.Validation("Invalid request body")
	}
	return nil
}
