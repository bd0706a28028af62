package handlers

import (
	"healthwallet/internal/middleware"
	"healthwallet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the authenticated user's own account.
type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers the account routes under /auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	me := router.Group("/auth")
	me.Get("/me", authRequired, h.HandleProfile)
	me.Put("/me", authRequired, h.HandleUpdateProfile)
	me.Delete("/me", authRequired, h.HandleDelete)
	me.Put("/password", authRequired, h.HandleChangePassword)
}

func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.service.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var in services.UpdateProfileInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.service.UpdateProfile(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	var in services.ChangePasswordInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.service.ChangePassword(c.UserContext(), middleware.UserID(c), in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// HandleDelete removes the account with all of its data.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	warnings, err := h.service.Delete(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(withWarnings(fiber.Map{"message": "Account deleted successfully"}, warnings))
}

func withWarnings(body fiber.Map, warnings []string) fiber.Map {
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	return body
}
