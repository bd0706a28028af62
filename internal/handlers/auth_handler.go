package handlers

import (
	"healthwallet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the public authentication routes. throttle runs
// in front of these two endpoints only, not the rest of /auth.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, throttle fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", throttle, h.HandleRegister)
	authRoutes.Post("/login", throttle, h.HandleLogin)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	result, err := h.authService.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    result.User,
		"token":   result.Token,
	})
}

// HandleLogin authenticates a user and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	result, err := h.authService.Login(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    result.User,
		"token":   result.Token,
	})
}
