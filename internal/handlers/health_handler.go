package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth reports OK when the database answers a ping within two seconds.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if err := h.ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "ERROR",
			"message":   "Database unavailable",
			"timestamp": timestamp,
		})
	}
	return c.JSON(fiber.Map{
		"status":    "OK",
		"message":   "Health Wallet API is running",
		"timestamp": timestamp,
	})
}

func (h *HealthHandler) ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
