package handlers

import (
	"healthwallet/internal/middleware"
	"healthwallet/internal/services"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/dashboard/stats", authRequired, h.HandleStats)
}

// HandleStats returns counts, vital aggregates and the latest vital in one response.
func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
