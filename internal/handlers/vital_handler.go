package handlers

import (
	"strconv"

	"healthwallet/internal/errs"
	"healthwallet/internal/middleware"
	"healthwallet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// VitalHandler handles HTTP requests for vital readings.
type VitalHandler struct {
	service *services.VitalService
}

// NewVitalHandler creates a new VitalHandler.
func NewVitalHandler(service *services.VitalService) *VitalHandler {
	return &VitalHandler{service: service}
}

// RegisterRoutes registers the vital routes. The fixed paths come before /:id.
func (h *VitalHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	vitalRoutes := router.Group("/vitals", authRequired)
	vitalRoutes.Post("/", h.HandleCreate)
	vitalRoutes.Get("/", h.HandleList)
	vitalRoutes.Get("/stats", h.HandleStats)
	vitalRoutes.Get("/latest", h.HandleLatest)
	vitalRoutes.Get("/chart", h.HandleChart)
	vitalRoutes.Get("/:id", h.HandleGet)
	vitalRoutes.Put("/:id", h.HandleUpdate)
	vitalRoutes.Delete("/:id", h.HandleDelete)
}

func vitalQuery(c *fiber.Ctx) (services.VitalQuery, error) {
	q := services.VitalQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, errs.Validation("limit must be an integer")
		}
		q.Limit = limit
	}
	return q, nil
}

func (h *VitalHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.VitalInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	vital, err := h.service.Create(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Vital added successfully",
		"vital":   vital,
	})
}

// HandleList returns the caller's vitals, newest first.
func (h *VitalHandler) HandleList(c *fiber.Ctx) error {
	q, err := vitalQuery(c)
	if err != nil {
		return err
	}
	vitals, err := h.service.List(c.UserContext(), middleware.UserID(c), q)
	if err != nil {
		return err
	}
	return c.JSON(vitals)
}

func (h *VitalHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// HandleLatest returns the most recent vital, or null when there is none.
func (h *VitalHandler) HandleLatest(c *fiber.Ctx) error {
	vital, err := h.service.Latest(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(vital)
}

func (h *VitalHandler) HandleChart(c *fiber.Ctx) error {
	q, err := vitalQuery(c)
	if err != nil {
		return err
	}
	points, err := h.service.Chart(c.UserContext(), middleware.UserID(c), q)
	if err != nil {
		return err
	}
	return c.JSON(points)
}

func (h *VitalHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	vital, err := h.service.Get(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(vital)
}

func (h *VitalHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in services.VitalInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.service.Update(c.UserContext(), id, middleware.UserID(c), in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Vital updated successfully"})
}

func (h *VitalHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Vital deleted successfully"})
}
