package handlers

import (
	"healthwallet/internal/middleware"
	"healthwallet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ShareHandler handles report sharing.
type ShareHandler struct {
	service *services.ShareService
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(service *services.ShareService) *ShareHandler {
	return &ShareHandler{service: service}
}

// RegisterRoutes registers the share routes.
func (h *ShareHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	shareRoutes := router.Group("/share", authRequired)
	shareRoutes.Post("/reports/:id", h.HandleShare)
	shareRoutes.Get("/reports/:id", h.HandleListForReport)
	shareRoutes.Delete("/reports/:id", h.HandleRevokeAll)
	shareRoutes.Get("/with-me", h.HandleSharedWithMe)
	shareRoutes.Get("/with-me/:id/download", h.HandleDownloadShared)
	shareRoutes.Get("/by-me", h.HandleSharedByMe)
	shareRoutes.Patch("/:shareId", h.HandleUpdateAccess)
	shareRoutes.Delete("/:shareId", h.HandleRevoke)
}

// HandleShare grants an e-mail address access to one of the caller's reports.
func (h *ShareHandler) HandleShare(c *fiber.Ctx) error {
	reportID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in services.ShareInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	share, err := h.service.Share(c.UserContext(), reportID, middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Report shared successfully",
		"share":   share,
	})
}

func (h *ShareHandler) HandleListForReport(c *fiber.Ctx) error {
	reportID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	shares, err := h.service.ListForReport(c.UserContext(), reportID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(shares)
}

func (h *ShareHandler) HandleRevokeAll(c *fiber.Ctx) error {
	reportID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.service.RevokeAll(c.UserContext(), reportID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Access revoked successfully",
		"revoked": n,
	})
}

// HandleSharedWithMe lists reports currently shared with the caller's e-mail.
func (h *ShareHandler) HandleSharedWithMe(c *fiber.Ctx) error {
	reports, err := h.service.SharedWith(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(reports)
}

func (h *ShareHandler) HandleDownloadShared(c *fiber.Ctx) error {
	reportID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, rc, err := h.service.OpenShared(c.UserContext(), reportID, middleware.UserID(c))
	if err != nil {
		return err
	}
	return sendReportFile(c, report, rc)
}

func (h *ShareHandler) HandleSharedByMe(c *fiber.Ctx) error {
	shares, err := h.service.SharedBy(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(shares)
}

func (h *ShareHandler) HandleUpdateAccess(c *fiber.Ctx) error {
	shareID, err := paramID(c, "shareId")
	if err != nil {
		return err
	}
	var in services.UpdateShareInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	share, err := h.service.UpdateAccess(c.UserContext(), shareID, middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Access updated successfully",
		"share":   share,
	})
}

func (h *ShareHandler) HandleRevoke(c *fiber.Ctx) error {
	shareID, err := paramID(c, "shareId")
	if err != nil {
		return err
	}
	if err := h.service.Revoke(c.UserContext(), shareID, middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Access revoked successfully"})
}
