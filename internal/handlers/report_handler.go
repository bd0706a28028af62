package handlers

import (
	"io"
	"mime/multipart"

	"healthwallet/internal/middleware"
	"healthwallet/internal/models"
	"healthwallet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles HTTP requests for reports.
type ReportHandler struct {
	service *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers the report routes. /search is registered before
// /:id so it is not read as an id.
func (h *ReportHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	reportRoutes := router.Group("/reports", authRequired)
	reportRoutes.Post("/", h.HandleUpload)
	reportRoutes.Get("/", h.HandleList)
	reportRoutes.Get("/search", h.HandleSearch)
	reportRoutes.Get("/:id", h.HandleGet)
	reportRoutes.Put("/:id", h.HandleUpdate)
	reportRoutes.Delete("/:id", h.HandleDelete)
	reportRoutes.Get("/:id/download", h.HandleDownload)
}

// HandleUpload stores a multipart upload: a "file" part plus title, type,
// date and an optional JSON "vitals" field.
func (h *ReportHandler) HandleUpload(c *fiber.Ctx) error {
	tags, err := services.ParseTags(c.FormValue("vitals"))
	if err != nil {
		return err
	}
	in := services.ReportInput{
		Title: c.FormValue("title"),
		Type:  c.FormValue("type"),
		Date:  c.FormValue("date"),
		Tags:  tags,
	}

	var file *multipart.FileHeader
	if fh, err := c.FormFile("file"); err == nil {
		file = fh
	}

	report, err := h.service.Create(c.UserContext(), middleware.UserID(c), in, file)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Report uploaded successfully",
		"report":  report,
	})
}

// HandleList returns the caller's reports, filtered by date, type and vitalType.
func (h *ReportHandler) HandleList(c *fiber.Ctx) error {
	filter := models.ReportFilter{
		Date:      c.Query("date"),
		Type:      c.Query("type"),
		VitalType: c.Query("vitalType"),
	}
	reports, err := h.service.List(c.UserContext(), middleware.UserID(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(reports)
}

func (h *ReportHandler) HandleSearch(c *fiber.Ctx) error {
	reports, err := h.service.Search(c.UserContext(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(reports)
}

func (h *ReportHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.service.Get(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// HandleUpdate changes the title, type and date of a report.
func (h *ReportHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in services.ReportInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.service.Update(c.UserContext(), id, middleware.UserID(c), in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Report updated successfully"})
}

func (h *ReportHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	warnings, err := h.service.Delete(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(withWarnings(fiber.Map{"message": "Report deleted successfully"}, warnings))
}

func (h *ReportHandler) HandleDownload(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	report, rc, err := h.service.Open(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return err
	}
	return sendReportFile(c, report, rc)
}

// sendReportFile streams rc as an attachment named after the uploaded file.
// The stream is closed once the response body has been written.
func sendReportFile(c *fiber.Ctx, report *models.Report, rc io.ReadCloser) error {
	c.Attachment(report.FileName)
	if report.FileType != "" {
		c.Set(fiber.HeaderContentType, report.FileType)
	}
	size := -1
	if report.FileSize > 0 {
		size = int(report.FileSize)
	}
	return c.SendStream(rc, size)
}
