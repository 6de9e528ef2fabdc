package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"apagon-map/internal/auth"
	"apagon-map/internal/models"
	"apagon-map/internal/reports"
)

// CreateReport handles POST /api/reports — the submission flow. The form is
// multipart: draft fields plus an optional "file" image. Validation failures
// are field-specific 400s issued before any backend call.
func (h *Handlers) CreateReport(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}

	draft := models.AddReport{
		Latitude:    c.FormValue("latitude"),
		Longitude:   c.FormValue("longitude"),
		SectorID:    c.FormValue("sectorId"),
		Description: c.FormValue("description"),
		PowerStatus: models.PowerStatus(c.FormValue("powerStatus")),
		Status:      "RECEIVED",
	}
	if draft.PowerStatus == "" {
		draft.PowerStatus = models.Power
	}

	var attachment *reports.ImageAttachment
	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable image"})
		}
		defer file.Close()
		attachment = &reports.ImageAttachment{Filename: fileHeader.Filename, Data: file}
	}

	report, err := h.Reports.Submit(c.Context(), token, draft, attachment)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrDescriptionRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "la descripción es requerida", "field": "description"})
		case errors.Is(err, reports.ErrCoordinatesRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "las coordenadas son requeridas", "field": "coordinates"})
		case errors.Is(err, reports.ErrInvalidPowerStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "estado de energía inválido", "field": "powerStatus"})
		default:
			// Draft stays with the client for retry.
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudo crear el reporte"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// MyReports handles GET /api/reports — the caller's own reports, optionally
// filtered by ?status=.
func (h *Handlers) MyReports(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}

	userID, err := auth.UserIDFromToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session token"})
	}

	list, err := h.ReportClient.GetReports(c.Context(), token, userID, c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudieron cargar los reportes"})
	}
	if list == nil {
		list = make([]models.Report, 0)
	}
	return c.JSON(list)
}

// CurrentSector handles GET /api/sectors/current?lat=&lng= — which sector
// contains a point; the report screen uses it to pre-fill sectorId.
func (h *Handlers) CurrentSector(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "lat and lng are required"})
	}

	sector, err := h.SectorClient.GetCurrentSector(c.Context(), token, lat, lng)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudo resolver el sector"})
	}
	return c.JSON(sector)
}
