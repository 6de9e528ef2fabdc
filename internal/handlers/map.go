package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"apagon-map/internal/maprender"
)

// MapPage handles GET /map — the embedded sector map surface.
// The browser forwards its geolocation as ?lat=&lng=&accuracy=; all three
// are optional, and a denied permission simply renders the fallback view.
func (h *Handlers) MapPage(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}

	sectorList, err := h.Sectors.Snapshot(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to load sectors"})
	}

	var position *maprender.Position
	if lat, errLat := strconv.ParseFloat(c.Query("lat"), 64); errLat == nil {
		if lng, errLng := strconv.ParseFloat(c.Query("lng"), 64); errLng == nil {
			accuracy, _ := strconv.ParseFloat(c.Query("accuracy"), 64)
			position = &maprender.Position{Lat: lat, Lng: lng, Accuracy: accuracy}
		}
	}

	page, err := maprender.Render(maprender.Params{
		Position:    position,
		FallbackLat: h.Cfg.MapLat,
		FallbackLng: h.Cfg.MapLng,
		Sectors:     sectorList,
		EventURL:    "/api/bridge/events",
		CommandURL:  "/api/bridge/commands",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render map"})
	}

	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(page)
}

// GetSectors handles GET /api/sectors — the normalized sector snapshot.
func (h *Handlers) GetSectors(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}

	sectorList, err := h.Sectors.Snapshot(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to load sectors"})
	}
	return c.JSON(sectorList)
}

// Status handles GET /api/status — liveness plus backend reachability.
func (h *Handlers) Status(c *fiber.Ctx) error {
	backendUp := true
	if h.Prober != nil {
		backendUp = h.Prober.Reachable()
	}
	return c.JSON(fiber.Map{
		"status":     "ok",
		"backend_up": backendUp,
	})
}
