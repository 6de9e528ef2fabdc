package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultUptimeLookback is the statistics screen's default range.
const DefaultUptimeLookback = 30 * 24 * time.Hour

// uptimeTimeLayout is the backend's ISO-8601-local datetime format.
const uptimeTimeLayout = "2006-01-02T15:04:05"

// SectorUptime handles GET /api/sectors/:id/uptime — the statistics screen.
// Query params start/end default to the last 30 days. The aggregate is
// fetched fresh per visit, never cached across sectors.
func (h *Handlers) SectorUptime(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}

	sectorID, err := c.ParamsInt("id")
	if err != nil || sectorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sector id"})
	}

	now := time.Now()
	start := now.Add(-DefaultUptimeLookback).Format(uptimeTimeLayout)
	end := now.Format(uptimeTimeLayout)

	if v := c.Query("start"); v != "" {
		if _, err := time.Parse(uptimeTimeLayout, v); err == nil {
			start = v
		}
	}
	if v := c.Query("end"); v != "" {
		if _, err := time.Parse(uptimeTimeLayout, v); err == nil {
			end = v
		}
	}

	history, err := h.SectorClient.GetSectorUptime(c.Context(), token, int64(sectorID), start, end)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudieron cargar las estadísticas"})
	}

	return c.JSON(fiber.Map{
		"sector":        history.Sector,
		"start":         history.Start,
		"end":           history.End,
		"percentage":    history.Percentage,
		"powerHours":    history.PowerHours,
		"totalHours":    history.TotalHours,
		"downtimeHours": history.DowntimeHours(),
	})
}
