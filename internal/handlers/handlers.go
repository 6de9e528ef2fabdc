// Package handlers wires the web client's screens and the map bridge onto
// Fiber routes. Every backend failure surfaces as a recoverable JSON error;
// the map screen stays usable after any of them.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"apagon-map/internal/assistant"
	"apagon-map/internal/auth"
	"apagon-map/internal/cache"
	"apagon-map/internal/config"
	"apagon-map/internal/ping"
	"apagon-map/internal/reports"
	"apagon-map/internal/routing"
	"apagon-map/internal/sectors"
)

type Handlers struct {
	Cfg          *config.Config
	Sectors      *sectors.Store
	SectorClient *sectors.Client
	Reports      *reports.Service
	ReportClient *reports.Client
	Auth         *auth.Client
	Sessions     *auth.Sessions
	Assistant    *assistant.Client
	Router       *routing.Router
	Cache        *cache.Cache
	Prober       *ping.Prober
}

// RegisterRoutes mounts everything on the app.
func (h *Handlers) RegisterRoutes(app *fiber.App) {
	app.Get("/map", h.MapPage)

	api := app.Group("/api")
	api.Get("/status", h.Status)

	api.Post("/auth/login", h.Login)
	api.Post("/auth/logout", h.Logout)
	api.Post("/auth/register", h.Register)
	api.Post("/auth/recover/send", h.SendRecovery)
	api.Post("/auth/recover/validate", h.ValidateRecovery)
	api.Post("/auth/recover", h.RecoverPassword)
	api.Get("/profile", h.Profile)
	api.Put("/profile", h.UpdateProfile)

	api.Get("/sectors", h.GetSectors)
	api.Get("/sectors/current", h.CurrentSector)
	api.Get("/sectors/:id/uptime", h.SectorUptime)

	api.Post("/reports", h.CreateReport)
	api.Get("/reports", h.MyReports)

	api.Post("/bridge/events", h.BridgeEvent)
	api.Get("/bridge/commands", h.BridgeCommands)
	api.Post("/bridge/commands", h.PushBridgeCommand)

	api.Post("/assistant", h.AssistantChat)
}

// token resolves the caller's backend JWT from the session cookie.
func (h *Handlers) token(c *fiber.Ctx) (string, error) {
	sessionID := c.Cookies(auth.SessionCookie)
	if sessionID == "" {
		return "", cache.ErrNotFound
	}
	return h.Sessions.Token(c.Context(), sessionID)
}

// requireToken resolves the token or writes a 401.
func (h *Handlers) requireToken(c *fiber.Ctx) (string, bool) {
	token, err := h.token(c)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session lookup failed"})
			return "", false
		}
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		return "", false
	}
	return token, true
}

// sessionID returns the caller's session id, or "" when anonymous.
func sessionID(c *fiber.Ctx) string {
	return c.Cookies(auth.SessionCookie)
}
