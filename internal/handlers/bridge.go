package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"apagon-map/internal/bridge"
)

// BridgeEvent handles POST /api/bridge/events — one inbound map message per
// user gesture. Malformed payloads never crash the screen: they come back as
// a 200 no-op so the map stays where it was.
func (h *Handlers) BridgeEvent(c *fiber.Ctx) error {
	if _, ok := h.requireToken(c); !ok {
		return nil
	}

	nav, ok := h.Router.Route(c.Body())
	if !ok {
		// Expected noise from the sandboxed surface: swallow, stay put.
		return c.JSON(fiber.Map{"path": nil})
	}

	return c.JSON(fiber.Map{
		"path":   nav.Path,
		"params": nav.Params,
	})
}

// BridgeCommands handles GET /api/bridge/commands — the map surface drains
// its pending host commands. Each command is delivered at most once.
func (h *Handlers) BridgeCommands(c *fiber.Ctx) error {
	if _, ok := h.requireToken(c); !ok {
		return nil
	}

	session := sessionID(c)
	raw, err := h.Cache.PopCommands(c.Context(), session)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read commands"})
	}

	commands := make([]bridge.Command, 0, len(raw))
	for _, data := range raw {
		var cmd bridge.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Printf("[bridge] dropping corrupt queued command: %v", err)
			continue
		}
		commands = append(commands, cmd)
	}
	return c.JSON(commands)
}

// PushBridgeCommand handles POST /api/bridge/commands — the host side
// enqueues a CENTER_MAP or addMarker command for the map surface. Unknown
// actions are ignored as no-ops per the bridge contract.
func (h *Handlers) PushBridgeCommand(c *fiber.Ctx) error {
	if _, ok := h.requireToken(c); !ok {
		return nil
	}

	var cmd bridge.Command
	if err := json.Unmarshal(c.Body(), &cmd); err != nil {
		log.Printf("[bridge] ignoring malformed command: %v", err)
		return c.JSON(fiber.Map{"queued": false})
	}

	data, err := bridge.EncodeCommand(cmd)
	if err != nil {
		log.Printf("[bridge] ignoring command: %v", err)
		return c.JSON(fiber.Map{"queued": false})
	}

	if err := h.Cache.PushCommand(c.Context(), sessionID(c), data); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to queue command"})
	}
	return c.JSON(fiber.Map{"queued": true})
}
