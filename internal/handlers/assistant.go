package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AssistantChat handles POST /api/assistant — the informational assistant.
func (h *Handlers) AssistantChat(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}

	reply, err := h.Assistant.Chat(c.Context(), token, req.Message)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "el asistente no está disponible"})
	}
	return c.JSON(reply)
}
