package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"apagon-map/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login — Basic credentials are exchanged for a
// backend JWT, which is kept server-side under a session cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	token, err := h.Auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "credenciales inválidas"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "error al iniciar sesión"})
	}

	session, err := h.Sessions.Create(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create session"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    session,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Duration(h.Cfg.SessionTTL) * time.Second),
	})
	return c.JSON(fiber.Map{"status": "ok"})
}

// Logout handles POST /api/auth/logout.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if session := sessionID(c); session != "" {
		_ = h.Sessions.Destroy(c.Context(), session)
	}
	c.ClearCookie(auth.SessionCookie)
	return c.JSON(fiber.Map{"status": "ok"})
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var user auth.CreateUser
	if err := c.BodyParser(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.Auth.Register(c.Context(), user); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "error al registrar el usuario"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok"})
}

// SendRecovery handles POST /api/auth/recover/send.
func (h *Handlers) SendRecovery(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username is required"})
	}
	if err := h.Auth.SendRecoveryEmail(c.Context(), req.Username); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudo enviar el correo"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// ValidateRecovery handles POST /api/auth/recover/validate?token=.
func (h *Handlers) ValidateRecovery(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}
	valid, err := h.Auth.ValidateRecoveryToken(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudo validar el token"})
	}
	return c.JSON(fiber.Map{"result": valid})
}

// RecoverPassword handles POST /api/auth/recover.
func (h *Handlers) RecoverPassword(c *fiber.Ctx) error {
	var req auth.RecoverPassword
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Password == "" || req.Password != req.Repeated {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "las contraseñas no coinciden"})
	}
	if err := h.Auth.RecoverPassword(c.Context(), req); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudo cambiar la contraseña"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Profile handles GET /api/profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}
	user, err := h.Auth.GetCurrentUser(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudo cargar el perfil"})
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/profile.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	token, ok := h.requireToken(c)
	if !ok {
		return nil
	}
	var update auth.UpdateUser
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.Auth.UpdateProfile(c.Context(), token, update); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "no se pudo actualizar el perfil"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
