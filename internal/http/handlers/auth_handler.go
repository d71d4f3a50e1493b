package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "bookshelf/internal/log"
	"bookshelf/internal/services"
	"bookshelf/internal/validate"
)

type AuthHandler struct {
	Auth   *services.AuthService
	TTL    time.Duration
	Secure bool
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user guest"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Struct(req); errs != nil {
		return failFields(c, "validation failed", errs)
	}

	u, token, err := h.Auth.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"email": req.Email, "reason": err.Error()})
		return failErr(c, err)
	}

	setTokenCookie(c, token, h.TTL, h.Secure)
	applog.Audit(c, "auth.register.success", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user registered successfully",
		"user":    u.Identity(),
	})
}

// POST /auth/login
//
// A request that already carries a resolvable token short-circuits: the
// session gets a fresh token (sliding expiry) and credentials are not
// checked. A broken cookie is cleared and the normal credential path runs.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if existing := c.Cookies(tokenCookie); existing != "" {
		if id, err := h.Auth.Resolve(existing); err == nil {
			setTokenCookie(c, h.Auth.Reissue(id), h.TTL, h.Secure)
			applog.Info(c, "auth.login.refresh", map[string]any{"user_id": id.ID})
			return c.JSON(fiber.Map{
				"message": "already logged in, session refreshed",
				"user":    id,
			})
		}
		clearTokenCookie(c, h.Secure)
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Struct(req); errs != nil {
		return failFields(c, "validation failed", errs)
	}

	u, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return failErr(c, err)
	}

	setTokenCookie(c, token, h.TTL, h.Secure)
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{
		"message": "login successful",
		"user":    u.Identity(),
	})
}

// POST /auth/guest/login
func (h *AuthHandler) GuestLogin(c *fiber.Ctx) error {
	id, token := h.Auth.GuestLogin()
	setTokenCookie(c, token, h.TTL, h.Secure)
	applog.Audit(c, "auth.guest.login", map[string]any{"guest_id": id.ID})
	return c.JSON(fiber.Map{
		"message": "guest login successful, access is limited",
		"user":    id,
	})
}

// POST /auth/logout
//
// Clears the cookie unconditionally; never inspects token state, so it
// cannot fail on an expired or mangled session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearTokenCookie(c, h.Secure)
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"message": "logout successful, token cookie cleared"})
}
