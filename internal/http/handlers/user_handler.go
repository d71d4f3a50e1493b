package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookshelf/internal/log"
	"bookshelf/internal/services"
	"bookshelf/internal/validate"
)

type UserHandler struct {
	Users  *services.UserService
	Secure bool
}

// GET /users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "user profile fetched successfully",
		"data":    identityFrom(c),
	})
}

// PUT /users/me
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in services.ProfileUpdate
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Struct(in); errs != nil {
		return failFields(c, "validation failed", errs)
	}

	id, err := h.Users.UpdateProfile(identityFrom(c), in)
	if err != nil {
		applog.Security(c, "users.update.denied", map[string]any{"reason": err.Error()})
		return failErr(c, err)
	}
	applog.Audit(c, "users.update", nil)
	return c.JSON(fiber.Map{
		"message": "profile updated successfully",
		"data":    id,
	})
}

// DELETE /users/me
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.Users.DeleteAccount(identityFrom(c)); err != nil {
		applog.Security(c, "users.delete.denied", map[string]any{"reason": err.Error()})
		return failErr(c, err)
	}
	clearTokenCookie(c, h.Secure)
	applog.Audit(c, "users.delete", nil)
	return c.JSON(fiber.Map{"message": "account deleted successfully"})
}
