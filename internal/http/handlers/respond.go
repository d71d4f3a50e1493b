package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bookshelf/internal/services"
	"bookshelf/internal/validate"
)

// fail renders the {message} error body shape.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

// failFields renders validation failures as {message, errors}.
func failFields(c *fiber.Ctx, message string, errs []validate.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message, "errors": errs})
}

// failErr maps service sentinels to the error taxonomy. Unknown errors
// bubble to the top-level fiber error handler, which renders a 500.
func failErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrEmailInUse),
		errors.Is(err, services.ErrInvalidRole):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrBadCreds),
		errors.Is(err, services.ErrNoToken),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrExpiredToken),
		errors.Is(err, services.ErrSubjectGone):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotBookOwner),
		errors.Is(err, services.ErrRoleEscalation),
		errors.Is(err, services.ErrGuestProfile),
		errors.Is(err, services.ErrGuestLibrary),
		errors.Is(err, services.ErrAdminSelfWipe),
		errors.Is(err, services.ErrLastAdmin):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrBookNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEntryNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateEntry):
		return fail(c, fiber.StatusConflict, err.Error())
	}
	return err
}
