package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookshelf/internal/log"
	"bookshelf/internal/services"
	"bookshelf/internal/validate"
)

type LibraryHandler struct {
	Library *services.LibraryService
}

// GET /library
func (h *LibraryHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" {
		if errs := validate.Struct(services.EntryInput{Status: status}); errs != nil {
			return failFields(c, "validation failed", errs)
		}
	}
	page, limit := validate.Pagination(c.Query("page"), c.Query("limit"))
	result, err := h.Library.List(identityFrom(c).ID, status, page, limit)
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(fiber.Map{
		"totalItems":  result.TotalItems,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
		"books":       result.Items,
	})
}

// POST /library/:bookId
func (h *LibraryHandler) Add(c *fiber.Ctx) error {
	var in services.EntryInput
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Struct(in); errs != nil {
		return failFields(c, "validation failed", errs)
	}

	entry, err := h.Library.Add(identityFrom(c), c.Params("bookId"), in)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "library.add", map[string]any{"book_id": entry.BookID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "book added to your library",
		"libraryEntry": entry,
	})
}

// PUT /library/:bookId
func (h *LibraryHandler) Update(c *fiber.Ctx) error {
	var in services.EntryUpdate
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Struct(in); errs != nil {
		return failFields(c, "validation failed", errs)
	}

	entry, err := h.Library.Update(identityFrom(c).ID, c.Params("bookId"), in)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "library.update", map[string]any{"book_id": entry.BookID})
	return c.JSON(fiber.Map{
		"message":      "library entry updated",
		"libraryEntry": entry,
	})
}

// DELETE /library/:bookId
func (h *LibraryHandler) Remove(c *fiber.Ctx) error {
	if err := h.Library.Remove(identityFrom(c).ID, c.Params("bookId")); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "library.remove", map[string]any{"book_id": c.Params("bookId")})
	return c.SendStatus(fiber.StatusNoContent)
}
