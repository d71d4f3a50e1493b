package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookshelf/internal/domain"
	applog "bookshelf/internal/log"
	"bookshelf/internal/services"
	"bookshelf/internal/validate"
)

type BookHandler struct {
	Books *services.BookService
}

// viewer returns the resolved identity, or nil on anonymous requests.
func viewer(c *fiber.Ctx) *domain.Identity {
	if id, ok := c.Locals("identity").(domain.Identity); ok {
		return &id
	}
	return nil
}

// GET /books
func (h *BookHandler) List(c *fiber.Ctx) error {
	page, limit := validate.Pagination(c.Query("page"), c.Query("limit"))
	result, err := h.Books.List(services.BookQuery{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
		Author: c.Query("author"),
		Page:   page,
		Limit:  limit,
		Viewer: viewer(c),
	})
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

// GET /books/:id
func (h *BookHandler) Get(c *fiber.Ctx) error {
	b, err := h.Books.Get(viewer(c), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(b)
}

// POST /books
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var in services.BookInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Struct(in); errs != nil {
		return failFields(c, "validation failed", errs)
	}

	b, err := h.Books.Create(identityFrom(c), in)
	if err != nil {
		applog.Error(c, "books.create.fail", err, nil)
		return failErr(c, err)
	}
	applog.Audit(c, "books.create", map[string]any{"book_id": b.ID})
	return c.Status(fiber.StatusCreated).JSON(b)
}

// PUT /books/:id
func (h *BookHandler) Update(c *fiber.Ctx) error {
	var in services.BookUpdate
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if errs := validate.Struct(in); errs != nil {
		return failFields(c, "validation failed", errs)
	}

	b, err := h.Books.Update(identityFrom(c), c.Params("id"), in)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "books.update", map[string]any{"book_id": b.ID})
	return c.JSON(b)
}

// DELETE /books/:id
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	if err := h.Books.Delete(identityFrom(c), c.Params("id")); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "books.delete", map[string]any{"book_id": c.Params("id")})
	return c.SendStatus(fiber.StatusNoContent)
}
