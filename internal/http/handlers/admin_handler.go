package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"bookshelf/internal/config"
	applog "bookshelf/internal/log"
	"bookshelf/internal/services"
	"bookshelf/internal/validate"
)

type AdminHandler struct {
	Admin      *services.AdminService
	BulkPolicy string
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := validate.Pagination(c.Query("page"), c.Query("limit"))
	result, err := h.Admin.ListUsers(page, limit)
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(fiber.Map{
		"totalItems":  result.TotalItems,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
		"users":       result.Items,
	})
}

// GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Admin.Stats()
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(stats)
}

type bulkRequest struct {
	Books []services.BookInput `json:"books" validate:"required,min=1,dive"`
}

// POST /admin/books/bulk
//
// The policy is configuration, not guesswork: "atomic" rejects the whole
// batch on any invalid element or store failure, "partial" keeps what it
// can and reports the rest per element.
func (h *AdminHandler) BulkCreate(c *fiber.Ctx) error {
	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Books) == 0 {
		return fail(c, fiber.StatusBadRequest, "request body must contain a non-empty array of books")
	}

	var itemErrs []services.BulkItemError
	valid := make([]services.IndexedBookInput, 0, len(req.Books))
	for i, in := range req.Books {
		if errs := validate.Struct(in); errs != nil {
			for _, fe := range errs {
				itemErrs = append(itemErrs, services.BulkItemError{
					Index:   i,
					Message: fmt.Sprintf("%s %s", fe.Field, fe.Message),
				})
			}
			continue
		}
		valid = append(valid, services.IndexedBookInput{Index: i, Input: in})
	}

	if h.BulkPolicy == config.BulkAtomic {
		if len(itemErrs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "validation error during bulk creation",
				"errors":  itemErrs,
			})
		}
		inputs := make([]services.BookInput, 0, len(valid))
		for _, it := range valid {
			inputs = append(inputs, it.Input)
		}
		created, err := h.Admin.BulkCreateAtomic(inputs)
		if err != nil {
			applog.Error(c, "admin.books.bulk.fail", err, nil)
			return fail(c, fiber.StatusBadRequest, "bulk creation failed, no books were created")
		}
		applog.Audit(c, "admin.books.bulk", map[string]any{"count": len(created)})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": fmt.Sprintf("%d books created successfully", len(created)),
			"books":   created,
		})
	}

	created, failures := h.Admin.BulkCreatePartial(valid)
	itemErrs = append(itemErrs, failures...)
	applog.Audit(c, "admin.books.bulk", map[string]any{"count": len(created), "failed": len(itemErrs)})
	body := fiber.Map{
		"message": fmt.Sprintf("%d books created successfully", len(created)),
		"books":   created,
	}
	if len(itemErrs) > 0 {
		body["errors"] = itemErrs
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// DELETE /admin/users/:userId
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	targetID := c.Params("userId")
	if err := h.Admin.DeleteUser(identityFrom(c), targetID); err != nil {
		applog.Security(c, "admin.users.delete.denied", map[string]any{"target": targetID, "reason": err.Error()})
		return failErr(c, err)
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"target": targetID})
	return c.JSON(fiber.Map{"message": "user account deleted and associated data handled"})
}

type visibilityRequest struct {
	IsVisible *bool `json:"isVisible" validate:"required"`
}

// PATCH /admin/books/:id/visibility
func (h *AdminHandler) SetVisibility(c *fiber.Ctx) error {
	var req visibilityRequest
	if err := c.BodyParser(&req); err != nil || req.IsVisible == nil {
		return fail(c, fiber.StatusBadRequest, "isVisible field must be a boolean")
	}

	b, err := h.Admin.SetVisibility(c.Params("id"), *req.IsVisible)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "admin.books.visibility", map[string]any{"book_id": b.ID, "visible": *req.IsVisible})
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("book visibility updated to %t", *req.IsVisible),
		"book":    b,
	})
}
