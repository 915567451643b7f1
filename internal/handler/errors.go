package handler

import (
	"errors"

	"go-market-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

// writeError maps service errors onto status codes; anything unrecognised is a 500
// carrying the raw error text. Mutating endpoints tag every failure except a
// validation error with "status": "error".
func writeError(c *fiber.Ctx, err error, mutation bool) error {
	code := fiber.StatusInternalServerError
	withStatus := mutation

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		code = fiber.StatusBadRequest
		withStatus = false
	case errors.Is(err, service.ErrDuplicateInvoice):
		code = fiber.StatusConflict
		withStatus = true
	case errors.Is(err, service.ErrRecordNotFound):
		code = fiber.StatusNotFound
		withStatus = true
	}

	body := fiber.Map{"error": err.Error()}
	if withStatus {
		body["status"] = "error"
	}
	return c.Status(code).JSON(body)
}
