package handler

import (
	"go-market-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns whole-table sales aggregates
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetSalesStats(c.UserContext())
	if err != nil {
		return writeError(c, err, false)
	}

	return c.JSON(stats)
}

func (h *DashboardHandler) Health(c *fiber.Ctx) error {
	if err := h.service.CheckHealth(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
