package handler

import (
	"go-market-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetTransactions lists sales newest first
// Query params: page (default 1), per_page (default 10), category, payment
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	q := service.ListTransactionsQuery{
		Page:     c.QueryInt("page", defaultPage),
		PerPage:  c.QueryInt("per_page", defaultPerPage),
		Category: c.Query("category"),
		Payment:  c.Query("payment"),
	}

	page, err := h.service.ListTransactions(c.UserContext(), q)
	if err != nil {
		return writeError(c, err, false)
	}
	return c.JSON(page)
}

// AddInventory inserts one sale record
// POST /api/market/inventory/add
func (h *InventoryHandler) AddInventory(c *fiber.Ctx) error {
	var req service.AddTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, err, true)
	}

	res, err := h.service.AddTransaction(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err, true)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":    "success",
		"message":   "Inventory item added successfully",
		"timestamp": res.Timestamp,
		"item_data": res.Item,
	})
}

// RemoveInventory deletes one sale record by invoice id
// DELETE /api/market/inventory/remove/:invoice_id
func (h *InventoryHandler) RemoveInventory(c *fiber.Ctx) error {
	res, err := h.service.RemoveTransaction(c.UserContext(), c.Params("invoice_id"))
	if err != nil {
		return writeError(c, err, true)
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"message":      "Inventory item removed successfully",
		"timestamp":    res.Timestamp,
		"removed_item": res.Item,
	})
}
