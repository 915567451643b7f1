package handler

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(router fiber.Router, inv *InventoryHandler, dash *DashboardHandler) {
	market := router.Group("/api/market")

	market.Get("/transactions", inv.GetTransactions)
	market.Post("/inventory/add", inv.AddInventory)
	market.Delete("/inventory/remove/:invoice_id", inv.RemoveInventory)

	market.Get("/stats", dash.GetStats)
	market.Get("/health", dash.Health)
}
