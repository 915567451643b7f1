package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-market-sales/internal/config"
	"go-market-sales/internal/handler"
	"go-market-sales/internal/logging"
	"go-market-sales/internal/middleware"
	"go-market-sales/internal/repository"
	"go-market-sales/internal/service"
	"go-market-sales/internal/ws"
	"go-market-sales/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.SetupLogging("info").WithError(err).Fatal("Invalid configuration")
	}

	log := logging.SetupLogging(cfg.LogLevel)
	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Database setup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	txRepo := repository.NewTransactionRepo(db, cfg.SalesTable)

	invService := service.NewInventoryService(txRepo, wsHub, log)
	dashService := service.NewDashboardService(txRepo, log)

	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Market Sales API v1.0",
		UnescapePath: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New()) // any origin

	// 6. Routes
	handler.RegisterRoutes(app, invHandler, dashHandler)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Handler(ctx)))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Panic("Server stopped")
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Server exited")
}
