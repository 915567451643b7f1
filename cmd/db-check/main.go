package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go-market-sales/internal/config"
	"go-market-sales/internal/logging"
	"go-market-sales/internal/repository"
	"go-market-sales/internal/service"
	"go-market-sales/pkg/database"

	"github.com/joho/godotenv"
)

// db-check connects with the API's configuration and prints the current sales aggregates.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ Invalid configuration:", err)
		os.Exit(1)
	}
	log := logging.SetupLogging(cfg.LogLevel)

	// 2. Setup Database
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("❌ Could not connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Ping and aggregate through the same service the API uses
	dash := service.NewDashboardService(repository.NewTransactionRepo(db, cfg.SalesTable), log)
	if err := dash.CheckHealth(ctx); err != nil {
		log.WithError(err).Fatal("❌ Database ping failed")
	}

	stats, err := dash.GetSalesStats(ctx)
	if err != nil {
		log.WithError(err).WithField("table", cfg.SalesTable).Fatal("❌ Failed to read sales table")
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
	log.WithField("table", cfg.SalesTable).Infof("✅ %d transactions found", stats.TotalTransactions)
}
