// Package testutil opens throwaway gorm stores for package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"go-market-sales/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const SalesTable = "tbl_supermarket_sales"

// NewSalesDB returns a file-backed SQLite database holding an empty sales table.
// A file is used instead of :memory: so every pooled connection sees the same data.
func NewSalesDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sales.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Table(SalesTable).AutoMigrate(&model.Transaction{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Sale builds a fully populated row for seeding.
func Sale(invoiceID, category, payment string, totalSales float64, date time.Time) model.Transaction {
	return model.Transaction{
		InvoiceID:       invoiceID,
		Date:            date,
		CustomerType:    "Member",
		Gender:          "Female",
		ProductCategory: category,
		UnitPrice:       totalSales,
		Quantity:        1,
		TotalSales:      totalSales,
		PaymentMethod:   payment,
	}
}

// Seed inserts rows directly, bypassing the service layer.
func Seed(t *testing.T, db *gorm.DB, rows ...model.Transaction) {
	t.Helper()
	for i := range rows {
		require.NoError(t, db.Table(SalesTable).Create(&rows[i]).Error)
	}
}
