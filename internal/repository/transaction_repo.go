package repository

import (
	"context"
	"errors"
	"fmt"

	"go-market-sales/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrConnection = errors.New("database connection failed")
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate invoice id")
)

type TransactionRepository interface {
	// WithConnection runs fn against a repository pinned to one pooled connection.
	// The connection is released when fn returns, whatever the outcome.
	WithConnection(ctx context.Context, fn func(repo TransactionRepository) error) error

	Count(ctx context.Context, filter model.TransactionFilter) (int64, error)
	FindPage(ctx context.Context, filter model.TransactionFilter, limit, offset int) ([]model.Transaction, error)
	ExistsByInvoiceID(ctx context.Context, invoiceID string) (bool, error)
	FindByInvoiceID(ctx context.Context, invoiceID string) (*model.Transaction, error)
	Create(ctx context.Context, tx *model.Transaction) error
	DeleteByInvoiceID(ctx context.Context, invoiceID string) (int64, error)
	GetSalesStats(ctx context.Context) (*model.SalesStats, error)
	Ping(ctx context.Context) error
}

type transactionRepo struct {
	db    *gorm.DB
	table string
}

func NewTransactionRepo(db *gorm.DB, table string) TransactionRepository {
	return &transactionRepo{db: db, table: table}
}

func (r *transactionRepo) WithConnection(ctx context.Context, fn func(repo TransactionRepository) error) error {
	acquired := false
	err := r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		acquired = true
		// NewDB keeps the pinned connection but stops statements from sharing clauses
		return fn(&transactionRepo{db: conn.Session(&gorm.Session{NewDB: true}), table: r.table})
	})
	if err != nil && !acquired {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return err
}

func (r *transactionRepo) sales(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func eq(column string, value interface{}) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

func withFilter(filter model.TransactionFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Category != "" {
			db = db.Where(eq(model.ColProductCategory, filter.Category))
		}
		if filter.PaymentMethod != "" {
			db = db.Where(eq(model.ColPaymentMethod, filter.PaymentMethod))
		}
		return db
	}
}

func (r *transactionRepo) Count(ctx context.Context, filter model.TransactionFilter) (int64, error) {
	var total int64
	err := r.sales(ctx).Scopes(withFilter(filter)).Count(&total).Error
	return total, err
}

func (r *transactionRepo) FindPage(ctx context.Context, filter model.TransactionFilter, limit, offset int) ([]model.Transaction, error) {
	transactions := make([]model.Transaction, 0)
	err := r.sales(ctx).
		Scopes(withFilter(filter)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: model.ColDate}, Desc: true}).
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) ExistsByInvoiceID(ctx context.Context, invoiceID string) (bool, error) {
	var n int64
	err := r.sales(ctx).Where(eq(model.ColInvoiceID, invoiceID)).Count(&n).Error
	return n > 0, err
}

func (r *transactionRepo) FindByInvoiceID(ctx context.Context, invoiceID string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.sales(ctx).Where(eq(model.ColInvoiceID, invoiceID)).Take(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	err := r.sales(ctx).Create(tx).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *transactionRepo) DeleteByInvoiceID(ctx context.Context, invoiceID string) (int64, error) {
	result := r.sales(ctx).Where(eq(model.ColInvoiceID, invoiceID)).Delete(&model.Transaction{})
	return result.RowsAffected, result.Error
}

func (r *transactionRepo) GetSalesStats(ctx context.Context) (*model.SalesStats, error) {
	stats := model.SalesStats{
		SalesByCategory: []model.CategorySales{},
		PaymentMethods:  []model.PaymentMethodCount{},
	}
	totalSales := clause.Column{Name: model.ColTotalSales}

	// Total sales amount, zero on an empty table
	err := r.sales(ctx).
		Select("COALESCE(SUM(?), 0)", totalSales).
		Scan(&stats.TotalSalesAmount).Error
	if err != nil {
		return nil, err
	}

	if err := r.sales(ctx).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, err
	}

	category := clause.Column{Name: model.ColProductCategory}
	err = r.sales(ctx).
		Select("? AS category, SUM(?) AS total", category, totalSales).
		Clauses(clause.GroupBy{Columns: []clause.Column{category}}).
		Order("total DESC").
		Scan(&stats.SalesByCategory).Error
	if err != nil {
		return nil, err
	}

	method := clause.Column{Name: model.ColPaymentMethod}
	err = r.sales(ctx).
		Select("? AS method, COUNT(*) AS count", method).
		Clauses(clause.GroupBy{Columns: []clause.Column{method}}).
		Order("count DESC").
		Scan(&stats.PaymentMethods).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *transactionRepo) Ping(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("SELECT 1").Error
}
