package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go-market-sales/internal/model"
	"go-market-sales/internal/repository"
	"go-market-sales/internal/ws"
	"go-market-sales/pkg/validator"

	"github.com/sirupsen/logrus"
)

// TimestampLayout formats the confirmation timestamps returned by add and remove.
const TimestampLayout = "2006-01-02 15:04:05"

// Date layouts accepted on create, tried in order.
var saleDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
}

type InventoryService interface {
	ListTransactions(ctx context.Context, q ListTransactionsQuery) (*model.TransactionPage, error)
	AddTransaction(ctx context.Context, req *AddTransactionRequest) (*AddTransactionResult, error)
	RemoveTransaction(ctx context.Context, invoiceID string) (*RemoveTransactionResult, error)
}

// EventPublisher receives inventory change notifications. *ws.Hub implements it.
type EventPublisher interface {
	Publish(event ws.InventoryEvent)
}

type ListTransactionsQuery struct {
	Page     int
	PerPage  int
	Category string
	Payment  string
}

// AddTransactionRequest fields are pointers so an absent key is distinguishable from
// an empty value. Declaration order is the order missing fields are reported in.
type AddTransactionRequest struct {
	InvoiceID       *string           `json:"Invoice ID" validate:"required"`
	Date            *string           `json:"Date" validate:"required"`
	CustomerType    *string           `json:"Customer Type" validate:"required"`
	Gender          *string           `json:"gender" validate:"required"`
	ProductCategory *string           `json:"Product Category" validate:"required"`
	UnitPrice       *model.FlexNumber `json:"Unit Price" validate:"required"`
	Quantity        *model.FlexNumber `json:"quantity" validate:"required"`
	TotalSales      *model.FlexNumber `json:"Total Sales" validate:"required"`
	PaymentMethod   *string           `json:"Payment Method" validate:"required"`
}

type AddTransactionResult struct {
	Timestamp string
	Item      *AddTransactionRequest
}

type RemovedItem struct {
	InvoiceID string    `json:"invoice_id"`
	Product   string    `json:"product"`
	Date      time.Time `json:"date"`
}

type RemoveTransactionResult struct {
	Timestamp string
	Item      RemovedItem
}

type inventoryService struct {
	txRepo    repository.TransactionRepository
	publisher EventPublisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewInventoryService(txRepo repository.TransactionRepository, publisher EventPublisher, log logrus.FieldLogger) InventoryService {
	return &inventoryService{
		txRepo:    txRepo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *inventoryService) ListTransactions(ctx context.Context, q ListTransactionsQuery) (*model.TransactionPage, error) {
	if q.PerPage <= 0 {
		return nil, ErrInvalidPageSize
	}

	filter := model.TransactionFilter{Category: q.Category, PaymentMethod: q.Payment}
	offset, err := pageOffset(q.Page, q.PerPage)
	if err != nil {
		return nil, err
	}

	var page model.TransactionPage
	err = s.txRepo.WithConnection(ctx, func(repo repository.TransactionRepository) error {
		total, err := repo.Count(ctx, filter)
		if err != nil {
			return err
		}

		rows, err := repo.FindPage(ctx, filter, q.PerPage, offset)
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []model.Transaction{}
		}

		page = model.TransactionPage{
			Transactions: rows,
			Pagination:   model.NewPagination(total, q.Page, q.PerPage),
		}
		return nil
	})
	if err != nil {
		return nil, connectionError(s.log, "ListTransactions", err)
	}

	return &page, nil
}

func (s *inventoryService) AddTransaction(ctx context.Context, req *AddTransactionRequest) (*AddTransactionResult, error) {
	timestamp := s.now().Format(TimestampLayout)

	// 1. Required fields, before touching the store
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Field: errs[0].FailedField}
	}

	err := s.txRepo.WithConnection(ctx, func(repo repository.TransactionRepository) error {
		// 2. Duplicate invoice check
		exists, err := repo.ExistsByInvoiceID(ctx, *req.InvoiceID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateInvoice
		}

		// 3. Coerce and insert
		row, err := req.toTransaction()
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, row); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateInvoice
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, connectionError(s.log, "AddTransaction", err)
	}

	s.publish(ws.InventoryEvent{
		Action:          ws.ActionItemAdded,
		InvoiceID:       *req.InvoiceID,
		ProductCategory: *req.ProductCategory,
		Timestamp:       timestamp,
		Message:         fmt.Sprintf("Invoice %s added (%s)", *req.InvoiceID, *req.ProductCategory),
	})

	return &AddTransactionResult{Timestamp: timestamp, Item: req}, nil
}

func (s *inventoryService) RemoveTransaction(ctx context.Context, invoiceID string) (*RemoveTransactionResult, error) {
	timestamp := s.now().Format(TimestampLayout)

	var removed RemovedItem
	err := s.txRepo.WithConnection(ctx, func(repo repository.TransactionRepository) error {
		existing, err := repo.FindByInvoiceID(ctx, invoiceID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		if err != nil {
			return err
		}

		// Snapshot before the row is gone
		removed = RemovedItem{
			InvoiceID: invoiceID,
			Product:   existing.ProductCategory,
			Date:      existing.Date,
		}

		affected, err := repo.DeleteByInvoiceID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if affected == 0 {
			// deleted by someone else between lookup and delete
			return ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, connectionError(s.log, "RemoveTransaction", err)
	}

	s.publish(ws.InventoryEvent{
		Action:          ws.ActionItemRemoved,
		InvoiceID:       invoiceID,
		ProductCategory: removed.Product,
		Timestamp:       timestamp,
		Message:         fmt.Sprintf("Invoice %s removed (%s)", invoiceID, removed.Product),
	})

	return &RemoveTransactionResult{Timestamp: timestamp, Item: removed}, nil
}

func (s *inventoryService) publish(event ws.InventoryEvent) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

// connectionError turns a failed connection into ErrConnectionFailed and logs it.
// Every other error is passed through unchanged.
func connectionError(log logrus.FieldLogger, op string, err error) error {
	if errors.Is(err, repository.ErrConnection) {
		log.WithError(err).WithField("op", op).Error("Database connection error")
		return ErrConnectionFailed
	}
	return err
}

func (r *AddTransactionRequest) toTransaction() (*model.Transaction, error) {
	date, err := parseSaleDate(*r.Date)
	if err != nil {
		return nil, err
	}
	unitPrice, err := r.UnitPrice.Float64()
	if err != nil {
		return nil, err
	}
	quantity, err := r.Quantity.Int()
	if err != nil {
		return nil, err
	}
	totalSales, err := r.TotalSales.Float64()
	if err != nil {
		return nil, err
	}

	return &model.Transaction{
		InvoiceID:       *r.InvoiceID,
		Date:            date,
		CustomerType:    *r.CustomerType,
		Gender:          *r.Gender,
		ProductCategory: *r.ProductCategory,
		UnitPrice:       unitPrice,
		Quantity:        quantity,
		TotalSales:      totalSales,
		PaymentMethod:   *r.PaymentMethod,
	}, nil
}

func parseSaleDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid input syntax for type date: %q", value)
}

// pageOffset returns (page-1)*perPage. Pages below 1 are not rejected; they map to
// offset 0.
func pageOffset(page, perPage int) (int, error) {
	if page <= 1 {
		return 0, nil
	}
	if page-1 > math.MaxInt/perPage {
		return 0, fmt.Errorf("page %d out of range for per_page %d", page, perPage)
	}
	return (page - 1) * perPage, nil
}
