package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-market-sales/internal/model"
	"go-market-sales/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ---- mocks ----

type mockInventoryService struct {
	mock.Mock
}

func (m *mockInventoryService) ListTransactions(ctx context.Context, q service.ListTransactionsQuery) (*model.TransactionPage, error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*model.TransactionPage)
	return page, args.Error(1)
}

func (m *mockInventoryService) AddTransaction(ctx context.Context, req *service.AddTransactionRequest) (*service.AddTransactionResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*service.AddTransactionResult)
	return res, args.Error(1)
}

func (m *mockInventoryService) RemoveTransaction(ctx context.Context, invoiceID string) (*service.RemoveTransactionResult, error) {
	args := m.Called(ctx, invoiceID)
	res, _ := args.Get(0).(*service.RemoveTransactionResult)
	return res, args.Error(1)
}

type mockDashboardService struct {
	mock.Mock
}

func (m *mockDashboardService) GetSalesStats(ctx context.Context) (*model.SalesStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.SalesStats)
	return stats, args.Error(1)
}

func (m *mockDashboardService) CheckHealth(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// ---- helpers ----

func newTestApp(inv service.InventoryService, dash service.DashboardService) *fiber.App {
	app := fiber.New(fiber.Config{UnescapePath: true})
	RegisterRoutes(app, NewInventoryHandler(inv), NewDashboardHandler(dash))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, url, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// ---- tests ----

func TestGetTransactions_QueryParsing(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want service.ListTransactionsQuery
	}{
		{name: "defaults", url: "/api/market/transactions", want: service.ListTransactionsQuery{Page: 1, PerPage: 10}},
		{name: "explicit", url: "/api/market/transactions?page=3&per_page=25", want: service.ListTransactionsQuery{Page: 3, PerPage: 25}},
		{name: "non-numeric falls back", url: "/api/market/transactions?page=abc&per_page=x", want: service.ListTransactionsQuery{Page: 1, PerPage: 10}},
		{name: "zero page passes through", url: "/api/market/transactions?page=0", want: service.ListTransactionsQuery{Page: 0, PerPage: 10}},
		{
			name: "filters",
			url:  "/api/market/transactions?category=Food%20and%20beverages&payment=Cash",
			want: service.ListTransactionsQuery{Page: 1, PerPage: 10, Category: "Food and beverages", Payment: "Cash"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := new(mockInventoryService)
			inv.On("ListTransactions", mock.Anything, tt.want).
				Return(&model.TransactionPage{Transactions: []model.Transaction{}, Pagination: model.NewPagination(0, tt.want.Page, tt.want.PerPage)}, nil)

			code, body := doRequest(t, newTestApp(inv, new(mockDashboardService)), http.MethodGet, tt.url, "")
			assert.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, "transactions")
			assert.Contains(t, body, "pagination")
			inv.AssertExpectations(t)
		})
	}
}

func TestGetTransactions_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "connection", err: service.ErrConnectionFailed, wantStatus: 500, wantError: "Database connection failed"},
		{name: "query", err: errors.New(`relation "tbl_supermarket_sales" does not exist`), wantStatus: 500, wantError: `relation "tbl_supermarket_sales" does not exist`},
		{name: "page size", err: service.ErrInvalidPageSize, wantStatus: 500, wantError: "per_page must be a positive integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := new(mockInventoryService)
			inv.On("ListTransactions", mock.Anything, mock.Anything).Return(nil, tt.err)

			code, body := doRequest(t, newTestApp(inv, new(mockDashboardService)), http.MethodGet, "/api/market/transactions", "")
			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotContains(t, body, "status")
		})
	}
}

func TestAddInventory(t *testing.T) {
	invoice := "750-67-8428"
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "created",
			body:       `{"Invoice ID": "750-67-8428"}`,
			wantStatus: http.StatusCreated,
			wantBody: map[string]interface{}{
				"status":    "success",
				"message":   "Inventory item added successfully",
				"timestamp": "2024-03-09 14:30:05",
			},
		},
		{
			name:       "missing field",
			body:       `{"Invoice ID": "750-67-8428"}`,
			err:        &service.ValidationError{Field: "Date"},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": "Missing required field: Date"},
		},
		{
			name:       "duplicate",
			body:       `{"Invoice ID": "750-67-8428"}`,
			err:        service.ErrDuplicateInvoice,
			wantStatus: http.StatusConflict,
			wantBody:   map[string]interface{}{"error": "Duplicate invoice ID detected", "status": "error"},
		},
		{
			name:       "coercion failure",
			body:       `{"Invoice ID": "750-67-8428"}`,
			err:        errors.New(`invalid literal for int: "seven"`),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]interface{}{"error": `invalid literal for int: "seven"`, "status": "error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := new(mockInventoryService)
			call := inv.On("AddTransaction", mock.Anything, mock.MatchedBy(func(r *service.AddTransactionRequest) bool {
				return r.InvoiceID != nil && *r.InvoiceID == invoice
			}))
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(&service.AddTransactionResult{
					Timestamp: "2024-03-09 14:30:05",
					Item:      &service.AddTransactionRequest{InvoiceID: &invoice},
				}, nil)
			}

			code, body := doRequest(t, newTestApp(inv, new(mockDashboardService)), http.MethodPost, "/api/market/inventory/add", tt.body)
			assert.Equal(t, tt.wantStatus, code)
			for k, v := range tt.wantBody {
				assert.Equal(t, v, body[k], k)
			}
			if tt.name == "missing field" {
				assert.NotContains(t, body, "status")
			}
			inv.AssertExpectations(t)
		})
	}
}

func TestAddInventory_UndecodableBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "truncated", body: `{"Invoice ID": `, wantError: "unexpected end of JSON input"},
		{name: "number for a string field", body: `{"Invoice ID": "750-67-8428", "Date": 20190308}`, wantError: "cannot unmarshal number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := new(mockInventoryService)

			code, body := doRequest(t, newTestApp(inv, new(mockDashboardService)), http.MethodPost, "/api/market/inventory/add", tt.body)
			assert.Equal(t, http.StatusInternalServerError, code)
			assert.Equal(t, "error", body["status"])
			assert.Contains(t, body["error"], tt.wantError)
			inv.AssertNotCalled(t, "AddTransaction", mock.Anything, mock.Anything)
		})
	}
}

func TestRemoveInventory(t *testing.T) {
	date := time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		res        *service.RemoveTransactionResult
		err        error
		wantStatus int
	}{
		{
			name:       "removed",
			res:        &service.RemoveTransactionResult{Timestamp: "2024-03-09 14:30:05", Item: service.RemovedItem{InvoiceID: "750-67-8428", Product: "Food", Date: date}},
			wantStatus: http.StatusOK,
		},
		{name: "not found", err: service.ErrRecordNotFound, wantStatus: http.StatusNotFound},
		{name: "connection", err: service.ErrConnectionFailed, wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := new(mockInventoryService)
			inv.On("RemoveTransaction", mock.Anything, "750-67-8428").Return(tt.res, tt.err)

			code, body := doRequest(t, newTestApp(inv, new(mockDashboardService)), http.MethodDelete, "/api/market/inventory/remove/750-67-8428", "")
			assert.Equal(t, tt.wantStatus, code)

			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), body["error"])
				assert.Equal(t, "error", body["status"])
				return
			}
			assert.Equal(t, "success", body["status"])
			assert.Equal(t, "Inventory item removed successfully", body["message"])
			removed, ok := body["removed_item"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "750-67-8428", removed["invoice_id"])
			assert.Equal(t, "Food", removed["product"])
			assert.Equal(t, "2019-01-05T00:00:00Z", removed["date"])
		})
	}
}

func TestRemoveInventory_EscapedInvoiceID(t *testing.T) {
	inv := new(mockInventoryService)
	inv.On("RemoveTransaction", mock.Anything, "INV 1").Return(nil, service.ErrRecordNotFound)

	code, _ := doRequest(t, newTestApp(inv, new(mockDashboardService)), http.MethodDelete, "/api/market/inventory/remove/INV%201", "")
	assert.Equal(t, http.StatusNotFound, code)
	inv.AssertExpectations(t)
}
