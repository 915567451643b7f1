package model

import "time"

// Transaction is one sale row. Column names are quoted identifiers and double as JSON keys.
type Transaction struct {
	InvoiceID       string    `gorm:"column:Invoice ID;type:varchar(50);primaryKey" json:"Invoice ID"`
	Date            time.Time `gorm:"column:Date;not null;index" json:"Date"`
	CustomerType    string    `gorm:"column:Customer Type;type:varchar(50);not null" json:"Customer Type"`
	Gender          string    `gorm:"column:gender;type:varchar(20);not null" json:"gender"`
	ProductCategory string    `gorm:"column:Product Category;type:varchar(100);not null" json:"Product Category"`
	UnitPrice       float64   `gorm:"column:Unit Price;not null" json:"Unit Price"`
	Quantity        int       `gorm:"column:quantity;not null" json:"quantity"`
	TotalSales      float64   `gorm:"column:Total Sales;not null" json:"Total Sales"`
	PaymentMethod   string    `gorm:"column:Payment Method;type:varchar(50);not null" json:"Payment Method"`
}

// Column names as stored; used to build filters and aggregates.
const (
	ColInvoiceID       = "Invoice ID"
	ColDate            = "Date"
	ColProductCategory = "Product Category"
	ColTotalSales      = "Total Sales"
	ColPaymentMethod   = "Payment Method"
)

// TransactionFilter holds the optional exact-match list filters. Empty means unset.
type TransactionFilter struct {
	Category      string
	PaymentMethod string
}

type Pagination struct {
	Total        int64 `json:"total"`
	CurrentPage  int   `json:"current_page"`
	ItemsPerPage int   `json:"items_per_page"`
	TotalPages   int64 `json:"total_pages"`
}

// NewPagination derives total_pages as ceil(total/perPage). perPage must be positive.
func NewPagination(total int64, page, perPage int) Pagination {
	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	return Pagination{
		Total:        total,
		CurrentPage:  page,
		ItemsPerPage: perPage,
		TotalPages:   pages,
	}
}

type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}
