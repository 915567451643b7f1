package model

type CategorySales struct {
	Category string  `gorm:"column:category" json:"Product Category"`
	Total    float64 `gorm:"column:total" json:"total"`
}

type PaymentMethodCount struct {
	Method string `gorm:"column:method" json:"Payment Method"`
	Count  int64  `gorm:"column:count" json:"count"`
}

// SalesStats is the full-table aggregate served by the stats endpoint.
type SalesStats struct {
	TotalSalesAmount  float64              `json:"total_sales_amount"`
	TotalTransactions int64                `json:"total_transactions"`
	SalesByCategory   []CategorySales      `json:"sales_by_category"`
	PaymentMethods    []PaymentMethodCount `json:"payment_methods"`
}
