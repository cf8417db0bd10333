package dto

import "github.com/shopspring/decimal"

// DailyReportResponse summarizes one calendar day.
type DailyReportResponse struct {
	Date          string          `json:"date"` // YYYY-MM-DD
	SalesTotal    decimal.Decimal `json:"salesTotal"`
	SalesCount    int             `json:"salesCount"`
	ExpensesTotal decimal.Decimal `json:"expensesTotal"`
	ExpensesCount int             `json:"expensesCount"`
	NetTotal      decimal.Decimal `json:"netTotal"`
}

// InventoryReportRow is one product's current stock position.
type InventoryReportRow struct {
	ProductID string `json:"productID"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Stock     int64  `json:"stock"`
}
