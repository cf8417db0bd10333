package domain

import "github.com/shopspring/decimal"

// Product is a sellable item. The cost price is a last-writer-wins cache
// refreshed by purchases; it is display/costing convenience data, not a fact.
type Product struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Unit      string          `json:"unit"`     // unit of measure, e.g. "piece", "kg"
	Category  string          `json:"category"` // free-text grouping
	SalePrice decimal.Decimal `json:"sale_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	AuditFields
}
