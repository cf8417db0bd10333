package domain

import "github.com/shopspring/decimal"

// Customer is a counterparty for sales. CurrentBalance is initialized from
// the opening balance and changed only by explicit customer updates; the
// engine does not derive it from sales or payments.
type Customer struct {
	CustomerID     string          `json:"customer_id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	AuditFields
}
