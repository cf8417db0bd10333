package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine is one line item of a sale. UnitCost captures the product's cached
// cost price at posting time so the cost-of-goods entry stays deterministic
// under reconciliation replay.
type SaleLine struct {
	ProductID string          `json:"product_id"`
	Qty       int64           `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// SaleHeader anchors the documents produced by one sale. Subordinate stock
// movements and journal entries reference it via related_doc_id, and their
// identities derive from OpKey so replaying the operation cannot double-post.
type SaleHeader struct {
	SaleID     string          `json:"sale_id"`
	OpKey      string          `json:"op_key"` // idempotency key for the whole operation
	CustomerID string          `json:"customer_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Lines      []SaleLine      `json:"lines"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  string          `json:"created_by"`
}

// PurchaseLine is one line item of a purchase.
type PurchaseLine struct {
	ProductID string          `json:"product_id"`
	Qty       int64           `json:"qty"`
	Cost      decimal.Decimal `json:"cost"`
}

// PurchaseHeader anchors the documents produced by one purchase.
type PurchaseHeader struct {
	PurchaseID string          `json:"purchase_id"`
	OpKey      string          `json:"op_key"`
	SupplierID string          `json:"supplier_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Lines      []PurchaseLine  `json:"lines"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  string          `json:"created_by"`
}

// ExpenseHeader anchors the journal entry produced by one recorded expense.
type ExpenseHeader struct {
	ExpenseID  string          `json:"expense_id"`
	OpKey      string          `json:"op_key"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  string          `json:"created_by"`
}
