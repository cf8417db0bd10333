package domain

import "time"

// MovementReason tags why stock changed.
type MovementReason string

const (
	ReasonSale       MovementReason = "sale"
	ReasonPurchase   MovementReason = "purchase"
	ReasonAdjustment MovementReason = "adjustment"
)

// Valid reports whether r is a known movement reason.
func (r MovementReason) Valid() bool {
	return r == ReasonSale || r == ReasonPurchase || r == ReasonAdjustment
}

// StockMovement is an immutable signed change to a product's on-hand
// quantity. Current stock is the sum of deltas over all movements for the
// product; the sum is order-independent, so replicated movements from other
// devices merge without reconciliation.
type StockMovement struct {
	MovementID   string         `json:"movement_id"`
	ProductID    string         `json:"product_id"`
	Delta        int64          `json:"delta"` // signed, never zero
	Reason       MovementReason `json:"reason"`
	RelatedDocID string         `json:"related_doc_id,omitempty"` // originating header
	OccurredAt   time.Time      `json:"occurred_at"`
	CreatedAt    time.Time      `json:"created_at"`
	CreatedBy    string         `json:"created_by"`
}
