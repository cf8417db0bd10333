package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest is one line of a sale to record.
type SaleLineRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Qty       int64           `json:"qty" binding:"required,gt=0"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

// RecordSaleRequest records one sale as a composite operation.
type RecordSaleRequest struct {
	Lines      []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
	CustomerID string            `json:"customerID,omitempty"`
	OccurredAt *time.Time        `json:"occurredAt,omitempty"`
}

// PurchaseLineRequest is one line of a purchase to record.
type PurchaseLineRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Qty       int64           `json:"qty" binding:"required,gt=0"`
	Cost      decimal.Decimal `json:"cost" binding:"required"`
}

// RecordPurchaseRequest records one purchase as a composite operation.
type RecordPurchaseRequest struct {
	Lines      []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
	SupplierID string                `json:"supplierID,omitempty"`
	OccurredAt *time.Time            `json:"occurredAt,omitempty"`
}

// RecordExpenseRequest records one expense.
type RecordExpenseRequest struct {
	Category   string          `json:"category" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Note       string          `json:"note,omitempty"`
	OccurredAt *time.Time      `json:"occurredAt,omitempty"`
}

// RecordResponse is the success result of a composite operation.
type RecordResponse struct {
	HeaderID string `json:"headerID"`
}

// ReconcileResponse lists headers repaired by a reconciliation pass.
type ReconcileResponse struct {
	RepairedHeaderIDs []string `json:"repairedHeaderIDs"`
}
