package services

import (
	"context"

	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/daftarhq/daftar/internal/dto"
)

// PostingSvcFacade executes business actions as composite document writes
// with an all-or-nothing contract towards the caller: every call resolves to
// a header identity or a named failure describing what was persisted.
type PostingSvcFacade interface {
	RecordSale(ctx context.Context, actor domain.Actor, req dto.RecordSaleRequest) (*domain.SaleHeader, error)
	RecordPurchase(ctx context.Context, actor domain.Actor, req dto.RecordPurchaseRequest) (*domain.PurchaseHeader, error)
	RecordExpense(ctx context.Context, actor domain.Actor, req dto.RecordExpenseRequest) (*domain.ExpenseHeader, error)

	// Reconcile scans for headers whose dependent documents are incomplete
	// and re-emits the missing ones under the original idempotency key.
	// It returns the identities of repaired headers and is itself idempotent.
	Reconcile(ctx context.Context, actor domain.Actor) ([]string, error)
}
