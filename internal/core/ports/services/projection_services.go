package services

import (
	"context"

	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/daftarhq/daftar/internal/dto"
)

// StockSvcFacade projects current on-hand quantities from the stock movement
// event log. Values are recomputed from the full event set on demand.
type StockSvcFacade interface {
	// CurrentStock returns the sum of movement deltas for the product.
	// A product with no movements has stock 0.
	CurrentStock(ctx context.Context, productID string) (int64, error)

	// Levels returns current stock for every product referenced by at least
	// one movement, keyed by product identity.
	Levels(ctx context.Context) (map[string]int64, error)
}

// LedgerSvcFacade projects account balances from journal entry lines.
type LedgerSvcFacade interface {
	// AccountBalance returns raw debit/credit totals plus the class-adjusted
	// signed balance so callers never re-derive sign conventions.
	AccountBalance(ctx context.Context, accountCode string) (*dto.AccountBalanceResponse, error)

	// GetJournal returns one journal entry by identity.
	GetJournal(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournalsByRelatedDoc returns the entries anchored to a header.
	ListJournalsByRelatedDoc(ctx context.Context, relatedDocID string) ([]domain.JournalEntry, error)
}
