package services

import (
	"context"
	"fmt"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService projects account balances from journal entry lines.
type ledgerService struct {
	store    portsrepo.DocumentStore
	chartSvc portssvc.ChartSvcFacade
}

// NewLedgerService creates a new ledger projector.
func NewLedgerService(store portsrepo.DocumentStore, chartSvc portssvc.ChartSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{store: store, chartSvc: chartSvc}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// AccountBalance aggregates all journal lines referencing the account and
// returns raw totals plus the class-adjusted signed balance, so callers never
// re-derive sign conventions.
func (s *ledgerService) AccountBalance(ctx context.Context, accountCode string) (*dto.AccountBalanceResponse, error) {
	account, err := s.chartSvc.GetAccountByCode(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.ScanKind(ctx, domain.KindJournalEntry)
	if err != nil {
		return nil, err
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	signed := decimal.Zero
	for _, doc := range docs {
		var entry domain.JournalEntry
		if err := doc.DecodeBody(&entry); err != nil {
			return nil, err
		}
		for _, line := range entry.Lines {
			if line.AccountID != account.AccountID {
				continue
			}
			debitTotal = debitTotal.Add(line.Debit)
			creditTotal = creditTotal.Add(line.Credit)
			amount, err := accounting.SignedAmount(line, account.Class)
			if err != nil {
				return nil, err
			}
			signed = signed.Add(amount)
		}
	}

	return &dto.AccountBalanceResponse{
		AccountCode:   account.Code,
		AccountName:   account.Name,
		Class:         account.Class,
		DebitTotal:    debitTotal,
		CreditTotal:   creditTotal,
		SignedBalance: signed,
	}, nil
}

// GetJournal returns one journal entry by identity.
func (s *ledgerService) GetJournal(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	doc, err := s.store.Get(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if doc.Deleted || doc.Kind != domain.KindJournalEntry {
		return nil, fmt.Errorf("journal entry %s: %w", journalID, apperrors.ErrNotFound)
	}
	var entry domain.JournalEntry
	if err := doc.DecodeBody(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListJournalsByRelatedDoc returns the entries anchored to a header document.
func (s *ledgerService) ListJournalsByRelatedDoc(ctx context.Context, relatedDocID string) ([]domain.JournalEntry, error) {
	docs, err := s.store.ScanKind(ctx, domain.KindJournalEntry)
	if err != nil {
		return nil, err
	}
	var entries []domain.JournalEntry
	for _, doc := range docs {
		var entry domain.JournalEntry
		if err := doc.DecodeBody(&entry); err != nil {
			return nil, err
		}
		if entry.RelatedDocID == relatedDocID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
