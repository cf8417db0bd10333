package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one side-entry of a journal entry. Exactly one of Debit or
// Credit is nonzero; both amounts are non-negative.
type JournalLine struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Notes     string          `json:"notes,omitempty"`
}

// JournalEntry is an immutable, balanced double-entry record. Entries are
// validated before persistence and never revised; corrections are posted as
// new compensating entries.
type JournalEntry struct {
	JournalID    string        `json:"journal_id"`
	Description  string        `json:"description"`
	OccurredAt   time.Time     `json:"occurred_at"`
	RelatedDocID string        `json:"related_doc_id,omitempty"` // originating header
	Lines        []JournalLine `json:"lines"`
	CreatedAt    time.Time     `json:"created_at"`
	CreatedBy    string        `json:"created_by"`
}

// DebitTotal sums the debit side of the entry.
func (j JournalEntry) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range j.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// CreditTotal sums the credit side of the entry.
func (j JournalEntry) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range j.Lines {
		total = total.Add(line.Credit)
	}
	return total
}
