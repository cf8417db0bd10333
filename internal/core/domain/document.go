package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the document variants held by the store.
type Kind string

const (
	KindProduct        Kind = "product"
	KindStockMovement  Kind = "stock_movement"
	KindAccount        Kind = "account"
	KindJournalEntry   Kind = "journal_entry"
	KindSaleHeader     Kind = "sale"
	KindPurchaseHeader Kind = "purchase"
	KindExpenseHeader  Kind = "expense"
	KindCustomer       Kind = "customer"
	KindUser           Kind = "user"
	KindConflictAudit  Kind = "conflict_audit"
)

// Mutable reports whether documents of this kind may be revised after
// creation. Event documents (stock movements, journal entries) and the
// business-action headers that anchor them are immutable facts: replication
// merges them by union and they never need a conflict policy. Everything else
// is last-writer-wins.
func (k Kind) Mutable() bool {
	switch k {
	case KindStockMovement, KindJournalEntry, KindSaleHeader, KindPurchaseHeader, KindExpenseHeader, KindConflictAudit:
		return false
	}
	return true
}

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	switch k {
	case KindProduct, KindStockMovement, KindAccount, KindJournalEntry,
		KindSaleHeader, KindPurchaseHeader, KindExpenseHeader,
		KindCustomer, KindUser, KindConflictAudit:
		return true
	}
	return false
}

// Document is the store envelope around one typed body. Rev is the local
// revision counter, Seq the store-wide change sequence used by the export
// feed. Deleted marks a tombstone; tombstoned documents are excluded from
// projections but still replicate.
type Document struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Rev       int64           `json:"rev"`
	Seq       int64           `json:"seq,omitempty"`
	Deleted   bool            `json:"deleted,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
	Body      json.RawMessage `json:"body"`
}

// NewDocument wraps a typed body into a store envelope.
func NewDocument(id string, kind Kind, updatedAt time.Time, body any) (Document, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s document %s: %w", kind, id, err)
	}
	return Document{ID: id, Kind: kind, UpdatedAt: updatedAt.UTC(), Body: raw}, nil
}

// DecodeBody unmarshals the document body into out.
func (d Document) DecodeBody(out any) error {
	if err := json.Unmarshal(d.Body, out); err != nil {
		return fmt.Errorf("decode %s document %s: %w", d.Kind, d.ID, err)
	}
	return nil
}
