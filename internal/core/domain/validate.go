package domain

import (
	"fmt"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest absolute difference between the debit and
// credit totals of a journal entry that is still accepted (one minor currency
// unit, to absorb rounding of line computations).
var BalanceTolerance = decimal.New(1, -2) // 0.01

// ValidateEntryLines enforces the double-entry construction rules: every line
// carries exactly one nonzero, non-negative side, and the entry balances
// within BalanceTolerance. Violations are rejected before persistence.
func ValidateEntryLines(lines []JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry needs at least two lines", apperrors.ErrValidation)
	}
	debits := decimal.Zero
	credits := decimal.Zero
	for i, line := range lines {
		if line.AccountID == "" {
			return &apperrors.MalformedLineError{Index: i, Reason: "missing account reference"}
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return &apperrors.MalformedLineError{Index: i, Reason: "negative amount"}
		}
		debitSet := !line.Debit.IsZero()
		creditSet := !line.Credit.IsZero()
		if debitSet == creditSet {
			return &apperrors.MalformedLineError{Index: i, Reason: "exactly one of debit/credit must be nonzero"}
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	imbalance := debits.Sub(credits)
	if imbalance.Abs().GreaterThan(BalanceTolerance) {
		return &apperrors.UnbalancedEntryError{Imbalance: imbalance}
	}
	return nil
}

// ValidateDocument checks a document's typed invariants at the store
// boundary. Every write goes through it, so malformed bodies and invariant
// violations never reach disk.
func ValidateDocument(doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document id is required", apperrors.ErrValidation)
	}
	if !doc.Kind.Valid() {
		return fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, doc.Kind)
	}
	switch doc.Kind {
	case KindProduct:
		var p Product
		if err := doc.DecodeBody(&p); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if p.Name == "" {
			return fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
		}
		if p.SalePrice.IsNegative() {
			return fmt.Errorf("%w: product sale price must not be negative", apperrors.ErrValidation)
		}
	case KindStockMovement:
		var m StockMovement
		if err := doc.DecodeBody(&m); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if m.ProductID == "" {
			return fmt.Errorf("%w: stock movement product reference is required", apperrors.ErrValidation)
		}
		if m.Delta == 0 {
			return fmt.Errorf("%w: stock movement delta must not be zero", apperrors.ErrValidation)
		}
		if !m.Reason.Valid() {
			return fmt.Errorf("%w: unknown movement reason %q", apperrors.ErrValidation, m.Reason)
		}
	case KindAccount:
		var a Account
		if err := doc.DecodeBody(&a); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if a.Code == "" || a.Name == "" {
			return fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
		}
		if !a.Class.Valid() {
			return fmt.Errorf("%w: unknown account class %q", apperrors.ErrValidation, a.Class)
		}
	case KindJournalEntry:
		var j JournalEntry
		if err := doc.DecodeBody(&j); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if err := ValidateEntryLines(j.Lines); err != nil {
			return err
		}
	case KindSaleHeader:
		var h SaleHeader
		if err := doc.DecodeBody(&h); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if h.OpKey == "" || len(h.Lines) == 0 {
			return fmt.Errorf("%w: sale header needs an op key and at least one line", apperrors.ErrValidation)
		}
	case KindPurchaseHeader:
		var h PurchaseHeader
		if err := doc.DecodeBody(&h); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if h.OpKey == "" || len(h.Lines) == 0 {
			return fmt.Errorf("%w: purchase header needs an op key and at least one line", apperrors.ErrValidation)
		}
	case KindExpenseHeader:
		var h ExpenseHeader
		if err := doc.DecodeBody(&h); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if h.OpKey == "" || h.Category == "" {
			return fmt.Errorf("%w: expense header needs an op key and a category", apperrors.ErrValidation)
		}
		if !h.Amount.IsPositive() {
			return fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
		}
	case KindCustomer:
		var c Customer
		if err := doc.DecodeBody(&c); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if c.Name == "" {
			return fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
		}
	case KindUser:
		var u User
		if err := doc.DecodeBody(&u); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if u.Username == "" {
			return fmt.Errorf("%w: username is required", apperrors.ErrValidation)
		}
		if u.Role != RoleAdmin && u.Role != RoleCashier {
			return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, u.Role)
		}
	case KindConflictAudit:
		var c ConflictAudit
		if err := doc.DecodeBody(&c); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if c.DocID == "" {
			return fmt.Errorf("%w: conflict audit needs the conflicted document id", apperrors.ErrValidation)
		}
	}
	return nil
}
