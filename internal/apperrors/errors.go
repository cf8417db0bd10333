package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the acting role is not permitted to perform the operation.
var ErrForbidden = errors.New("operation forbidden for role")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// UnbalancedEntryError rejects a journal entry whose debit and credit totals
// differ by more than the allowed tolerance. The entry is never persisted.
type UnbalancedEntryError struct {
	Imbalance decimal.Decimal // debit total minus credit total
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry does not balance: imbalance %s", e.Imbalance.String())
}

func (e *UnbalancedEntryError) Unwrap() error { return ErrValidation }

// MalformedLineError rejects a journal line that does not have exactly one
// nonzero side, or carries a negative amount.
type MalformedLineError struct {
	Index  int
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("journal line %d malformed: %s", e.Index, e.Reason)
}

func (e *MalformedLineError) Unwrap() error { return ErrValidation }

// PartialCommitError reports that a composite operation durably wrote its
// header but could not complete every dependent write. It names what was and
// was not persisted so the caller and the reconciliation pass can repair it.
type PartialCommitError struct {
	HeaderID string
	Written  []string // dependent document IDs that were persisted
	Failed   []string // dependent document IDs that were not
	Cause    error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("partial commit of %s: %d dependent documents written, %d failed: %v",
		e.HeaderID, len(e.Written), len(e.Failed), e.Cause)
}

func (e *PartialCommitError) Unwrap() error { return e.Cause }
