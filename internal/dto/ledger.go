package dto

import (
	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalanceResponse carries both the raw debit/credit totals and the
// class-adjusted signed balance for an account.
type AccountBalanceResponse struct {
	AccountCode   string              `json:"accountCode"`
	AccountName   string              `json:"accountName"`
	Class         domain.AccountClass `json:"class"`
	DebitTotal    decimal.Decimal     `json:"debitTotal"`
	CreditTotal   decimal.Decimal     `json:"creditTotal"`
	SignedBalance decimal.Decimal     `json:"signedBalance"`
}

// CreateAccountRequest creates a ledger account.
type CreateAccountRequest struct {
	Code  string              `json:"code" binding:"required"`
	Name  string              `json:"name" binding:"required"`
	Class domain.AccountClass `json:"class" binding:"required,accountclass"`
}
