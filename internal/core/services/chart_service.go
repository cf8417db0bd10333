package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
)

// chartService manages the chart of accounts.
type chartService struct {
	store portsrepo.DocumentStore
}

// NewChartService creates a new chart-of-accounts service.
func NewChartService(store portsrepo.DocumentStore) portssvc.ChartSvcFacade {
	return &chartService{store: store}
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

// bootstrapAccounts is the fixed chart created once if absent.
var bootstrapAccounts = []struct {
	Code  string
	Name  string
	Class domain.AccountClass
}{
	{domain.CodeCash, "Cash", domain.Asset},
	{domain.CodeBank, "Bank", domain.Asset},
	{domain.CodeReceivables, "Accounts Receivable", domain.Asset},
	{domain.CodeInventory, "Inventory", domain.Asset},
	{domain.CodePayables, "Accounts Payable", domain.Liability},
	{domain.CodeCapital, "Capital", domain.Equity},
	{domain.CodeSales, "Sales", domain.Revenue},
	{domain.CodeCOGS, "Cost of Goods Sold", domain.Expense},
	{domain.CodeGeneralExpense, "General Expense", domain.Expense},
}

// accountDocID derives the account document identity from its code, so the
// bootstrap chart and first-use expense accounts converge to the same
// documents on every replica.
func accountDocID(code string) string {
	return "account_" + code
}

// EnsureChart creates the bootstrap accounts idempotently.
func (s *chartService) EnsureChart(ctx context.Context, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	created := 0
	for _, acc := range bootstrapAccounts {
		account := domain.Account{
			AccountID: accountDocID(acc.Code),
			Code:      acc.Code,
			Name:      acc.Name,
			Class:     acc.Class,
			IsActive:  true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actor.UserID,
			},
		}
		doc, err := domain.NewDocument(account.AccountID, domain.KindAccount, now, account)
		if err != nil {
			return err
		}
		if _, err := s.store.Create(ctx, doc); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("bootstrap account %s: %w", acc.Code, err)
		}
		created++
	}
	if created > 0 {
		logger.Info("Chart of accounts bootstrapped", "created", created)
	}
	return nil
}

// CreateAccount creates a user-defined ledger account.
func (s *chartService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Class.Valid() {
		return nil, fmt.Errorf("%w: unknown account class %q", apperrors.ErrValidation, req.Class)
	}
	now := time.Now().UTC()
	account := domain.Account{
		AccountID: accountDocID(req.Code),
		Code:      req.Code,
		Name:      req.Name,
		Class:     req.Class,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	doc, err := domain.NewDocument(account.AccountID, domain.KindAccount, now, account)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create account %s: %w", req.Code, err)
	}
	logger.Info("Account created", "account_code", req.Code)
	return &account, nil
}

// GetAccountByCode returns the active account with the given unique code.
func (s *chartService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	doc, err := s.store.Get(ctx, accountDocID(code))
	if err != nil {
		return nil, err
	}
	if doc.Deleted {
		return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
	}
	var account domain.Account
	if err := doc.DecodeBody(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns every live account.
func (s *chartService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	docs, err := s.store.ScanKind(ctx, domain.KindAccount)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(docs))
	for _, doc := range docs {
		var account domain.Account
		if err := doc.DecodeBody(&account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// expenseCategorySlug normalizes a free-text category into a code fragment.
func expenseCategorySlug(category string) string {
	slug := strings.ToLower(strings.TrimSpace(category))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return r // non-latin categories keep their runes
		}
	}, slug)
	return slug
}

// EnsureExpenseAccount returns the expense account for a category, creating
// it on first use. The identity derives from the category so independent
// first uses on offline replicas merge as the same document.
func (s *chartService) EnsureExpenseAccount(ctx context.Context, actor domain.Actor, category string) (*domain.Account, error) {
	if strings.TrimSpace(category) == "" {
		return s.GetAccountByCode(ctx, domain.CodeGeneralExpense)
	}
	code := "6-" + expenseCategorySlug(category)

	existing, err := s.GetAccountByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID: accountDocID(code),
		Code:      code,
		Name:      "Expense: " + strings.TrimSpace(category),
		Class:     domain.Expense,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	doc, err := domain.NewDocument(account.AccountID, domain.KindAccount, now, account)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, doc); err != nil {
		// Lost a race with a concurrent first use; the existing doc wins.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.GetAccountByCode(ctx, code)
		}
		return nil, fmt.Errorf("create expense account %s: %w", code, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Expense account created on first use", "account_code", code)
	return &account, nil
}
