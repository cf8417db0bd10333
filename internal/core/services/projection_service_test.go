package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/daftarhq/daftar/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putMovement(t *testing.T, store *memStore, id string, productID string, delta int64) {
	t.Helper()
	now := time.Now().UTC()
	movement := domain.StockMovement{
		MovementID: id,
		ProductID:  productID,
		Delta:      delta,
		Reason:     domain.ReasonAdjustment,
		OccurredAt: now,
		CreatedAt:  now,
		CreatedBy:  "user_1",
	}
	doc, err := domain.NewDocument(id, domain.KindStockMovement, now, movement)
	require.NoError(t, err)
	_, err = store.Create(context.Background(), doc)
	require.NoError(t, err)
}

func TestCurrentStock_SumsDeltas(t *testing.T) {
	store := newMemStore()
	stockSvc := services.NewStockService(store)
	ctx := context.Background()

	putMovement(t, store, "stock_a_0", "product_1", 10)
	putMovement(t, store, "stock_b_0", "product_1", -3)
	putMovement(t, store, "stock_c_0", "product_2", 5)

	stock, err := stockSvc.CurrentStock(ctx, "product_1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock)

	levels, err := stockSvc.Levels(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), levels["product_1"])
	assert.Equal(t, int64(5), levels["product_2"])

	// No movements means stock zero, not an error.
	stock, err = stockSvc.CurrentStock(ctx, "product_ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)
}

func TestCurrentStock_InsertionOrderIrrelevant(t *testing.T) {
	ctx := context.Background()

	first := newMemStore()
	putMovement(t, first, "stock_a_0", "product_1", 10)
	putMovement(t, first, "stock_b_0", "product_1", -3)

	second := newMemStore()
	putMovement(t, second, "stock_b_0", "product_1", -3)
	putMovement(t, second, "stock_a_0", "product_1", 10)

	a, err := services.NewStockService(first).CurrentStock(ctx, "product_1")
	require.NoError(t, err)
	b, err := services.NewStockService(second).CurrentStock(ctx, "product_1")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCurrentStock_TombstonedMovementDropsOut(t *testing.T) {
	store := newMemStore()
	stockSvc := services.NewStockService(store)
	ctx := context.Background()

	putMovement(t, store, "stock_a_0", "product_1", 10)
	putMovement(t, store, "stock_b_0", "product_1", -3)
	require.NoError(t, store.Remove(ctx, "stock_b_0"))

	stock, err := stockSvc.CurrentStock(ctx, "product_1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), stock)
}

func putJournal(t *testing.T, store *memStore, id string, lines []domain.JournalLine) {
	t.Helper()
	now := time.Now().UTC()
	entry := domain.JournalEntry{
		JournalID:   id,
		Description: "test entry",
		OccurredAt:  now,
		Lines:       lines,
		CreatedAt:   now,
		CreatedBy:   "user_1",
	}
	doc, err := domain.NewDocument(id, domain.KindJournalEntry, now, entry)
	require.NoError(t, err)
	_, err = store.Create(context.Background(), doc)
	require.NoError(t, err)
}

func TestAccountBalance_SignConventions(t *testing.T) {
	store := newMemStore()
	chartSvc := services.NewChartService(store)
	ledgerSvc := services.NewLedgerService(store, chartSvc)
	ctx := context.Background()
	actor := domain.Actor{UserID: "user_1", Role: domain.RoleAdmin}

	require.NoError(t, chartSvc.EnsureChart(ctx, actor))

	putJournal(t, store, "journal_op1_sale", []domain.JournalLine{
		{AccountID: "account_" + domain.CodeCash, Debit: decimal.NewFromInt(20)},
		{AccountID: "account_" + domain.CodeSales, Credit: decimal.NewFromInt(20)},
	})
	putJournal(t, store, "journal_op2_expense", []domain.JournalLine{
		{AccountID: "account_" + domain.CodeGeneralExpense, Debit: decimal.NewFromInt(5)},
		{AccountID: "account_" + domain.CodeCash, Credit: decimal.NewFromInt(5)},
	})

	// Cash is an asset: debit-positive.
	cash, err := ledgerSvc.AccountBalance(ctx, domain.CodeCash)
	require.NoError(t, err)
	assert.True(t, cash.DebitTotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, cash.CreditTotal.Equal(decimal.NewFromInt(5)))
	assert.True(t, cash.SignedBalance.Equal(decimal.NewFromInt(15)))

	// Sales is revenue: credit-positive.
	sales, err := ledgerSvc.AccountBalance(ctx, domain.CodeSales)
	require.NoError(t, err)
	assert.True(t, sales.SignedBalance.Equal(decimal.NewFromInt(20)))

	// Expense accounts are debit-positive.
	expense, err := ledgerSvc.AccountBalance(ctx, domain.CodeGeneralExpense)
	require.NoError(t, err)
	assert.True(t, expense.SignedBalance.Equal(decimal.NewFromInt(5)))
}

func TestAccountBalance_UnknownCode(t *testing.T) {
	store := newMemStore()
	chartSvc := services.NewChartService(store)
	ledgerSvc := services.NewLedgerService(store, chartSvc)

	_, err := ledgerSvc.AccountBalance(context.Background(), "9999")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetJournal(t *testing.T) {
	store := newMemStore()
	chartSvc := services.NewChartService(store)
	ledgerSvc := services.NewLedgerService(store, chartSvc)
	ctx := context.Background()

	putJournal(t, store, "journal_op1_sale", []domain.JournalLine{
		{AccountID: "account_1000", Debit: decimal.NewFromInt(10)},
		{AccountID: "account_4000", Credit: decimal.NewFromInt(10)},
	})

	entry, err := ledgerSvc.GetJournal(ctx, "journal_op1_sale")
	require.NoError(t, err)
	assert.Len(t, entry.Lines, 2)

	_, err = ledgerSvc.GetJournal(ctx, "journal_ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
