package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/core/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memStore
	product portssvc.ProductSvcFacade
	chart   portssvc.ChartSvcFacade
	posting portssvc.PostingSvcFacade
	actor   domain.Actor
}

func (s *PostingServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.product = services.NewProductService(s.store)
	s.chart = services.NewChartService(s.store)
	s.posting = services.NewPostingService(s.store, s.product, s.chart)
	s.actor = domain.Actor{UserID: "user_test", Role: domain.RoleAdmin}

	s.Require().NoError(s.chart.EnsureChart(s.ctx, s.actor))
}

// seedProduct creates a product and stamps its cost price.
func (s *PostingServiceTestSuite) seedProduct(name, salePrice, costPrice string) *domain.Product {
	product, err := s.product.CreateProduct(s.ctx, s.actor, dto.CreateProductRequest{
		Name:      name,
		SalePrice: decimalFrom(salePrice),
	})
	s.Require().NoError(err)

	cost := decimalFrom(costPrice)
	product, err = s.product.UpdateProduct(s.ctx, s.actor, product.ProductID, dto.UpdateProductRequest{CostPrice: &cost})
	s.Require().NoError(err)
	return product
}

func decimalFrom(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (s *PostingServiceTestSuite) journalsFor(headerID string) []domain.JournalEntry {
	docs, err := s.store.ScanKind(s.ctx, domain.KindJournalEntry)
	s.Require().NoError(err)
	var entries []domain.JournalEntry
	for _, doc := range docs {
		var entry domain.JournalEntry
		s.Require().NoError(doc.DecodeBody(&entry))
		if entry.RelatedDocID == headerID {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (s *PostingServiceTestSuite) movementsFor(headerID string) []domain.StockMovement {
	docs, err := s.store.ScanKind(s.ctx, domain.KindStockMovement)
	s.Require().NoError(err)
	var movements []domain.StockMovement
	for _, doc := range docs {
		var movement domain.StockMovement
		s.Require().NoError(doc.DecodeBody(&movement))
		if movement.RelatedDocID == headerID {
			movements = append(movements, movement)
		}
	}
	return movements
}

func (s *PostingServiceTestSuite) TestRecordSale_PostsMovementsAndJournals() {
	product := s.seedProduct("Tea", "10.00", "6.00")

	header, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 2, Price: decimalFrom("10.00")}},
	})
	s.Require().NoError(err)
	s.True(header.Total.Equal(decimalFrom("20.00")))
	s.NotEmpty(header.OpKey)

	movements := s.movementsFor(header.SaleID)
	s.Require().Len(movements, 1)
	s.Equal(int64(-2), movements[0].Delta)
	s.Equal(domain.ReasonSale, movements[0].Reason)
	s.Equal(product.ProductID, movements[0].ProductID)

	journals := s.journalsFor(header.SaleID)
	s.Require().Len(journals, 2)

	byID := map[string]domain.JournalEntry{}
	for _, entry := range journals {
		byID[entry.JournalID] = entry
	}
	revenue, ok := byID["journal_"+header.OpKey+"_sale"]
	s.Require().True(ok)
	s.True(revenue.DebitTotal().Equal(decimalFrom("20.00")))
	s.True(revenue.CreditTotal().Equal(decimalFrom("20.00")))

	cogs, ok := byID["journal_"+header.OpKey+"_cogs"]
	s.Require().True(ok)
	s.True(cogs.DebitTotal().Equal(decimalFrom("12.00")), "cost of 2 units at 6.00")
}

func (s *PostingServiceTestSuite) TestRecordSale_ZeroCostSkipsCogsEntry() {
	product := s.seedProduct("Sample", "5.00", "0")

	header, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 1, Price: decimalFrom("5.00")}},
	})
	s.Require().NoError(err)

	journals := s.journalsFor(header.SaleID)
	s.Len(journals, 1, "no cost entry when the cached cost is zero")
}

func (s *PostingServiceTestSuite) TestRecordSale_ZeroTotalPostsNoRevenue() {
	product := s.seedProduct("Giveaway", "0", "0")

	header, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 1, Price: decimalFrom("0")}},
	})
	s.Require().NoError(err, "a free-item sale is a valid operation")
	s.True(header.Total.IsZero())

	// Stock still moves, but no zero-amount entry is posted.
	movements := s.movementsFor(header.SaleID)
	s.Require().Len(movements, 1)
	s.Equal(int64(-1), movements[0].Delta)
	s.Empty(s.journalsFor(header.SaleID))

	// The header leaves reconciliation nothing to chase.
	repaired, err := s.posting.Reconcile(s.ctx, s.actor)
	s.Require().NoError(err)
	s.Empty(repaired)
}

func (s *PostingServiceTestSuite) TestRecordSale_UnknownProduct() {
	_, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: "product_ghost", Qty: 1, Price: decimalFrom("5.00")}},
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostingServiceTestSuite) TestRecordSale_RejectsBadLines() {
	product := s.seedProduct("Tea", "10.00", "6.00")

	_, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 0, Price: decimalFrom("5.00")}},
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 1, Price: decimalFrom("-1.00")}},
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{})
	s.ErrorIs(err, apperrors.ErrValidation)

	// Nothing persisted by the rejected attempts.
	headers, scanErr := s.store.ScanKind(s.ctx, domain.KindSaleHeader)
	s.Require().NoError(scanErr)
	s.Empty(headers)
}

func (s *PostingServiceTestSuite) TestRecordSale_PartialCommitThenReconcile() {
	product := s.seedProduct("Tea", "10.00", "6.00")

	// Journal writes fail persistently; movements succeed.
	s.store.failCreate = func(doc domain.Document) error {
		if strings.HasPrefix(doc.ID, "journal_") {
			return fmt.Errorf("disk full")
		}
		return nil
	}

	header, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 2, Price: decimalFrom("10.00")}},
	})
	s.Require().Error(err)

	var partial *apperrors.PartialCommitError
	s.Require().True(errors.As(err, &partial))
	s.Equal(header.SaleID, partial.HeaderID)
	s.Len(partial.Written, 1, "the stock movement was persisted")
	s.Len(partial.Failed, 2, "both journal entries failed")

	// The header is durable even though the operation failed.
	_, getErr := s.store.Get(s.ctx, header.SaleID)
	s.Require().NoError(getErr)

	// Storage recovers; reconciliation re-emits exactly the missing documents.
	s.store.failCreate = nil
	repaired, err := s.posting.Reconcile(s.ctx, s.actor)
	s.Require().NoError(err)
	s.Equal([]string{header.SaleID}, repaired)

	journals := s.journalsFor(header.SaleID)
	s.Len(journals, 2)
	movements := s.movementsFor(header.SaleID)
	s.Len(movements, 1, "reconcile never duplicates what already exists")

	// A second pass finds nothing to repair.
	repaired, err = s.posting.Reconcile(s.ctx, s.actor)
	s.Require().NoError(err)
	s.Empty(repaired)
}

func (s *PostingServiceTestSuite) TestReconcile_SkipsStuckHeaderAndRepairsTheRest() {
	product := s.seedProduct("Tea", "10.00", "6.00")

	// Both sales lose their journal writes.
	s.store.failCreate = func(doc domain.Document) error {
		if strings.HasPrefix(doc.ID, "journal_") {
			return fmt.Errorf("disk full")
		}
		return nil
	}
	first, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 1, Price: decimalFrom("10.00")}},
	})
	s.Require().Error(err)
	second, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 1, Price: decimalFrom("10.00")}},
	})
	s.Require().Error(err)

	// Storage recovers except for the first sale's journals.
	s.store.failCreate = func(doc domain.Document) error {
		if strings.HasPrefix(doc.ID, "journal_"+first.OpKey) {
			return fmt.Errorf("disk full")
		}
		return nil
	}
	repaired, err := s.posting.Reconcile(s.ctx, s.actor)
	s.Require().NoError(err, "one stuck header must not abort the pass")
	s.Equal([]string{second.SaleID}, repaired)
	s.Len(s.journalsFor(second.SaleID), 2)

	// Once storage fully recovers, the stuck header is repaired too.
	s.store.failCreate = nil
	repaired, err = s.posting.Reconcile(s.ctx, s.actor)
	s.Require().NoError(err)
	s.Equal([]string{first.SaleID}, repaired)
}

func (s *PostingServiceTestSuite) TestRecordPurchase_PostsAndUpdatesCost() {
	product := s.seedProduct("Tea", "10.00", "6.00")

	header, err := s.posting.RecordPurchase(s.ctx, s.actor, dto.RecordPurchaseRequest{
		Lines:      []dto.PurchaseLineRequest{{ProductID: product.ProductID, Qty: 5, Cost: decimalFrom("7.00")}},
		SupplierID: "supplier_1",
	})
	s.Require().NoError(err)
	s.True(header.Total.Equal(decimalFrom("35.00")))

	movements := s.movementsFor(header.PurchaseID)
	s.Require().Len(movements, 1)
	s.Equal(int64(5), movements[0].Delta)
	s.Equal(domain.ReasonPurchase, movements[0].Reason)

	journals := s.journalsFor(header.PurchaseID)
	s.Require().Len(journals, 1)
	s.True(journals[0].DebitTotal().Equal(decimalFrom("35.00")))

	// Named supplier means the credit goes to payables.
	var creditAccount string
	for _, line := range journals[0].Lines {
		if !line.Credit.IsZero() {
			creditAccount = line.AccountID
		}
	}
	s.Equal("account_"+domain.CodePayables, creditAccount)

	// Cached cost refreshed last-writer-wins.
	updated, err := s.product.GetProduct(s.ctx, product.ProductID)
	s.Require().NoError(err)
	s.True(updated.CostPrice.Equal(decimalFrom("7.00")))
}

func (s *PostingServiceTestSuite) TestRecordPurchase_CashWhenNoSupplier() {
	product := s.seedProduct("Tea", "10.00", "6.00")

	header, err := s.posting.RecordPurchase(s.ctx, s.actor, dto.RecordPurchaseRequest{
		Lines: []dto.PurchaseLineRequest{{ProductID: product.ProductID, Qty: 1, Cost: decimalFrom("7.00")}},
	})
	s.Require().NoError(err)

	journals := s.journalsFor(header.PurchaseID)
	s.Require().Len(journals, 1)
	var creditAccount string
	for _, line := range journals[0].Lines {
		if !line.Credit.IsZero() {
			creditAccount = line.AccountID
		}
	}
	s.Equal("account_"+domain.CodeCash, creditAccount)
}

func (s *PostingServiceTestSuite) TestRecordExpense_CreatesCategoryAccount() {
	header, err := s.posting.RecordExpense(s.ctx, s.actor, dto.RecordExpenseRequest{
		Category: "Electricity",
		Amount:   decimalFrom("42.50"),
		Note:     "March bill",
	})
	s.Require().NoError(err)

	account, err := s.chart.GetAccountByCode(s.ctx, "6-electricity")
	s.Require().NoError(err)
	s.Equal(domain.Expense, account.Class)

	journals := s.journalsFor(header.ExpenseID)
	s.Require().Len(journals, 1)
	s.True(journals[0].DebitTotal().Equal(decimalFrom("42.50")))

	var debitAccount string
	for _, line := range journals[0].Lines {
		if !line.Debit.IsZero() {
			debitAccount = line.AccountID
		}
	}
	s.Equal(account.AccountID, debitAccount)
}

func (s *PostingServiceTestSuite) TestRecordExpense_RejectsNonPositiveAmount() {
	_, err := s.posting.RecordExpense(s.ctx, s.actor, dto.RecordExpenseRequest{
		Category: "Misc",
		Amount:   decimalFrom("0"),
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PostingServiceTestSuite) TestReconcile_NoopOnHealthyStore() {
	product := s.seedProduct("Tea", "10.00", "6.00")

	_, err := s.posting.RecordSale(s.ctx, s.actor, dto.RecordSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: product.ProductID, Qty: 1, Price: decimalFrom("10.00")}},
	})
	s.Require().NoError(err)

	repaired, err := s.posting.Reconcile(s.ctx, s.actor)
	s.Require().NoError(err)
	s.Empty(repaired)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
