package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/daftarhq/daftar/internal/core/domain"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SyncServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memStore
	sync  portssvc.SyncSvcFacade
}

func (s *SyncServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.sync = services.NewSyncService(s.store)
}

func movementDoc(s *SyncServiceTestSuite, id string, delta int64, at time.Time) domain.Document {
	movement := domain.StockMovement{
		MovementID:   id,
		ProductID:    "product_1",
		Delta:        delta,
		Reason:       domain.ReasonAdjustment,
		RelatedDocID: "",
		OccurredAt:   at,
		CreatedAt:    at,
		CreatedBy:    "user_remote",
	}
	doc, err := domain.NewDocument(id, domain.KindStockMovement, at, movement)
	s.Require().NoError(err)
	return doc
}

func productDocAt(s *SyncServiceTestSuite, id, name string, at time.Time) domain.Document {
	product := domain.Product{
		ProductID: id,
		Name:      name,
		SKU:       "sku",
		Unit:      "piece",
		Category:  "general",
		SalePrice: decimal.NewFromInt(10),
		CostPrice: decimal.NewFromInt(5),
		AuditFields: domain.AuditFields{
			CreatedAt: at, CreatedBy: "user_remote",
			LastUpdatedAt: at, LastUpdatedBy: "user_remote",
		},
	}
	doc, err := domain.NewDocument(id, domain.KindProduct, at, product)
	s.Require().NoError(err)
	return doc
}

func (s *SyncServiceTestSuite) TestMergeEvents_UnionIsIdempotent() {
	now := time.Now().UTC()
	batch := []domain.Document{
		movementDoc(s, "stock_a_0", 3, now),
		movementDoc(s, "stock_b_0", -1, now),
	}

	result, err := s.sync.MergeForeignBatch(s.ctx, batch)
	s.Require().NoError(err)
	s.Equal(2, result.Applied)
	s.Equal(0, result.Unchanged)
	s.Empty(result.Conflicts)

	// Re-merging the same batch changes nothing.
	result, err = s.sync.MergeForeignBatch(s.ctx, batch)
	s.Require().NoError(err)
	s.Equal(0, result.Applied)
	s.Equal(2, result.Unchanged)
	s.Empty(result.Conflicts)

	docs, err := s.store.ScanKind(s.ctx, domain.KindStockMovement)
	s.Require().NoError(err)
	s.Len(docs, 2)
}

func (s *SyncServiceTestSuite) TestMergeEvents_OrderIndependent() {
	now := time.Now().UTC()
	a := movementDoc(s, "stock_a_0", 3, now)
	b := movementDoc(s, "stock_b_0", -1, now)

	otherStore := newMemStore()
	otherSync := services.NewSyncService(otherStore)

	_, err := s.sync.MergeForeignBatch(s.ctx, []domain.Document{a, b})
	s.Require().NoError(err)
	_, err = otherSync.MergeForeignBatch(s.ctx, []domain.Document{b, a})
	s.Require().NoError(err)

	mine, err := s.store.ScanKind(s.ctx, domain.KindStockMovement)
	s.Require().NoError(err)
	theirs, err := otherStore.ScanKind(s.ctx, domain.KindStockMovement)
	s.Require().NoError(err)

	s.Len(mine, 2)
	s.Len(theirs, 2)
}

func (s *SyncServiceTestSuite) TestMergeEvents_TombstonePropagates() {
	now := time.Now().UTC()
	live := movementDoc(s, "stock_a_0", 3, now)

	// This device already holds the live movement.
	_, err := s.store.Create(s.ctx, live)
	s.Require().NoError(err)

	tombstone := live
	tombstone.Deleted = true
	tombstone.UpdatedAt = now.Add(time.Minute)

	result, err := s.sync.MergeForeignBatch(s.ctx, []domain.Document{tombstone})
	s.Require().NoError(err)
	s.Equal(1, result.Applied)

	local, err := s.store.Get(s.ctx, "stock_a_0")
	s.Require().NoError(err)
	s.True(local.Deleted, "the replicated deletion must land here too")

	// The deleted movement no longer counts toward projections.
	docs, err := s.store.ScanKind(s.ctx, domain.KindStockMovement)
	s.Require().NoError(err)
	s.Empty(docs)

	// Re-merging the tombstone changes nothing.
	result, err = s.sync.MergeForeignBatch(s.ctx, []domain.Document{tombstone})
	s.Require().NoError(err)
	s.Equal(0, result.Applied)
	s.Equal(1, result.Unchanged)

	// A stale live copy still circulating does not undo the deletion.
	result, err = s.sync.MergeForeignBatch(s.ctx, []domain.Document{live})
	s.Require().NoError(err)
	s.Equal(0, result.Applied)
	s.Equal(1, result.Unchanged)
	local, err = s.store.Get(s.ctx, "stock_a_0")
	s.Require().NoError(err)
	s.True(local.Deleted)
}

func (s *SyncServiceTestSuite) TestMergeEvents_TombstoneOfUnknownDocStaysDead() {
	now := time.Now().UTC()
	tombstone := movementDoc(s, "stock_b_0", -1, now)
	tombstone.Deleted = true

	result, err := s.sync.MergeForeignBatch(s.ctx, []domain.Document{tombstone})
	s.Require().NoError(err)
	s.Equal(1, result.Applied)

	local, err := s.store.Get(s.ctx, "stock_b_0")
	s.Require().NoError(err)
	s.True(local.Deleted, "a deleted movement must not come back to life")

	docs, err := s.store.ScanKind(s.ctx, domain.KindStockMovement)
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *SyncServiceTestSuite) TestMergeMutable_NewDocumentApplied() {
	now := time.Now().UTC()
	result, err := s.sync.MergeForeignBatch(s.ctx, []domain.Document{productDocAt(s, "product_1", "Tea", now)})
	s.Require().NoError(err)
	s.Equal(1, result.Applied)
	s.Empty(result.Conflicts)
}

func (s *SyncServiceTestSuite) TestMergeMutable_NewerForeignWins() {
	older := time.Now().UTC().Add(-time.Hour)
	newer := older.Add(30 * time.Minute)

	_, err := s.store.Put(s.ctx, productDocAt(s, "product_1", "Tea", older))
	s.Require().NoError(err)

	result, err := s.sync.MergeForeignBatch(s.ctx, []domain.Document{productDocAt(s, "product_1", "Green Tea", newer)})
	s.Require().NoError(err)
	s.Equal(1, result.Applied)
	s.Require().Len(result.Conflicts, 1)
	s.False(result.Conflicts[0].LocalWon)
	s.True(result.Conflicts[0].LosingTime.Equal(older))

	// The winner replaced the document.
	doc, err := s.store.Get(s.ctx, "product_1")
	s.Require().NoError(err)
	var product domain.Product
	s.Require().NoError(doc.DecodeBody(&product))
	s.Equal("Green Tea", product.Name)

	// The losing revision is preserved for audit.
	audit, err := s.store.Get(s.ctx, result.Conflicts[0].AuditDocID)
	s.Require().NoError(err)
	var conflictAudit domain.ConflictAudit
	s.Require().NoError(audit.DecodeBody(&conflictAudit))
	s.Equal("product_1", conflictAudit.DocID)

	var losingProduct domain.Product
	s.Require().NoError(json.Unmarshal(conflictAudit.LosingBody, &losingProduct))
	s.Equal("Tea", losingProduct.Name)
}

func (s *SyncServiceTestSuite) TestMergeMutable_StaleForeignLoses() {
	older := time.Now().UTC().Add(-time.Hour)
	newer := older.Add(30 * time.Minute)

	_, err := s.store.Put(s.ctx, productDocAt(s, "product_1", "Tea", newer))
	s.Require().NoError(err)

	result, err := s.sync.MergeForeignBatch(s.ctx, []domain.Document{productDocAt(s, "product_1", "Old Tea", older)})
	s.Require().NoError(err)
	s.Equal(0, result.Applied)
	s.Equal(1, result.Unchanged)
	s.Require().Len(result.Conflicts, 1)
	s.True(result.Conflicts[0].LocalWon)

	// Local revision untouched.
	doc, err := s.store.Get(s.ctx, "product_1")
	s.Require().NoError(err)
	var product domain.Product
	s.Require().NoError(doc.DecodeBody(&product))
	s.Equal("Tea", product.Name)
}

func (s *SyncServiceTestSuite) TestMergeMutable_IdenticalRevisionIsQuiet() {
	now := time.Now().UTC()
	doc := productDocAt(s, "product_1", "Tea", now)

	_, err := s.store.Put(s.ctx, doc)
	s.Require().NoError(err)

	result, err := s.sync.MergeForeignBatch(s.ctx, []domain.Document{doc})
	s.Require().NoError(err)
	s.Equal(0, result.Applied)
	s.Equal(1, result.Unchanged)
	s.Empty(result.Conflicts, "identical revisions are not conflicts")
}

func (s *SyncServiceTestSuite) TestMergeRejectsUnknownKind() {
	now := time.Now().UTC()
	doc, err := domain.NewDocument("weird_1", domain.Kind("weird"), now, map[string]string{})
	s.Require().NoError(err)

	_, err = s.sync.MergeForeignBatch(s.ctx, []domain.Document{doc})
	s.Error(err)
}

func (s *SyncServiceTestSuite) TestExportLocalChanges() {
	now := time.Now().UTC()
	_, err := s.store.Put(s.ctx, productDocAt(s, "product_1", "Tea", now))
	s.Require().NoError(err)
	_, err = s.store.Put(s.ctx, productDocAt(s, "product_2", "Coffee", now))
	s.Require().NoError(err)

	resp, err := s.sync.ExportLocalChanges(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(resp.Documents, 2)
	s.Greater(resp.NextSince, int64(0))

	resp, err = s.sync.ExportLocalChanges(s.ctx, resp.NextSince)
	s.Require().NoError(err)
	s.Empty(resp.Documents)
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
