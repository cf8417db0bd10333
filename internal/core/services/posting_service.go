package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 50 * time.Millisecond
)

// postingService executes business actions as composite document writes.
// There is no multi-document transaction underneath: the header is written
// first, dependent documents carry identities derived from the operation's
// idempotency key, and a reconciliation pass re-emits whatever a crash left
// missing. Create-if-absent semantics make every replay a no-op.
type postingService struct {
	store      portsrepo.DocumentStore
	productSvc portssvc.ProductSvcFacade
	chartSvc   portssvc.ChartSvcFacade
	maxRetries int
	backoff    time.Duration
}

// NewPostingService creates a new composite operation coordinator.
func NewPostingService(store portsrepo.DocumentStore, productSvc portssvc.ProductSvcFacade, chartSvc portssvc.ChartSvcFacade) portssvc.PostingSvcFacade {
	return &postingService{
		store:      store,
		productSvc: productSvc,
		chartSvc:   chartSvc,
		maxRetries: defaultMaxRetries,
		backoff:    defaultRetryBackoff,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// createWithRetry writes one dependent document with bounded retries and
// exponential backoff. An already-existing document counts as success: its
// identity derives from the idempotency key, so it is this very write,
// already durable from an earlier attempt.
func (s *postingService) createWithRetry(ctx context.Context, doc domain.Document) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff << (attempt - 1)):
			}
		}
		_, err = s.store.Create(ctx, doc)
		if err == nil || errors.Is(err, apperrors.ErrDuplicate) {
			return nil
		}
		if errors.Is(err, apperrors.ErrValidation) {
			return err // construction fault, retrying cannot help
		}
	}
	return err
}

// writeDependents writes every dependent document, retrying each, and
// surfaces a PartialCommit naming the header and per-document outcome when
// any write could not be completed.
func (s *postingService) writeDependents(ctx context.Context, headerID string, deps []domain.Document) error {
	var written, failed []string
	var firstErr error
	for _, dep := range deps {
		if err := s.createWithRetry(ctx, dep); err != nil {
			failed = append(failed, dep.ID)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written = append(written, dep.ID)
	}
	if len(failed) > 0 {
		return &apperrors.PartialCommitError{
			HeaderID: headerID,
			Written:  written,
			Failed:   failed,
			Cause:    firstErr,
		}
	}
	return nil
}

func movementDocID(opKey string, idx int) string {
	return fmt.Sprintf("stock_%s_%d", opKey, idx)
}

func journalDocID(opKey, suffix string) string {
	return fmt.Sprintf("journal_%s_%s", opKey, suffix)
}

// buildSaleDependents derives the dependent documents of a sale entirely
// from its header, so posting and reconciliation produce identical sets.
func (s *postingService) buildSaleDependents(header domain.SaleHeader) ([]domain.Document, error) {
	now := time.Now().UTC()
	var deps []domain.Document

	for i, line := range header.Lines {
		movement := domain.StockMovement{
			MovementID:   movementDocID(header.OpKey, i),
			ProductID:    line.ProductID,
			Delta:        -line.Qty,
			Reason:       domain.ReasonSale,
			RelatedDocID: header.SaleID,
			OccurredAt:   header.OccurredAt,
			CreatedAt:    now,
			CreatedBy:    header.CreatedBy,
		}
		doc, err := domain.NewDocument(movement.MovementID, domain.KindStockMovement, now, movement)
		if err != nil {
			return nil, err
		}
		deps = append(deps, doc)
	}

	// A zero-total sale (free items) moves stock but posts no revenue; a
	// zero-amount entry would be malformed.
	if header.Total.IsPositive() {
		revenue := domain.JournalEntry{
			JournalID:    journalDocID(header.OpKey, "sale"),
			Description:  "Sale " + header.SaleID,
			OccurredAt:   header.OccurredAt,
			RelatedDocID: header.SaleID,
			Lines: []domain.JournalLine{
				{AccountID: accountDocID(domain.CodeCash), Debit: header.Total},
				{AccountID: accountDocID(domain.CodeSales), Credit: header.Total},
			},
			CreatedAt: now,
			CreatedBy: header.CreatedBy,
		}
		if err := domain.ValidateEntryLines(revenue.Lines); err != nil {
			return nil, err
		}
		doc, err := domain.NewDocument(revenue.JournalID, domain.KindJournalEntry, now, revenue)
		if err != nil {
			return nil, err
		}
		deps = append(deps, doc)
	}

	costTotal := decimal.Zero
	for _, line := range header.Lines {
		costTotal = costTotal.Add(line.UnitCost.Mul(decimal.NewFromInt(line.Qty)))
	}
	if costTotal.IsPositive() {
		cogs := domain.JournalEntry{
			JournalID:    journalDocID(header.OpKey, "cogs"),
			Description:  "Cost of goods for " + header.SaleID,
			OccurredAt:   header.OccurredAt,
			RelatedDocID: header.SaleID,
			Lines: []domain.JournalLine{
				{AccountID: accountDocID(domain.CodeCOGS), Debit: costTotal},
				{AccountID: accountDocID(domain.CodeInventory), Credit: costTotal},
			},
			CreatedAt: now,
			CreatedBy: header.CreatedBy,
		}
		if err := domain.ValidateEntryLines(cogs.Lines); err != nil {
			return nil, err
		}
		doc, err := domain.NewDocument(cogs.JournalID, domain.KindJournalEntry, now, cogs)
		if err != nil {
			return nil, err
		}
		deps = append(deps, doc)
	}
	return deps, nil
}

// RecordSale validates the request, writes the sale header, then the
// dependent stock movements and journal entries.
func (s *postingService) RecordSale(ctx context.Context, actor domain.Actor, req dto.RecordSaleRequest) (*domain.SaleHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: sale needs at least one line", apperrors.ErrValidation)
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	total := decimal.Zero
	lines := make([]domain.SaleLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		if lineReq.Qty <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", apperrors.ErrValidation, lineReq.ProductID)
		}
		if lineReq.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative for product %s", apperrors.ErrValidation, lineReq.ProductID)
		}
		product, err := s.productSvc.GetProduct(ctx, lineReq.ProductID)
		if err != nil {
			return nil, err
		}
		// Capture the cached cost now; the cost-of-goods entry must not
		// depend on whatever the cost is at reconcile time.
		lines[i] = domain.SaleLine{
			ProductID: product.ProductID,
			Qty:       lineReq.Qty,
			Price:     lineReq.Price,
			UnitCost:  product.CostPrice,
		}
		total = total.Add(lineReq.Price.Mul(decimal.NewFromInt(lineReq.Qty)))
	}

	now := time.Now().UTC()
	header := domain.SaleHeader{
		SaleID:     "sale_" + uuid.NewString(),
		OpKey:      uuid.NewString(),
		CustomerID: req.CustomerID,
		Total:      total,
		Lines:      lines,
		OccurredAt: occurredAt,
		CreatedAt:  now,
		CreatedBy:  actor.UserID,
	}
	headerDoc, err := domain.NewDocument(header.SaleID, domain.KindSaleHeader, now, header)
	if err != nil {
		return nil, err
	}
	// Derive the dependents before the header commits: a header must never
	// become durable unless its dependent documents are constructible, or it
	// would poison every later reconciliation pass.
	deps, err := s.buildSaleDependents(header)
	if err != nil {
		return nil, err
	}
	// Header first: if this write fails there is no partial state to repair.
	if _, err := s.store.Create(ctx, headerDoc); err != nil {
		return nil, fmt.Errorf("write sale header: %w", err)
	}

	if err := s.writeDependents(ctx, header.SaleID, deps); err != nil {
		logger.Error("Sale partially committed", "header_id", header.SaleID, "error", err)
		return &header, err
	}

	logger.Info("Sale recorded", "header_id", header.SaleID, "total", total.String(), "lines", len(lines))
	return &header, nil
}

// buildPurchaseDependents derives the dependent documents of a purchase.
func (s *postingService) buildPurchaseDependents(header domain.PurchaseHeader) ([]domain.Document, error) {
	now := time.Now().UTC()
	var deps []domain.Document

	for i, line := range header.Lines {
		movement := domain.StockMovement{
			MovementID:   movementDocID(header.OpKey, i),
			ProductID:    line.ProductID,
			Delta:        line.Qty,
			Reason:       domain.ReasonPurchase,
			RelatedDocID: header.PurchaseID,
			OccurredAt:   header.OccurredAt,
			CreatedAt:    now,
			CreatedBy:    header.CreatedBy,
		}
		doc, err := domain.NewDocument(movement.MovementID, domain.KindStockMovement, now, movement)
		if err != nil {
			return nil, err
		}
		deps = append(deps, doc)
	}

	// Inventory comes in; the credit side depends on whether a supplier is
	// named (on account) or not (cash purchase). A zero-cost purchase (free
	// stock) moves inventory without a ledger entry.
	if header.Total.IsPositive() {
		creditAccount := accountDocID(domain.CodeCash)
		if header.SupplierID != "" {
			creditAccount = accountDocID(domain.CodePayables)
		}
		entry := domain.JournalEntry{
			JournalID:    journalDocID(header.OpKey, "purchase"),
			Description:  "Purchase " + header.PurchaseID,
			OccurredAt:   header.OccurredAt,
			RelatedDocID: header.PurchaseID,
			Lines: []domain.JournalLine{
				{AccountID: accountDocID(domain.CodeInventory), Debit: header.Total},
				{AccountID: creditAccount, Credit: header.Total},
			},
			CreatedAt: now,
			CreatedBy: header.CreatedBy,
		}
		if err := domain.ValidateEntryLines(entry.Lines); err != nil {
			return nil, err
		}
		doc, err := domain.NewDocument(entry.JournalID, domain.KindJournalEntry, now, entry)
		if err != nil {
			return nil, err
		}
		deps = append(deps, doc)
	}
	return deps, nil
}

// RecordPurchase validates the request, writes the purchase header, the
// dependent documents, and refreshes each product's cached cost price.
func (s *postingService) RecordPurchase(ctx context.Context, actor domain.Actor, req dto.RecordPurchaseRequest) (*domain.PurchaseHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: purchase needs at least one line", apperrors.ErrValidation)
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	total := decimal.Zero
	lines := make([]domain.PurchaseLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		if lineReq.Qty <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", apperrors.ErrValidation, lineReq.ProductID)
		}
		if lineReq.Cost.IsNegative() {
			return nil, fmt.Errorf("%w: cost must not be negative for product %s", apperrors.ErrValidation, lineReq.ProductID)
		}
		product, err := s.productSvc.GetProduct(ctx, lineReq.ProductID)
		if err != nil {
			return nil, err
		}
		lines[i] = domain.PurchaseLine{
			ProductID: product.ProductID,
			Qty:       lineReq.Qty,
			Cost:      lineReq.Cost,
		}
		total = total.Add(lineReq.Cost.Mul(decimal.NewFromInt(lineReq.Qty)))
	}

	now := time.Now().UTC()
	header := domain.PurchaseHeader{
		PurchaseID: "purchase_" + uuid.NewString(),
		OpKey:      uuid.NewString(),
		SupplierID: req.SupplierID,
		Total:      total,
		Lines:      lines,
		OccurredAt: occurredAt,
		CreatedAt:  now,
		CreatedBy:  actor.UserID,
	}
	headerDoc, err := domain.NewDocument(header.PurchaseID, domain.KindPurchaseHeader, now, header)
	if err != nil {
		return nil, err
	}
	deps, err := s.buildPurchaseDependents(header)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, headerDoc); err != nil {
		return nil, fmt.Errorf("write purchase header: %w", err)
	}

	depErr := s.writeDependents(ctx, header.PurchaseID, deps)

	// Cost price refresh is a last-writer-wins cache update, not a fact;
	// a failure here is logged, never escalated to PartialCommit, and never
	// replayed by reconciliation.
	for _, line := range lines {
		cost := line.Cost
		if _, err := s.productSvc.UpdateProduct(ctx, actor, line.ProductID, dto.UpdateProductRequest{CostPrice: &cost}); err != nil {
			logger.Warn("Cost price update failed", "product_id", line.ProductID, "error", err)
		}
	}

	if depErr != nil {
		logger.Error("Purchase partially committed", "header_id", header.PurchaseID, "error", depErr)
		return &header, depErr
	}
	logger.Info("Purchase recorded", "header_id", header.PurchaseID, "total", total.String(), "lines", len(lines))
	return &header, nil
}

// buildExpenseDependents derives the journal entry of an expense. The
// category account must already exist (ensured at posting and reconcile).
func (s *postingService) buildExpenseDependents(header domain.ExpenseHeader, expenseAccountID string) ([]domain.Document, error) {
	now := time.Now().UTC()
	entry := domain.JournalEntry{
		JournalID:    journalDocID(header.OpKey, "expense"),
		Description:  "Expense: " + header.Category,
		OccurredAt:   header.OccurredAt,
		RelatedDocID: header.ExpenseID,
		Lines: []domain.JournalLine{
			{AccountID: expenseAccountID, Debit: header.Amount, Notes: header.Note},
			{AccountID: accountDocID(domain.CodeCash), Credit: header.Amount},
		},
		CreatedAt: now,
		CreatedBy: header.CreatedBy,
	}
	if err := domain.ValidateEntryLines(entry.Lines); err != nil {
		return nil, err
	}
	doc, err := domain.NewDocument(entry.JournalID, domain.KindJournalEntry, now, entry)
	if err != nil {
		return nil, err
	}
	return []domain.Document{doc}, nil
}

// RecordExpense writes the expense header and its journal entry, creating
// the category's expense account on first use.
func (s *postingService) RecordExpense(ctx context.Context, actor domain.Actor, req dto.RecordExpenseRequest) (*domain.ExpenseHeader, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}
	if req.Category == "" {
		return nil, fmt.Errorf("%w: expense category is required", apperrors.ErrValidation)
	}

	expenseAccount, err := s.chartSvc.EnsureExpenseAccount(ctx, actor, req.Category)
	if err != nil {
		return nil, err
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	now := time.Now().UTC()
	header := domain.ExpenseHeader{
		ExpenseID:  "expense_" + uuid.NewString(),
		OpKey:      uuid.NewString(),
		Category:   req.Category,
		Amount:     req.Amount,
		Note:       req.Note,
		OccurredAt: occurredAt,
		CreatedAt:  now,
		CreatedBy:  actor.UserID,
	}
	headerDoc, err := domain.NewDocument(header.ExpenseID, domain.KindExpenseHeader, now, header)
	if err != nil {
		return nil, err
	}
	deps, err := s.buildExpenseDependents(header, expenseAccount.AccountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, headerDoc); err != nil {
		return nil, fmt.Errorf("write expense header: %w", err)
	}

	if err := s.writeDependents(ctx, header.ExpenseID, deps); err != nil {
		logger.Error("Expense partially committed", "header_id", header.ExpenseID, "error", err)
		return &header, err
	}

	logger.Info("Expense recorded", "header_id", header.ExpenseID, "amount", req.Amount.String())
	return &header, nil
}

// Reconcile scans every header, re-derives its expected dependent documents,
// and re-emits the missing ones under the original idempotency key. Because
// dependent identities are deterministic and writes are create-if-absent,
// running it any number of times never double-posts. A header that cannot be
// repaired is logged and skipped so one stuck operation never blocks the
// repair of every other header, or startup.
func (s *postingService) Reconcile(ctx context.Context, actor domain.Actor) ([]string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	var repaired []string
	skipped := 0

	skip := func(headerID string, err error) {
		skipped++
		logger.Error("Header left unrepaired", "header_id", headerID, "error", err)
	}

	repair := func(headerID string, deps []domain.Document) {
		missing := false
		for _, dep := range deps {
			_, err := s.store.Get(ctx, dep.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				skip(headerID, err)
				return
			}
			if err := s.createWithRetry(ctx, dep); err != nil {
				skip(headerID, err)
				return
			}
			missing = true
		}
		if missing {
			repaired = append(repaired, headerID)
			logger.Info("Header repaired", "header_id", headerID)
		}
	}

	saleDocs, err := s.store.ScanKind(ctx, domain.KindSaleHeader)
	if err != nil {
		return nil, err
	}
	for _, doc := range saleDocs {
		var header domain.SaleHeader
		if err := doc.DecodeBody(&header); err != nil {
			skip(doc.ID, err)
			continue
		}
		deps, err := s.buildSaleDependents(header)
		if err != nil {
			skip(header.SaleID, err)
			continue
		}
		repair(header.SaleID, deps)
	}

	purchaseDocs, err := s.store.ScanKind(ctx, domain.KindPurchaseHeader)
	if err != nil {
		return nil, err
	}
	for _, doc := range purchaseDocs {
		var header domain.PurchaseHeader
		if err := doc.DecodeBody(&header); err != nil {
			skip(doc.ID, err)
			continue
		}
		deps, err := s.buildPurchaseDependents(header)
		if err != nil {
			skip(header.PurchaseID, err)
			continue
		}
		repair(header.PurchaseID, deps)
	}

	expenseDocs, err := s.store.ScanKind(ctx, domain.KindExpenseHeader)
	if err != nil {
		return nil, err
	}
	for _, doc := range expenseDocs {
		var header domain.ExpenseHeader
		if err := doc.DecodeBody(&header); err != nil {
			skip(doc.ID, err)
			continue
		}
		expenseAccount, err := s.chartSvc.EnsureExpenseAccount(ctx, actor, header.Category)
		if err != nil {
			skip(header.ExpenseID, err)
			continue
		}
		deps, err := s.buildExpenseDependents(header, expenseAccount.AccountID)
		if err != nil {
			skip(header.ExpenseID, err)
			continue
		}
		repair(header.ExpenseID, deps)
	}

	if len(repaired) > 0 || skipped > 0 {
		logger.Info("Reconciliation finished", "repaired", len(repaired), "skipped", skipped)
	}
	return repaired, nil
}
