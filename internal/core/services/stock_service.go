package services

import (
	"context"

	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
)

// stockService projects on-hand quantities from the stock movement log.
// Totals are recomputed from the full event set on every call: the sum of
// deltas is commutative and associative, so the result is independent of
// insertion and replication order, and tombstoned movements simply drop out.
type stockService struct {
	store portsrepo.DocumentStore
}

// NewStockService creates a new stock projector.
func NewStockService(store portsrepo.DocumentStore) portssvc.StockSvcFacade {
	return &stockService{store: store}
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

// CurrentStock returns the sum of deltas over all live movements for the
// product. A product with no movements has stock 0.
func (s *stockService) CurrentStock(ctx context.Context, productID string) (int64, error) {
	docs, err := s.store.ScanKind(ctx, domain.KindStockMovement)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, doc := range docs {
		var movement domain.StockMovement
		if err := doc.DecodeBody(&movement); err != nil {
			return 0, err
		}
		if movement.ProductID == productID {
			total += movement.Delta
		}
	}
	return total, nil
}

// Levels returns current stock per product over one pass of the movement log.
func (s *stockService) Levels(ctx context.Context) (map[string]int64, error) {
	docs, err := s.store.ScanKind(ctx, domain.KindStockMovement)
	if err != nil {
		return nil, err
	}
	levels := make(map[string]int64)
	for _, doc := range docs {
		var movement domain.StockMovement
		if err := doc.DecodeBody(&movement); err != nil {
			return nil, err
		}
		levels[movement.ProductID] += movement.Delta
	}
	return levels, nil
}
