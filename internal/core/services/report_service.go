package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/shopspring/decimal"
)

// reportService derives read-only summaries from headers and movements.
type reportService struct {
	store      portsrepo.DocumentStore
	stockSvc   portssvc.StockSvcFacade
	productSvc portssvc.ProductSvcFacade
}

// NewReportService creates a new report service.
func NewReportService(store portsrepo.DocumentStore, stockSvc portssvc.StockSvcFacade, productSvc portssvc.ProductSvcFacade) portssvc.ReportSvcFacade {
	return &reportService{store: store, stockSvc: stockSvc, productSvc: productSvc}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// Daily summarizes sales and expenses whose occurred_at falls on the given
// calendar day (UTC).
func (s *reportService) Daily(ctx context.Context, date string) (*dto.DailyReportResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	dayEnd := day.AddDate(0, 0, 1)
	inDay := func(t time.Time) bool {
		t = t.UTC()
		return !t.Before(day) && t.Before(dayEnd)
	}

	report := &dto.DailyReportResponse{
		Date:          date,
		SalesTotal:    decimal.Zero,
		ExpensesTotal: decimal.Zero,
	}

	saleDocs, err := s.store.ScanKind(ctx, domain.KindSaleHeader)
	if err != nil {
		return nil, err
	}
	for _, doc := range saleDocs {
		var header domain.SaleHeader
		if err := doc.DecodeBody(&header); err != nil {
			return nil, err
		}
		if inDay(header.OccurredAt) {
			report.SalesTotal = report.SalesTotal.Add(header.Total)
			report.SalesCount++
		}
	}

	expenseDocs, err := s.store.ScanKind(ctx, domain.KindExpenseHeader)
	if err != nil {
		return nil, err
	}
	for _, doc := range expenseDocs {
		var header domain.ExpenseHeader
		if err := doc.DecodeBody(&header); err != nil {
			return nil, err
		}
		if inDay(header.OccurredAt) {
			report.ExpensesTotal = report.ExpensesTotal.Add(header.Amount)
			report.ExpensesCount++
		}
	}

	report.NetTotal = report.SalesTotal.Sub(report.ExpensesTotal)
	return report, nil
}

// Inventory joins the product catalog with projected stock levels. Products
// without any movement report stock 0; movements for deleted products are
// dropped along with their product.
func (s *reportService) Inventory(ctx context.Context) ([]dto.InventoryReportRow, error) {
	products, err := s.productSvc.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := s.stockSvc.Levels(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.InventoryReportRow, 0, len(products))
	for _, product := range products {
		rows = append(rows, dto.InventoryReportRow{
			ProductID: product.ProductID,
			Name:      product.Name,
			Unit:      product.Unit,
			Stock:     levels[product.ProductID],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}
