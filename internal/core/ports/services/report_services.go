package services

import (
	"context"

	"github.com/daftarhq/daftar/internal/dto"
)

// ReportSvcFacade derives read-only summaries from headers and movements.
type ReportSvcFacade interface {
	// Daily summarizes sales and expenses for one calendar day (YYYY-MM-DD).
	Daily(ctx context.Context, date string) (*dto.DailyReportResponse, error)

	// Inventory returns current stock for every product in the catalog.
	Inventory(ctx context.Context) ([]dto.InventoryReportRow, error)
}
