package handlers

import (
	"net/http"

	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// reportHandler exposes read-only summaries.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

// newReportHandler creates a new reportHandler.
func newReportHandler(reportService portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: reportService}
}

// daily summarizes sales and expenses for one calendar day.
func (h *reportHandler) daily(c *gin.Context) {
	report, err := h.reportService.Daily(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, err, "Failed to build daily report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// inventory returns current stock for every product in the catalog.
func (h *reportHandler) inventory(c *gin.Context) {
	rows, err := h.reportService.Inventory(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build inventory report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": rows})
}

// registerReportRoutes registers reporting routes.
func registerReportRoutes(group *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := group.Group("/reports")
	{
		reports.GET("/daily/:date", h.daily)
		reports.GET("/inventory", h.inventory)
	}
}
