package handlers

import (
	"net/http"

	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// stockHandler exposes the stock projection.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

// newStockHandler creates a new stockHandler.
func newStockHandler(stockService portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: stockService}
}

// getStock returns the current on-hand quantity for one product.
func (h *stockHandler) getStock(c *gin.Context) {
	productID := c.Param("productID")

	stock, err := h.stockService.CurrentStock(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "Failed to compute stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"productID": productID, "stock": stock})
}

// listLevels returns current stock per product.
func (h *stockHandler) listLevels(c *gin.Context) {
	levels, err := h.stockService.Levels(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute stock levels")
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": levels})
}

// registerStockRoutes registers stock projection routes.
func registerStockRoutes(group *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	h := newStockHandler(stockService)

	stock := group.Group("/stock")
	{
		stock.GET("", h.listLevels)
		stock.GET("/:productID", h.getStock)
	}
}
