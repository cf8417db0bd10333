package handlers

import (
	"net/http"

	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler handles composite business operations.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newPostingHandler creates a new postingHandler.
func newPostingHandler(postingService portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: postingService}
}

// recordSale records a sale with its stock movements and journal entries.
func (h *postingHandler) recordSale(c *gin.Context) {
	var req dto.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	header, err := h.postingService.RecordSale(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to record sale")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Sale recorded via API", "sale_id", header.SaleID)
	c.JSON(http.StatusCreated, dto.RecordResponse{HeaderID: header.SaleID})
}

// recordPurchase records a purchase with its stock movements and journal entry.
func (h *postingHandler) recordPurchase(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	header, err := h.postingService.RecordPurchase(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to record purchase")
		return
	}
	c.JSON(http.StatusCreated, dto.RecordResponse{HeaderID: header.PurchaseID})
}

// recordExpense records an expense with its journal entry.
func (h *postingHandler) recordExpense(c *gin.Context) {
	var req dto.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	header, err := h.postingService.RecordExpense(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, dto.RecordResponse{HeaderID: header.ExpenseID})
}

// registerPostingRoutes registers the composite operation routes.
func registerPostingRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	group.POST("/sales", h.recordSale)
	group.POST("/purchases", h.recordPurchase)
	group.POST("/expenses", h.recordExpense)
}
