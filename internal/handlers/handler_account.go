package handlers

import (
	"net/http"

	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/gin-gonic/gin"
)

// accountHandler manages the chart of accounts.
type accountHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(chartService portssvc.ChartSvcFacade) *accountHandler {
	return &accountHandler{chartService: chartService}
}

// createAccount adds an account to the chart.
func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	account, err := h.chartService.CreateAccount(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

// listAccounts returns the chart of accounts.
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.chartService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// getAccount returns one account by chart code.
func (h *accountHandler) getAccount(c *gin.Context) {
	code := c.Param("accountCode")

	account, err := h.chartService.GetAccountByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// registerAccountRoutes registers chart of accounts routes.
func registerAccountRoutes(group *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newAccountHandler(chartService)

	accounts := group.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountCode", h.getAccount)
	}
}
