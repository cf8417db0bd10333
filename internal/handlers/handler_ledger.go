package handlers

import (
	"net/http"

	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes the ledger projection.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// accountBalance returns debit/credit totals and the signed balance of an
// account addressed by its chart code.
func (h *ledgerHandler) accountBalance(c *gin.Context) {
	code := c.Param("accountCode")

	balance, err := h.ledgerService.AccountBalance(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "Failed to compute account balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getJournal returns one journal entry.
func (h *ledgerHandler) getJournal(c *gin.Context) {
	journalID := c.Param("journalID")

	entry, err := h.ledgerService.GetJournal(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// listJournalsByRelatedDoc returns the entries anchored to a header document.
func (h *ledgerHandler) listJournalsByRelatedDoc(c *gin.Context) {
	relatedDocID := c.Query("relatedDocID")
	if relatedDocID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "relatedDocID query parameter is required"})
		return
	}

	entries, err := h.ledgerService.ListJournalsByRelatedDoc(c.Request.Context(), relatedDocID)
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"journals": entries})
}

// registerLedgerRoutes registers ledger projection routes.
func registerLedgerRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := group.Group("/ledger")
	{
		ledger.GET("/balance/:accountCode", h.accountBalance)
		ledger.GET("/journals", h.listJournalsByRelatedDoc)
		ledger.GET("/journals/:journalID", h.getJournal)
	}
}
