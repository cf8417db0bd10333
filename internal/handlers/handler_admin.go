package handlers

import (
	"net/http"

	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler exposes repair and raw document administration.
type adminHandler struct {
	postingService  portssvc.PostingSvcFacade
	documentService portssvc.DocumentSvcFacade
}

// newAdminHandler creates a new adminHandler.
func newAdminHandler(postingService portssvc.PostingSvcFacade, documentService portssvc.DocumentSvcFacade) *adminHandler {
	return &adminHandler{postingService: postingService, documentService: documentService}
}

// reconcile re-emits missing dependent documents for every header.
func (h *adminHandler) reconcile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	repaired, err := h.postingService.Reconcile(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Reconciliation failed")
		return
	}
	if repaired == nil {
		repaired = []string{}
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Reconciliation requested via API", "repaired", len(repaired))
	c.JSON(http.StatusOK, dto.ReconcileResponse{RepairedHeaderIDs: repaired})
}

// getDocument returns a raw document envelope.
func (h *adminHandler) getDocument(c *gin.Context) {
	doc, err := h.documentService.GetDocument(c.Request.Context(), c.Param("docID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// removeDocument tombstones a document; admin only.
func (h *adminHandler) removeDocument(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	if err := h.documentService.RemoveDocument(c.Request.Context(), actor, c.Param("docID")); err != nil {
		respondError(c, err, "Failed to remove document")
		return
	}
	c.Status(http.StatusNoContent)
}

// registerAdminRoutes registers repair and document administration routes.
func registerAdminRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade, documentService portssvc.DocumentSvcFacade) {
	h := newAdminHandler(postingService, documentService)

	admin := group.Group("/admin")
	{
		admin.POST("/reconcile", h.reconcile)
		admin.GET("/documents/:docID", h.getDocument)
		admin.DELETE("/documents/:docID", h.removeDocument)
	}
}
