package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// syncHandler exposes device replication endpoints.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

// newSyncHandler creates a new syncHandler.
func newSyncHandler(syncService portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{syncService: syncService}
}

// mergeBatch applies a batch of documents replicated from a peer device.
func (h *syncHandler) mergeBatch(c *gin.Context) {
	var req dto.MergeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	result, err := h.syncService.MergeForeignBatch(c.Request.Context(), req.Documents)
	if err != nil {
		respondError(c, err, "Failed to merge batch")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Batch merged via API",
		"applied", result.Applied, "conflicts", len(result.Conflicts))
	c.JSON(http.StatusOK, result)
}

// changes exports the local change feed after a sequence cursor.
func (h *syncHandler) changes(c *gin.Context) {
	since := int64(0)
	if raw := c.Query("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "since must be a non-negative integer"})
			return
		}
		since = parsed
	}

	resp, err := h.syncService.ExportLocalChanges(c.Request.Context(), since)
	if err != nil {
		respondError(c, err, "Failed to export changes")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerSyncRoutes registers replication routes.
func registerSyncRoutes(group *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	sync := group.Group("/sync")
	{
		sync.POST("/merge", h.mergeBatch)
		sync.GET("/changes", h.changes)
	}
}
