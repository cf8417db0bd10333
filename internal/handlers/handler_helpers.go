package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// partialCommitResponse names what a failed composite operation did persist,
// so the client knows the header exists and reconciliation will finish it.
type partialCommitResponse struct {
	Error    string   `json:"error"`
	HeaderID string   `json:"headerID"`
	Written  []string `json:"written"`
	Failed   []string `json:"failed"`
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var partial *apperrors.PartialCommitError
	if errors.As(err, &partial) {
		logger.Error("Composite operation partially committed",
			slog.String("header_id", partial.HeaderID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, partialCommitResponse{
			Error:    "Operation partially committed; reconciliation will complete it",
			HeaderID: partial.HeaderID,
			Written:  partial.Written,
			Failed:   partial.Failed,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// mustActor retrieves the authenticated actor or aborts with 401.
func mustActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return actor, ok
}
