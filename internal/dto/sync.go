package dto

import (
	"time"

	"github.com/daftarhq/daftar/internal/core/domain"
)

// MergeBatchRequest carries documents replicated from a peer device.
type MergeBatchRequest struct {
	Documents []domain.Document `json:"documents" binding:"required"`
}

// ConflictSummary describes one last-writer-wins resolution.
type ConflictSummary struct {
	DocID      string    `json:"docID"`
	Kind       string    `json:"kind"`
	AuditDocID string    `json:"auditDocID"` // where the losing revision was preserved
	LosingTime time.Time `json:"losingTime"`
	LocalWon   bool      `json:"localWon"`
}

// MergeResult reports what a foreign batch merge did.
type MergeResult struct {
	Applied   int               `json:"applied"`   // documents inserted or overwritten
	Unchanged int               `json:"unchanged"` // already-known event documents and stale revisions
	Conflicts []ConflictSummary `json:"conflicts"`
}

// ChangesResponse is one page of the local change feed.
type ChangesResponse struct {
	Documents []domain.Document `json:"documents"`
	NextSince int64             `json:"nextSince"`
}
