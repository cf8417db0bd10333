package domain

import (
	"encoding/json"
	"time"
)

// ConflictAudit preserves the losing revision of a last-writer-wins merge.
// Replication must never silently discard data: the winning revision replaces
// the document, the loser is written here for inspection.
type ConflictAudit struct {
	AuditID    string          `json:"audit_id"`
	DocID      string          `json:"doc_id"`
	DocKind    Kind            `json:"doc_kind"`
	LosingBody json.RawMessage `json:"losing_body"`
	LosingTime time.Time       `json:"losing_time"` // UpdatedAt of the discarded revision
	MergedAt   time.Time       `json:"merged_at"`
}
