package repositories

import (
	"context"

	"github.com/daftarhq/daftar/internal/core/domain"
)

// DocumentStore is the append-and-revise document repository every other
// component builds on. All operations are document-local; there is no
// cross-document transaction, and concurrent writes to the same identifier
// from unsynchronized replicas are only detected at merge time.
type DocumentStore interface {
	// Put creates or revises a document, returning the new local revision.
	// The caller is responsible for stamping UpdatedAt.
	Put(ctx context.Context, doc domain.Document) (int64, error)

	// Create persists a document only if its identifier is absent, returning
	// apperrors.ErrDuplicate otherwise. Used for event documents whose
	// identities derive from idempotency keys: a replay becomes a no-op.
	Create(ctx context.Context, doc domain.Document) (int64, error)

	// Get returns the current revision of a document, including tombstones.
	// Returns apperrors.ErrNotFound for unknown identifiers.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// ScanKind returns all live (non-tombstoned) documents of one kind in a
	// full pass over the store.
	ScanKind(ctx context.Context, kind domain.Kind) ([]domain.Document, error)

	// Scan returns all live documents matching pred in a full pass.
	Scan(ctx context.Context, pred func(*domain.Document) bool) ([]domain.Document, error)

	// Remove tombstones a document. The tombstone keeps replicating so other
	// devices converge on the deletion.
	Remove(ctx context.Context, id string) error

	// Changes returns documents (tombstones included) with a change sequence
	// greater than since, plus the highest sequence seen, for the export feed.
	Changes(ctx context.Context, since int64) ([]domain.Document, int64, error)

	// Close releases the underlying storage handle.
	Close() error
}
