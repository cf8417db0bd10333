package services

import (
	"context"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/middleware"
)

// documentService exposes raw document administration.
type documentService struct {
	store portsrepo.DocumentStore
}

// NewDocumentService creates a new document administration service.
func NewDocumentService(store portsrepo.DocumentStore) portssvc.DocumentSvcFacade {
	return &documentService{store: store}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// GetDocument returns a raw document envelope, tombstones included.
func (s *documentService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return s.store.Get(ctx, id)
}

// RemoveDocument tombstones a document. Event documents are otherwise
// immutable, so this is admin-only; the tombstone replicates like any other
// revision and projections drop the document everywhere.
func (s *documentService) RemoveDocument(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Document removed", "doc_id", id, "removed_by", actor.UserID)
	return nil
}
