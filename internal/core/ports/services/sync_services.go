package services

import (
	"context"

	"github.com/daftarhq/daftar/internal/core/domain"
	"github.com/daftarhq/daftar/internal/dto"
)

// SyncSvcFacade reconciles replicated documents. Event documents merge by
// union of identities; mutable documents resolve last-writer-wins with the
// losing revision preserved for audit.
type SyncSvcFacade interface {
	MergeForeignBatch(ctx context.Context, docs []domain.Document) (*dto.MergeResult, error)
	ExportLocalChanges(ctx context.Context, since int64) (*dto.ChangesResponse, error)
}
