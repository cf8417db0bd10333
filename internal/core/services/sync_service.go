package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
	portssvc "github.com/daftarhq/daftar/internal/core/ports/services"
	"github.com/daftarhq/daftar/internal/dto"
	"github.com/daftarhq/daftar/internal/middleware"
	"github.com/google/uuid"
)

// syncService merges document batches replicated from peer devices.
// Immutable documents merge by union of identities, so merge order never
// matters. Mutable documents resolve last-writer-wins on UpdatedAt, and the
// losing revision is always preserved as a conflict audit document.
type syncService struct {
	store portsrepo.DocumentStore
}

// NewSyncService creates a new replication merge service.
func NewSyncService(store portsrepo.DocumentStore) portssvc.SyncSvcFacade {
	return &syncService{store: store}
}

var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// MergeForeignBatch applies one batch of foreign documents. The batch is not
// transactional: each document merges independently, and re-merging the same
// batch is a no-op.
func (s *syncService) MergeForeignBatch(ctx context.Context, docs []domain.Document) (*dto.MergeResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &dto.MergeResult{}

	for _, foreign := range docs {
		if !foreign.Kind.Valid() {
			return nil, fmt.Errorf("%w: unknown document kind %q for %s", apperrors.ErrValidation, string(foreign.Kind), foreign.ID)
		}
		if foreign.Kind.Mutable() {
			if err := s.mergeMutable(ctx, foreign, result); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.mergeImmutable(ctx, foreign, result); err != nil {
			return nil, err
		}
	}

	logger.Info("Foreign batch merged",
		"batch_size", len(docs),
		"applied", result.Applied,
		"unchanged", result.Unchanged,
		"conflicts", len(result.Conflicts))
	return result, nil
}

// mergeImmutable unions an event or header document into the local set.
// Two devices can never hold different bodies under the same event identity,
// so a live document that already exists is simply already known. A tombstone
// is the one revision an immutable document can gain after creation, and it
// must keep replicating so the deletion converges on every device.
func (s *syncService) mergeImmutable(ctx context.Context, foreign domain.Document, result *dto.MergeResult) error {
	if foreign.Deleted {
		return s.mergeTombstone(ctx, foreign, result)
	}
	if _, err := s.store.Create(ctx, foreign); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Already known, or already tombstoned here; a local tombstone
			// outlives any live copy still circulating.
			result.Unchanged++
			return nil
		}
		return fmt.Errorf("merge %s: %w", foreign.ID, err)
	}
	result.Applied++
	return nil
}

// mergeTombstone applies a replicated deletion. A device that never saw the
// document stores the tombstone directly so the deleted revision cannot come
// back to life through a later merge.
func (s *syncService) mergeTombstone(ctx context.Context, foreign domain.Document, result *dto.MergeResult) error {
	local, err := s.store.Get(ctx, foreign.ID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("merge %s: %w", foreign.ID, err)
	}
	if local != nil && local.Deleted {
		result.Unchanged++
		return nil
	}
	if _, err := s.store.Put(ctx, foreign); err != nil {
		return fmt.Errorf("merge %s: %w", foreign.ID, err)
	}
	result.Applied++
	return nil
}

// mergeMutable resolves a mutable document last-writer-wins on UpdatedAt.
// Ties go to the local revision, so both devices converge on the same winner
// regardless of which one merges first.
func (s *syncService) mergeMutable(ctx context.Context, foreign domain.Document, result *dto.MergeResult) error {
	local, err := s.store.Get(ctx, foreign.ID)
	if errors.Is(err, apperrors.ErrNotFound) {
		if _, err := s.store.Put(ctx, foreign); err != nil {
			return fmt.Errorf("merge %s: %w", foreign.ID, err)
		}
		result.Applied++
		return nil
	}
	if err != nil {
		return fmt.Errorf("merge %s: %w", foreign.ID, err)
	}

	// Identical revisions carry no new information and no conflict.
	if foreign.UpdatedAt.Equal(local.UpdatedAt) && foreign.Deleted == local.Deleted && bytes.Equal(foreign.Body, local.Body) {
		result.Unchanged++
		return nil
	}

	foreignWins := foreign.UpdatedAt.After(local.UpdatedAt)
	var loser domain.Document
	if foreignWins {
		loser = *local
	} else {
		loser = foreign
	}

	auditID, err := s.writeConflictAudit(ctx, loser)
	if err != nil {
		return err
	}

	if foreignWins {
		if _, err := s.store.Put(ctx, foreign); err != nil {
			return fmt.Errorf("merge %s: %w", foreign.ID, err)
		}
		result.Applied++
	} else {
		result.Unchanged++
	}

	result.Conflicts = append(result.Conflicts, dto.ConflictSummary{
		DocID:      foreign.ID,
		Kind:       string(foreign.Kind),
		AuditDocID: auditID,
		LosingTime: loser.UpdatedAt,
		LocalWon:   !foreignWins,
	})
	return nil
}

// writeConflictAudit preserves the losing revision of a merge.
func (s *syncService) writeConflictAudit(ctx context.Context, loser domain.Document) (string, error) {
	now := time.Now().UTC()
	audit := domain.ConflictAudit{
		AuditID:    "conflict_" + uuid.NewString(),
		DocID:      loser.ID,
		DocKind:    loser.Kind,
		LosingBody: loser.Body,
		LosingTime: loser.UpdatedAt,
		MergedAt:   now,
	}
	doc, err := domain.NewDocument(audit.AuditID, domain.KindConflictAudit, now, audit)
	if err != nil {
		return "", err
	}
	if _, err := s.store.Create(ctx, doc); err != nil {
		return "", fmt.Errorf("write conflict audit for %s: %w", loser.ID, err)
	}
	return audit.AuditID, nil
}

// ExportLocalChanges returns every document revised after the given sequence
// number, tombstones included, plus the cursor for the next pull.
func (s *syncService) ExportLocalChanges(ctx context.Context, since int64) (*dto.ChangesResponse, error) {
	docs, maxSeq, err := s.store.Changes(ctx, since)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return &dto.ChangesResponse{Documents: docs, NextSince: maxSeq}, nil
}
