package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"
)

// memStore is an in-memory DocumentStore with the same semantics as the
// SQLite adapter: validation at the boundary, create-if-absent, tombstones,
// and a monotonically increasing change sequence.
type memStore struct {
	mu   sync.Mutex
	docs map[string]domain.Document
	seq  int64

	// failCreate, when set, is consulted before every Create. Tests use it to
	// inject dependent-write failures.
	failCreate func(doc domain.Document) error
}

var _ portsrepo.DocumentStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]domain.Document)}
}

func (s *memStore) Put(_ context.Context, doc domain.Document) (int64, error) {
	if !doc.Deleted {
		if err := domain.ValidateDocument(doc); err != nil {
			return 0, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	existing, ok := s.docs[doc.ID]
	if ok {
		doc.Rev = existing.Rev + 1
	} else {
		doc.Rev = 1
	}
	doc.Seq = s.seq
	s.docs[doc.ID] = doc
	return doc.Rev, nil
}

func (s *memStore) Create(_ context.Context, doc domain.Document) (int64, error) {
	if doc.Deleted {
		return 0, fmt.Errorf("create tombstoned document %s: %w", doc.ID, apperrors.ErrValidation)
	}
	if err := domain.ValidateDocument(doc); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCreate != nil {
		if err := s.failCreate(doc); err != nil {
			return 0, err
		}
	}
	if _, ok := s.docs[doc.ID]; ok {
		return 0, fmt.Errorf("document %s: %w", doc.ID, apperrors.ErrDuplicate)
	}
	s.seq++
	doc.Rev = 1
	doc.Seq = s.seq
	s.docs[doc.ID] = doc
	return 1, nil
}

func (s *memStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, apperrors.ErrNotFound)
	}
	return &doc, nil
}

func (s *memStore) ScanKind(_ context.Context, kind domain.Kind) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []domain.Document
	for _, doc := range s.docs {
		if doc.Kind == kind && !doc.Deleted {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })
	return docs, nil
}

func (s *memStore) Scan(_ context.Context, pred func(*domain.Document) bool) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []domain.Document
	for _, doc := range s.docs {
		if doc.Deleted {
			continue
		}
		doc := doc
		if pred == nil || pred(&doc) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })
	return docs, nil
}

func (s *memStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok || doc.Deleted {
		return fmt.Errorf("document %s: %w", id, apperrors.ErrNotFound)
	}
	s.seq++
	doc.Deleted = true
	doc.Rev++
	doc.Seq = s.seq
	doc.UpdatedAt = time.Now().UTC()
	s.docs[id] = doc
	return nil
}

func (s *memStore) Changes(_ context.Context, since int64) ([]domain.Document, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := []domain.Document{}
	last := since
	for _, doc := range s.docs {
		if doc.Seq > since {
			docs = append(docs, doc)
			if doc.Seq > last {
				last = doc.Seq
			}
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })
	return docs, last, nil
}

func (s *memStore) Close() error { return nil }
