// Package sqlite implements the document store port on an embedded SQLite
// file. One table holds every document envelope; bodies are schemaless JSON
// validated at this boundary. The store is deliberately document-local: no
// cross-document transaction is exposed, matching what offline replicas can
// actually guarantee.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/daftarhq/daftar/internal/adapters/database/sqlite/migrations"
	"github.com/daftarhq/daftar/internal/apperrors"
	"github.com/daftarhq/daftar/internal/core/domain"
	portsrepo "github.com/daftarhq/daftar/internal/core/ports/repositories"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

// DocumentStore persists document envelopes in SQLite.
type DocumentStore struct {
	sqlDB *sql.DB
}

// Ensure DocumentStore implements the store port.
var _ portsrepo.DocumentStore = (*DocumentStore)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the store file and applies embedded
// migrations.
func Open(path string) (*DocumentStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &DocumentStore{sqlDB: sqlDB}, nil
}

func applyMigrations(sqlDB *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *DocumentStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// nextSeq allocates the next store-wide change sequence inside tx.
func nextSeq(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM documents`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocate change sequence: %w", err)
	}
	return seq, nil
}

// Put creates or revises a document, returning the new revision.
func (s *DocumentStore) Put(ctx context.Context, doc domain.Document) (int64, error) {
	if !doc.Deleted {
		if err := domain.ValidateDocument(doc); err != nil {
			return 0, err
		}
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin put: %w", err)
	}
	defer tx.Rollback()

	var rev int64
	err = tx.QueryRowContext(ctx, `SELECT rev FROM documents WHERE doc_id = ?`, doc.ID).Scan(&rev)
	switch {
	case err == sql.ErrNoRows:
		rev = 0
	case err != nil:
		return 0, fmt.Errorf("read current revision of %s: %w", doc.ID, err)
	}

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return 0, err
	}
	newRev := rev + 1
	deleted := 0
	if doc.Deleted {
		deleted = 1
	}
	if rev == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (doc_id, kind, rev, seq, deleted, updated_at, body) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			doc.ID, string(doc.Kind), newRev, seq, deleted, toMillis(doc.UpdatedAt), []byte(doc.Body))
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE documents SET kind = ?, rev = ?, seq = ?, deleted = ?, updated_at = ?, body = ? WHERE doc_id = ?`,
			string(doc.Kind), newRev, seq, deleted, toMillis(doc.UpdatedAt), []byte(doc.Body), doc.ID)
	}
	if err != nil {
		return 0, fmt.Errorf("write document %s: %w", doc.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit put of %s: %w", doc.ID, err)
	}
	return newRev, nil
}

// Create persists a document only if its identifier is absent. Tombstones
// are never created; they only arise by revising an existing document, so a
// deleted envelope here means the caller routed a replicated deletion wrong.
func (s *DocumentStore) Create(ctx context.Context, doc domain.Document) (int64, error) {
	if doc.Deleted {
		return 0, fmt.Errorf("create tombstoned document %s: %w", doc.ID, apperrors.ErrValidation)
	}
	if err := domain.ValidateDocument(doc); err != nil {
		return 0, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE doc_id = ?`, doc.ID).Scan(&exists)
	if err == nil {
		return 0, fmt.Errorf("document %s: %w", doc.ID, apperrors.ErrDuplicate)
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("check existence of %s: %w", doc.ID, err)
	}

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (doc_id, kind, rev, seq, deleted, updated_at, body) VALUES (?, ?, 1, ?, 0, ?, ?)`,
		doc.ID, string(doc.Kind), seq, toMillis(doc.UpdatedAt), []byte(doc.Body))
	if err != nil {
		return 0, fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create of %s: %w", doc.ID, err)
	}
	return 1, nil
}

func scanRow(row interface{ Scan(...any) error }) (domain.Document, error) {
	var (
		doc       domain.Document
		kind      string
		deleted   int
		updatedAt int64
		body      []byte
	)
	if err := row.Scan(&doc.ID, &kind, &doc.Rev, &doc.Seq, &deleted, &updatedAt, &body); err != nil {
		return domain.Document{}, err
	}
	doc.Kind = domain.Kind(kind)
	doc.Deleted = deleted != 0
	doc.UpdatedAt = fromMillis(updatedAt)
	doc.Body = body
	return doc, nil
}

const selectColumns = `doc_id, kind, rev, seq, deleted, updated_at, body`

// Get returns the current revision of a document, tombstones included.
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM documents WHERE doc_id = ?`, id)
	doc, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}
	return &doc, nil
}

// ScanKind returns all live documents of one kind.
func (s *DocumentStore) ScanKind(ctx context.Context, kind domain.Kind) ([]domain.Document, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM documents WHERE kind = ? AND deleted = 0`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("scan kind %s: %w", kind, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kind %s: %w", kind, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Scan returns all live documents matching pred in a full pass.
func (s *DocumentStore) Scan(ctx context.Context, pred func(*domain.Document) bool) ([]domain.Document, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+selectColumns+` FROM documents WHERE deleted = 0`)
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan documents: %w", err)
		}
		if pred == nil || pred(&doc) {
			docs = append(docs, doc)
		}
	}
	return docs, rows.Err()
}

// Remove tombstones a document. The body is retained so the tombstone can
// still be inspected and replicated.
func (s *DocumentStore) Remove(ctx context.Context, id string) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin remove: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE documents SET deleted = 1, rev = rev + 1, seq = ?, updated_at = ? WHERE doc_id = ? AND deleted = 0`,
		seq, toMillis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("tombstone document %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("tombstone document %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", id, apperrors.ErrNotFound)
	}
	return tx.Commit()
}

// Changes returns documents past the given sequence, tombstones included,
// ordered by sequence, plus the highest sequence seen.
func (s *DocumentStore) Changes(ctx context.Context, since int64) ([]domain.Document, int64, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM documents WHERE seq > ? ORDER BY seq ASC`, since)
	if err != nil {
		return nil, since, fmt.Errorf("read change feed: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	last := since
	for rows.Next() {
		doc, err := scanRow(rows)
		if err != nil {
			return nil, since, fmt.Errorf("read change feed: %w", err)
		}
		if doc.Seq > last {
			last = doc.Seq
		}
		docs = append(docs, doc)
	}
	return docs, last, rows.Err()
}
