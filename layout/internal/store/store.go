// Package store persists layout snapshots in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/domedit/dbopen"
)

// ErrNotFound is returned when a snapshot id does not exist.
var ErrNotFound = errors.New("layout not found")

// Store wraps the layouts table.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the layout database at path.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("layout store: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an already-open database. The schema must be applied by the
// caller (tests use dbopen.OpenMemory with WithSchema).
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Insert stores one snapshot.
func (s *Store) Insert(ctx context.Context, snap Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO layouts (id, domain, url, title, html, viewport_w, viewport_h, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Domain, snap.URL, snap.Title, snap.HTML,
		snap.ViewportW, snap.ViewportH, snap.CapturedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert layout: %w", err)
	}
	return nil
}

// Get returns one snapshot by id.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, domain, url, title, html, viewport_w, viewport_h, captured_at
		FROM layouts WHERE id = ?`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get layout: %w", err)
	}
	return snap, nil
}

// ListByDomain returns snapshots for a domain, newest first. Empty
// domain lists across all domains. HTML is omitted from list results to
// keep them small; fetch individual snapshots with Get.
func (s *Store) ListByDomain(ctx context.Context, domain string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, domain, url, title, '', viewport_w, viewport_h, captured_at
		FROM layouts`
	args := []any{}
	if domain != "" {
		query += ` WHERE domain = ?`
		args = append(args, domain)
	}
	query += ` ORDER BY captured_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan layout: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Delete removes one snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scannable) (Snapshot, error) {
	var snap Snapshot
	var capturedAt int64
	err := row.Scan(&snap.ID, &snap.Domain, &snap.URL, &snap.Title, &snap.HTML,
		&snap.ViewportW, &snap.ViewportH, &capturedAt)
	if err != nil {
		return Snapshot{}, err
	}
	snap.CapturedAt = time.UnixMilli(capturedAt)
	return snap, nil
}
