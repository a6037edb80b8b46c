package layout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/domedit/layout/internal/store"
)

// Service is the persistence collaborator the editor hands snapshots
// to. It sanitizes markup before storage.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// Open opens the layout database at path.
func Open(path string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return &Service{store: st, logger: logger}, nil
}

// NewWithStore wraps an existing store. Used by tests with an in-memory
// database.
func NewWithStore(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// Close closes the underlying database.
func (s *Service) Close() error { return s.store.Close() }

// Save sanitizes and persists one snapshot.
func (s *Service) Save(ctx context.Context, snap Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("layout: snapshot id required")
	}
	snap.HTML = Sanitize(snap.HTML)
	if err := s.store.Insert(ctx, snap); err != nil {
		return err
	}
	s.logger.Info("layout: snapshot saved",
		"id", snap.ID, "domain", snap.Domain, "bytes", len(snap.HTML))
	return nil
}

// Get returns one snapshot by id.
func (s *Service) Get(ctx context.Context, id string) (Snapshot, error) {
	return s.store.Get(ctx, id)
}

// List returns snapshots for a domain (or all, for an empty domain),
// newest first, without markup bodies.
func (s *Service) List(ctx context.Context, domain string, limit int) ([]Snapshot, error) {
	return s.store.ListByDomain(ctx, domain, limit)
}

// Delete removes one snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
