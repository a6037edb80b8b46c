// Package layout persists full-page snapshots captured by the editor.
package layout

import "github.com/hazyhaar/domedit/layout/internal/store"

// Snapshot is one saved page layout.
type Snapshot = store.Snapshot

// ErrNotFound is returned when a snapshot id does not exist.
var ErrNotFound = store.ErrNotFound
