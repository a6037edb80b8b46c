package observability

// Schema is the DDL for the edit audit trail. The trail lives in its
// own database file so audit writes never contend with layout saves.
const Schema = `
CREATE TABLE IF NOT EXISTS edit_events (
    event_id TEXT PRIMARY KEY,
    at INTEGER NOT NULL,
    source TEXT NOT NULL,
    kind TEXT NOT NULL,
    page_url TEXT,
    descriptor TEXT,
    detail TEXT,
    error_message TEXT,
    created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_edit_events_at ON edit_events(at DESC);
CREATE INDEX IF NOT EXISTS idx_edit_events_source_kind ON edit_events(source, kind, at DESC);
`
