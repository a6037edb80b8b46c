package store

// Schema is the layouts DDL, applied on open.
const Schema = `
CREATE TABLE IF NOT EXISTS layouts (
	id           TEXT PRIMARY KEY,
	domain       TEXT NOT NULL,
	url          TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	html         TEXT NOT NULL,
	viewport_w   INTEGER NOT NULL DEFAULT 0,
	viewport_h   INTEGER NOT NULL DEFAULT 0,
	captured_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_layouts_domain ON layouts(domain, captured_at DESC);
`
