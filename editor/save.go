package editor

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/hazyhaar/domedit/layout"
)

// SaveLayout serializes the whole document plus viewport metadata and
// hands it to the layout store. Saving requires an active selection.
//
// Everything the save needs is captured before the store call, so a
// save racing a later Stop never touches torn-down state. On success
// the selection's snapshot is refreshed: a subsequent Reset reverts to
// the post-save state, not the pre-save one.
func (e *Editor) SaveLayout(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if e.selected == nil {
		return &NoSelectionError{Op: "save layout"}
	}
	if e.cfg.Store == nil {
		return &PersistenceError{Err: errors.New("no layout store configured")}
	}

	html, err := e.cfg.Document.OuterHTML(ctx)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	pageURL, err := e.cfg.Document.URL(ctx)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	title, err := e.cfg.Document.Title(ctx)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	w, h, err := e.cfg.Document.Viewport(ctx)
	if err != nil {
		return &PersistenceError{Err: err}
	}

	snap := layout.Snapshot{
		ID:         e.cfg.IDs(),
		Domain:     domainOf(pageURL),
		URL:        pageURL,
		Title:      title,
		HTML:       html,
		ViewportW:  w,
		ViewportH:  h,
		CapturedAt: time.Now(),
	}

	if err := e.cfg.Store.Save(ctx, snap); err != nil {
		return &PersistenceError{Err: err}
	}

	refreshed, err := captureSnapshot(ctx, e.selected)
	if err != nil {
		e.log.Warn("editor: refresh snapshot after save", "error", err)
	} else {
		e.snapshot = refreshed
	}

	e.log.Info("editor: layout saved", "id", snap.ID, "domain", snap.Domain, "bytes", len(html))
	e.broadcastLocked(ctx)
	return nil
}

func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
