// Package editor implements a stateful element inspector/editor driven
// against a live document: hover/selection targeting, a highlight
// overlay, snapshot/restore of element state, live style and attribute
// mutation, children reorder, and a floating/dockable property panel.
//
// The editor owns injected chrome and broadcast plumbing; the document
// itself is owned by the page. Every public operation returns an error
// from the taxonomy in errors.go instead of panicking, and every
// state-changing operation ends with exactly one state broadcast.
package editor

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/hazyhaar/domedit/editor/internal/chrome"
	"github.com/hazyhaar/domedit/editor/internal/dom"
	"github.com/hazyhaar/domedit/editor/internal/sink"
	"github.com/hazyhaar/domedit/idgen"
	"github.com/hazyhaar/domedit/layout"
)

// chromeAttr marks injected editor UI. Elements carrying it (or inside
// an element carrying it) are never selectable.
const chromeAttr = "data-domedit-chrome"

// Chrome is the injected in-page UI surface. Nil chrome runs the editor
// headless, which is how the tests drive it.
type Chrome interface {
	Install(ctx context.Context, onEvent func(chrome.Event)) error
	Teardown(ctx context.Context) error
	ShowHighlight(ctx context.Context, x, y, w, h float64) error
	HideHighlight(ctx context.Context) error
	RenderPanel(ctx context.Context, model json.RawMessage) error
	HidePanel(ctx context.Context) error
}

// LayoutStore persists full-page snapshots.
type LayoutStore interface {
	Save(ctx context.Context, snap layout.Snapshot) error
}

// Config configures an Editor.
type Config struct {
	Document dom.Document
	Chrome   Chrome
	Sink     sink.Sink
	Store    LayoutStore
	Theme    string // "light" or "dark"; default dark
	IDs      idgen.Generator
	Logger   *slog.Logger
}

func (c *Config) defaults() {
	if c.Theme == "" {
		c.Theme = "dark"
	}
	if c.IDs == nil {
		c.IDs = idgen.Default
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Editor is one edit session against one document. Construct with New,
// drive with Start/Stop and the operation methods. Methods are safe for
// concurrent use; internally everything serializes on one mutex, the
// moral equivalent of the single UI event loop this models.
type Editor struct {
	mu  sync.Mutex
	cfg Config
	log *slog.Logger

	active   bool
	selected dom.Element
	snapshot *ElementSnapshot
	hovered  dom.Element

	geometry PanelGeometry
	vp       Viewport
	drag     *DragSession
	resize   *ResizeSession
}

// New creates an inactive editor over the given document.
func New(cfg Config) *Editor {
	cfg.defaults()
	return &Editor{cfg: cfg, log: cfg.Logger}
}

// Start activates the editor: installs chrome and listeners and moves
// to the active, no-selection state. Calling Start on an active editor
// is a no-op success.
func (e *Editor) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		return nil
	}

	if w, h, err := e.cfg.Document.Viewport(ctx); err == nil {
		e.vp = Viewport{Width: float64(w), Height: float64(h)}
	} else {
		e.log.Warn("editor: viewport read failed", "error", err)
	}

	if e.cfg.Chrome != nil {
		if err := e.cfg.Chrome.Install(ctx, e.handleChromeEvent); err != nil {
			return err
		}
	}

	e.geometry = DefaultGeometry()
	e.active = true
	e.log.Info("editor: activated", "theme", e.cfg.Theme)
	e.broadcastLocked(ctx)
	return nil
}

// Stop deactivates the editor, removing every injected node and
// listener and clearing selection state. Fails with NotActiveError when
// the editor is already inactive.
func (e *Editor) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}

	e.teardownLocked(ctx)
	e.broadcastLocked(ctx)
	return nil
}

// teardownLocked is the single place activation resources are released.
// Stop and any future failure paths both route through it so nothing
// can leak half a session.
func (e *Editor) teardownLocked(ctx context.Context) {
	if e.cfg.Chrome != nil {
		if err := e.cfg.Chrome.Teardown(ctx); err != nil {
			e.log.Warn("editor: chrome teardown failed", "error", err)
		}
	}
	e.selected = nil
	e.snapshot = nil
	e.hovered = nil
	e.drag = nil
	e.resize = nil
	e.geometry = PanelGeometry{}
	e.active = false
	e.log.Info("editor: deactivated")
}

// Active reports whether an edit session is live.
func (e *Editor) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// State returns the current editor state. Descriptor, Snapshot and
// Children are populated together iff a selection exists.
func (e *Editor) State(ctx context.Context) EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked(ctx)
}

func (e *Editor) stateLocked(ctx context.Context) EditorState {
	st := EditorState{Active: e.active, Theme: e.cfg.Theme}
	if !e.active || e.selected == nil {
		return st
	}

	desc, err := describe(ctx, e.selected)
	if err != nil {
		e.log.Warn("editor: describe selection", "error", err)
		return st
	}
	children, err := e.childEntriesLocked(ctx)
	if err != nil {
		e.log.Warn("editor: list children", "error", err)
		children = nil
	}

	st.Descriptor = &desc
	st.Snapshot = e.snapshot
	st.Children = children
	return st
}

// Geometry returns the current panel geometry.
func (e *Editor) Geometry() PanelGeometry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.geometry
}

// CycleDock advances the panel to the next dock state and re-renders.
func (e *Editor) CycleDock(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	e.geometry = e.geometry.CycleDock()
	e.renderPanelLocked(ctx)
	return nil
}

// handleChromeEvent dispatches events forwarded by the injected chrome.
// It runs on the binding listener goroutine; each event takes the lock
// like any external caller.
func (e *Editor) handleChromeEvent(ev chrome.Event) {
	ctx := context.Background()

	var err error
	switch ev.Kind {
	case "hover":
		err = e.Hover(ctx, ev.ID)
	case "chrome_hover":
		err = e.HoverChrome(ctx)
	case "click":
		err = e.SelectByID(ctx, ev.ID)
	case "exit":
		err = e.Stop(ctx)
	case "scroll":
		err = e.RefreshHighlight(ctx)
	case "resize":
		err = e.ViewportChanged(ctx, ev.Width, ev.Height)
	case "panel_edit":
		err = e.ApplyField(ctx, ev.Field, ev.Value)
	case "dock_cycle":
		err = e.CycleDock(ctx)
	case "drag_start":
		err = e.BeginDrag(ctx, ev.X, ev.Y)
	case "drag_move":
		err = e.DragMove(ctx, ev.X, ev.Y)
	case "drag_end":
		err = e.EndDrag(ctx)
	case "resize_start":
		err = e.BeginResize(ctx, ev.X, ev.Y)
	case "resize_move":
		err = e.ResizeMove(ctx, ev.X, ev.Y)
	case "resize_end":
		err = e.EndResize(ctx)
	case "reorder":
		err = e.Reorder(ctx, ev.Source, ev.Target)
	case "child_select":
		err = e.SelectChild(ctx, ev.Index)
	case "parent_select":
		err = e.SelectParent(ctx)
	case "reset":
		err = e.Reset(ctx)
	case "save":
		err = e.SaveLayout(ctx)
	default:
		e.log.Debug("editor: unknown chrome event", "kind", ev.Kind)
		return
	}

	if err != nil {
		// UI events have no caller to report to; the error taxonomy is
		// for the command surface. Log and move on.
		e.log.Debug("editor: chrome event rejected", "kind", ev.Kind, "error", err)
	}
}

// ViewportChanged records the new viewport and recomputes the overlay
// and panel position.
func (e *Editor) ViewportChanged(ctx context.Context, w, h float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return &NotActiveError{}
	}
	if w > 0 && h > 0 {
		e.vp = Viewport{Width: w, Height: h}
	}
	e.refreshHighlightLocked(ctx)
	e.renderPanelLocked(ctx)
	return nil
}

// BeginDrag starts a panel header drag.
func (e *Editor) BeginDrag(_ context.Context, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return &NotActiveError{}
	}
	s := e.geometry.BeginDrag(x, y, e.vp)
	e.drag = &s
	return nil
}

// DragMove updates the floating position, forcing the floating dock
// state and clamping to the viewport.
func (e *Editor) DragMove(ctx context.Context, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.drag == nil {
		return nil
	}
	e.geometry = e.drag.Move(e.geometry, x, y, e.vp)
	e.renderPanelLocked(ctx)
	return nil
}

// EndDrag finishes a drag gesture.
func (e *Editor) EndDrag(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag = nil
	return nil
}

// BeginResize starts a panel resize drag.
func (e *Editor) BeginResize(_ context.Context, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return &NotActiveError{}
	}
	s := e.geometry.BeginResize(x, y)
	e.resize = &s
	return nil
}

// ResizeMove updates the panel size with floor clamping.
func (e *Editor) ResizeMove(ctx context.Context, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.resize == nil {
		return nil
	}
	e.geometry = e.resize.Move(e.geometry, x, y, e.vp)
	e.renderPanelLocked(ctx)
	return nil
}

// EndResize finishes a resize gesture.
func (e *Editor) EndResize(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resize = nil
	return nil
}
